package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaticItem is a non-bookable decor element (plant, bar counter, ...).
// Carries no dependents, so layout saves replace these wholesale.
type StaticItem struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(100);not null" json:"type"`
	X         int       `gorm:"not null" json:"x"`
	Y         int       `gorm:"not null" json:"y"`
	Rotation  int       `gorm:"not null;default:0" json:"rotation"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *StaticItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
