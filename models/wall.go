package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wall struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	X         int       `gorm:"not null" json:"x"`
	Y         int       `gorm:"not null" json:"y"`
	Rotation  int       `gorm:"not null;default:0" json:"rotation"`
	Length    int       `gorm:"not null" json:"length"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wall) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
