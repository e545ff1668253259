package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table is a bookable table on the floor plan. Tables are never
// hard-deleted: layout edits flip IsActive so historical reservations
// keep a resolvable target.
type Table struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`
	TypeID      uint       `gorm:"not null;index" json:"type_id"`
	TableType   *TableType `gorm:"foreignKey:TypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table_type,omitempty"`
	TableNumber int        `gorm:"not null" json:"table_number"`
	MaxGuests   int        `gorm:"not null" json:"max_guests"`
	X           int        `gorm:"not null" json:"x"`
	Y           int        `gorm:"not null" json:"y"`
	Rotation    int        `gorm:"not null;default:0" json:"rotation"`
	Width       *int       `json:"width,omitempty"`
	Height      *int       `json:"height,omitempty"`
	RoomID      uint       `gorm:"not null;index" json:"room_id"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
