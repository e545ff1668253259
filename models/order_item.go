package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem links a MenuItem to a Reservation with a quantity. There is
// no stock tracking; deletion of a referenced MenuItem is blocked.
type OrderItem struct {
	ID            string       `gorm:"type:char(36);primaryKey" json:"id"`
	ReservationID string       `gorm:"type:char(36);not null;index" json:"reservation_id"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID    string       `gorm:"type:char(36);not null;index" json:"menu_item_id"`
	MenuItem      *MenuItem    `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
