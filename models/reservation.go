package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation statuses form a closed set with validated transitions,
// see services.ReservationService.UpdateStatus.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Reservation snapshots the booker's name and phone at creation time,
// independent of the User profile. Dates are stored as YYYY-MM-DD and
// times as HH:MM, matching the wire format; slots are hour-granular.
//
// The unique index on (table_id, reservation_date, reservation_time)
// backstops the transactional conflict check against two concurrent
// bookings of the same slot.
type Reservation struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          string    `gorm:"type:char(36);not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID;references:ID" json:"-"`
	TableID         string    `gorm:"type:char(36);not null;uniqueIndex:idx_reservations_slot" json:"table_id"`
	Table           *Table    `gorm:"foreignKey:TableID;references:ID" json:"table,omitempty"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_reservations_slot" json:"reservation_date"`
	ReservationTime string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_reservations_slot" json:"reservation_time"`
	Duration        int       `gorm:"not null;default:1" json:"duration"`
	GuestsCount     int       `gorm:"not null" json:"guests_count"`
	FirstName       string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone           string    `gorm:"type:varchar(50);not null" json:"phone"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReservationStatusPending
	}
	return nil
}
