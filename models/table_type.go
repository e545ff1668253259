package models

import "time"

type TableType struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	DisplayName      string    `gorm:"type:varchar(255);not null" json:"display_name"`
	DefaultWidth     int       `gorm:"not null" json:"default_width"`
	DefaultHeight    int       `gorm:"not null" json:"default_height"`
	DefaultMaxGuests int       `gorm:"not null" json:"default_max_guests"`
	ColorCode        *string   `gorm:"type:varchar(20)" json:"color_code"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
