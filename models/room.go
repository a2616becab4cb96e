package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string         `gorm:"size:255;uniqueIndex" json:"name"`
	Capacity    int            `json:"capacity"`
	Location    string         `gorm:"size:255" json:"location"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"` // JSON array of strings
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:255" json:"imageUrl"`

	// Soft-delete flag: inactive rooms are hidden from the booking page but
	// their historical bookings remain.
	IsActive bool `gorm:"default:true;index" json:"isActive"`
}
