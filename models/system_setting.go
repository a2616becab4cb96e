package models

import "time"

// SystemSetting is the singleton policy row read by every reservation
// validation. Exactly one record exists; SettingsService creates it with
// defaults on first read.
type SystemSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Max duration of a single room booking, in hours.
	MaxBookingDuration int `gorm:"default:4" json:"maxBookingDuration"`
	// Max days into the future a booking or meeting date may lie, counted
	// from tomorrow.
	MaxAdvanceDays int `gorm:"default:7" json:"maxAdvanceDays"`

	LibraryName   string `gorm:"size:255;default:University Central Library" json:"libraryName"`
	SupportEmail  string `gorm:"size:150;default:library@university.edu" json:"supportEmail"`
	LibrarianCode string `gorm:"size:64;default:ADMIN2026" json:"librarianCode"`
	StudentCode   string `gorm:"size:64;default:STUDENT2026" json:"studentCode"`
}
