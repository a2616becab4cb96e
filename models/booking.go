package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// ActiveBookingStatuses are the statuses that count toward collision and
// limit checks.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed}

// Booking is a study-room reservation. Date is "YYYY-MM-DD" and the times are
// zero-padded "HH:MM", so all three compare lexicographically; a single
// institutional timezone is assumed throughout.
type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID uint   `gorm:"index;column:student_id" json:"student_id"`
	RoomID    uint   `gorm:"column:room_id;index:idx_bookings_room_date" json:"room_id"`
	Date      string `gorm:"size:10;index:idx_bookings_room_date;index:idx_bookings_date" json:"date"`
	StartTime string `gorm:"size:5;column:start_time" json:"startTime"`
	EndTime   string `gorm:"size:5;column:end_time" json:"endTime"`
	Purpose   string `gorm:"type:text" json:"purpose"`

	Status      string     `gorm:"size:16;default:confirmed;index" json:"status"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Student User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Room    Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// IsActive reports whether the booking still counts toward collisions and
// daily/weekly limits.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsTerminal reports whether the status admits no further transitions.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

// EffectiveStatus is the single authoritative derivation of a booking's
// displayed status: an active booking whose end lies strictly in the past is
// completed, whether or not the sweep has persisted that yet.
func (b *Booking) EffectiveStatus(now time.Time) string {
	if !b.IsActive() {
		return b.Status
	}
	today := now.Format("2006-01-02")
	if b.Date < today || (b.Date == today && b.EndTime < now.Format("15:04")) {
		return BookingCompleted
	}
	return b.Status
}
