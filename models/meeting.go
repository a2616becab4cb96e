package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MeetingPending   = "pending"
	MeetingApproved  = "approved"
	MeetingRejected  = "rejected"
	MeetingCancelled = "cancelled"
)

// ActiveMeetingStatuses are the statuses that hold a slot.
var ActiveMeetingStatuses = []string{MeetingPending, MeetingApproved}

// Meeting is a librarian-consultation request. Unlike room bookings, meetings
// occupy a single discrete slot (PreferredTime) rather than an interval, and
// they are created pending: staff must approve or reject them.
type Meeting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID     uint   `gorm:"index;column:student_id" json:"student_id"`
	LibrarianID   uint   `gorm:"column:librarian_id;index:idx_meetings_slot" json:"librarian_id"`
	Date          string `gorm:"size:10;index:idx_meetings_slot;index:idx_meetings_date" json:"date"`
	PreferredTime string `gorm:"size:5;column:preferred_time;index:idx_meetings_slot" json:"preferredTime"`

	Topic string `gorm:"size:255" json:"topic"`
	Notes string `gorm:"type:text" json:"notes"`

	Status        string     `gorm:"size:16;default:pending;index" json:"status"`
	LibrarianNote string     `gorm:"type:text" json:"librarianNote"`
	ReviewedByID  *uint      `gorm:"column:reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`

	Student    User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Librarian  User `gorm:"foreignKey:LibrarianID;references:ID" json:"librarian,omitempty"`
	ReviewedBy User `gorm:"foreignKey:ReviewedByID;references:ID" json:"reviewedBy,omitempty"`
}

// IsActive reports whether the meeting still holds its slot.
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingPending || m.Status == MeetingApproved
}

// IsTerminal reports whether the status admits no further transitions.
// Pending is the only non-terminal meeting state.
func (m *Meeting) IsTerminal() bool {
	return m.Status != MeetingPending
}
