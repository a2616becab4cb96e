package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ChatOngoing   = "Ongoing"
	ChatCompleted = "Completed"
	ChatMissed    = "Missed"
)

// ChatSession is a live-chat request from a student. LibrarianID stays nil
// while the session waits in the queue for a chat-available librarian.
type ChatSession struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID   uint  `gorm:"index" json:"student_id"`
	LibrarianID *uint `gorm:"index" json:"librarian_id,omitempty"`

	RoomKey string `gorm:"uniqueIndex;size:64" json:"roomKey"`
	Status  string `gorm:"size:16;default:Ongoing;index" json:"status"`

	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	LastActivity time.Time  `json:"lastActivity"`

	Student   User  `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Librarian *User `gorm:"foreignKey:LibrarianID;references:ID" json:"librarian,omitempty"`
}
