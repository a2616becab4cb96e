package models

import "time"

// Message is one chat line inside a session. Delivery to connected clients is
// the relay's concern; this is only the persisted transcript.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID uint   `gorm:"index" json:"session_id"`
	SenderID  uint   `gorm:"index" json:"sender_id"`
	Body      string `gorm:"type:text" json:"body"`

	Sender User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
}
