package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"library-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Live-chat session limits: a session ends after 30 minutes regardless of
// activity, or after 5 minutes of silence.
const (
	chatMaxSessionAge = 30 * time.Minute
	chatIdleTimeout   = 5 * time.Minute
)

// ChatService manages the live-chat session lifecycle. Message delivery to
// connected clients is the relay's concern, not handled here.
type ChatService struct {
	DB *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db}
}

// Request opens a session for a student, assigning the first chat-available
// librarian or leaving it queued when none is.
func (s *ChatService) Request(studentID uint) (*models.ChatSession, error) {
	var existing models.ChatSession
	err := s.DB.Where("student_id = ? AND status = ?", studentID, models.ChatOngoing).
		First(&existing).Error
	if err == nil {
		return nil, reject(KindConflict, "you already have an active chat session")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing session: %w", err)
	}

	var librarianID *uint
	var librarian models.User
	err = s.DB.Where("role = ? AND chat_available = ?", models.RoleLibrarian, true).
		First(&librarian).Error
	if err == nil {
		librarianID = &librarian.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find available librarian: %w", err)
	}

	now := time.Now()
	session := models.ChatSession{
		StudentID:    studentID,
		LibrarianID:  librarianID,
		RoomKey:      "live-" + uuid.NewString(),
		Status:       models.ChatOngoing,
		StartedAt:    now,
		LastActivity: now,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return &session, nil
}

// ChatStatus is what GET /api/chat/status returns; students get one active
// session, staff get their assigned sessions plus the unassigned queue.
type ChatStatus struct {
	ActiveSession  *models.ChatSession  `json:"activeSession,omitempty"`
	ActiveSessions []models.ChatSession `json:"activeSessions,omitempty"`
	QueuedSessions []models.ChatSession `json:"queuedSessions,omitempty"`
}

func (s *ChatService) Status(user *models.User) (*ChatStatus, error) {
	if user.Role == models.RoleStudent {
		var session models.ChatSession
		err := s.DB.Preload("Librarian").
			Where("student_id = ? AND status = ?", user.ID, models.ChatOngoing).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ChatStatus{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		return &ChatStatus{ActiveSession: &session}, nil
	}

	var assigned []models.ChatSession
	if err := s.DB.Preload("Student").
		Where("status = ? AND librarian_id = ?", models.ChatOngoing, user.ID).
		Find(&assigned).Error; err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	var queued []models.ChatSession
	if err := s.DB.Preload("Student").
		Where("status = ? AND librarian_id IS NULL", models.ChatOngoing).
		Find(&queued).Error; err != nil {
		return nil, fmt.Errorf("failed to load queued sessions: %w", err)
	}
	return &ChatStatus{ActiveSessions: assigned, QueuedSessions: queued}, nil
}

// Join claims a queued session for a staff member. The locked re-read means
// two librarians picking up the same session cannot both win.
func (s *ChatService) Join(user *models.User, sessionID uint) (*models.ChatSession, error) {
	if user.Role != models.RoleLibrarian && user.Role != models.RoleAdmin {
		return nil, reject(KindForbidden, "only staff can join a chat session")
	}

	var session models.ChatSession
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "chat session not found")
			}
			return fmt.Errorf("failed to load session: %w", err)
		}
		if session.Status != models.ChatOngoing {
			return reject(KindConflict, "chat session has ended")
		}
		if session.LibrarianID != nil {
			return reject(KindConflict, "chat session already has a librarian")
		}
		return tx.Model(&session).Updates(map[string]interface{}{
			"librarian_id":  user.ID,
			"last_activity": time.Now(),
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Student").First(&session, session.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}
	return &session, nil
}

// participant reports whether user belongs to the session.
func participant(session *models.ChatSession, user *models.User) bool {
	if session.StudentID == user.ID {
		return true
	}
	if session.LibrarianID != nil && *session.LibrarianID == user.ID {
		return true
	}
	return user.Role == models.RoleAdmin
}

// PostMessage appends to the transcript and bumps the inactivity clock.
func (s *ChatService) PostMessage(user *models.User, sessionID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, reject(KindInvalidInput, "message body is required")
	}

	var session models.ChatSession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "chat session not found")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !participant(&session, user) {
		return nil, reject(KindForbidden, "not a participant of this session")
	}
	if session.Status != models.ChatOngoing {
		return nil, reject(KindConflict, "chat session has ended")
	}

	message := models.Message{SessionID: session.ID, SenderID: user.ID, Body: body}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	if err := s.DB.Model(&session).Update("last_activity", time.Now()).Error; err != nil {
		return nil, fmt.Errorf("failed to update session activity: %w", err)
	}
	return &message, nil
}

// Messages returns the transcript, oldest first.
func (s *ChatService) Messages(user *models.User, sessionID uint) ([]models.Message, error) {
	var session models.ChatSession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "chat session not found")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !participant(&session, user) {
		return nil, reject(KindForbidden, "not a participant of this session")
	}

	var messages []models.Message
	if err := s.DB.Preload("Sender").
		Where("session_id = ?", session.ID).
		Order("created_at").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}

// End closes an ongoing session explicitly.
func (s *ChatService) End(user *models.User, sessionID uint) error {
	var session models.ChatSession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reject(KindNotFound, "chat session not found")
		}
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !participant(&session, user) {
		return reject(KindForbidden, "not a participant of this session")
	}
	if session.Status != models.ChatOngoing {
		return reject(KindConflict, "chat session has already ended")
	}

	now := time.Now()
	return s.DB.Model(&session).Updates(map[string]interface{}{
		"status":   models.ChatCompleted,
		"ended_at": now,
	}).Error
}

// CloseExpired force-ends ongoing sessions past the hard cap or the
// inactivity cap. Sessions nobody picked up end as Missed.
func (s *ChatService) CloseExpired(now time.Time) error {
	var expired []models.ChatSession
	if err := s.DB.
		Where("status = ? AND (last_activity < ? OR started_at < ?)",
			models.ChatOngoing, now.Add(-chatIdleTimeout), now.Add(-chatMaxSessionAge)).
		Find(&expired).Error; err != nil {
		return fmt.Errorf("failed to find expired sessions: %w", err)
	}

	for i := range expired {
		status := models.ChatCompleted
		if expired[i].LibrarianID == nil {
			status = models.ChatMissed
		}
		if err := s.DB.Model(&expired[i]).Updates(map[string]interface{}{
			"status":   status,
			"ended_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to close session %d: %w", expired[i].ID, err)
		}
		log.Printf("auto-closed chat session %d (%s)", expired[i].ID, status)
	}
	return nil
}

// StartSweeper runs CloseExpired every interval until ctx is cancelled.
func (s *ChatService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.CloseExpired(time.Now()); err != nil {
					log.Printf("chat sweep error: %v", err)
				}
			}
		}
	}()
}
