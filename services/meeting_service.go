package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"library-backend/models"

	"gorm.io/gorm"
)

// MeetingService is the constraint engine for librarian consultations.
// Meetings differ from room bookings in two ways: they occupy a discrete slot
// instead of an interval, and they are created pending staff review.
type MeetingService struct {
	DB     *gorm.DB
	Policy PolicyReader
}

func NewMeetingService(db *gorm.DB, policy PolicyReader) *MeetingService {
	return &MeetingService{DB: db, Policy: policy}
}

type CreateMeetingInput struct {
	LibrarianID   uint
	Date          string
	PreferredTime string
	Topic         string
	Notes         string
}

// Create runs the meeting checks in order (first failure wins) and persists
// the request as pending. The slot and per-student checks re-run inside the
// insert transaction under a row lock.
func (s *MeetingService) Create(studentID uint, in CreateMeetingInput, now time.Time) (*models.Meeting, error) {
	if _, err := parseDate(in.Date); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	if err := parseTimeOfDay(in.PreferredTime); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, reject(KindInvalidInput, "topic is required")
	}

	_, maxAdvance, err := s.Policy.Policy()
	if err != nil {
		return nil, err
	}

	// 1-2: advance-booking window.
	today := now.Format(dateLayout)
	if in.Date <= today {
		return nil, reject(KindDateTooSoon, "meetings must be scheduled at least one day in advance")
	}
	if maxDate := now.AddDate(0, 0, maxAdvance).Format(dateLayout); in.Date > maxDate {
		return nil, reject(KindDateTooFar, "you can only book up to %d days in advance", maxAdvance)
	}

	// 3: the librarian exists and is visible to students.
	var librarian models.User
	if err := s.DB.Where("id = ? AND role = ?", in.LibrarianID, models.RoleLibrarian).
		First(&librarian).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "librarian not found")
		}
		return nil, fmt.Errorf("failed to load librarian %d: %w", in.LibrarianID, err)
	}
	if !librarian.IsAvailable {
		return nil, reject(KindLibrarianUnavailable, "%s is currently unavailable", librarian.Name)
	}

	// 4-5: the librarian's own working hours for that weekday.
	day, err := dayKey(in.Date)
	if err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	table, err := librarian.WorkingHoursTable()
	if err != nil {
		return nil, fmt.Errorf("failed to decode working hours for librarian %d: %w", librarian.ID, err)
	}
	dayHours := table[day]
	if !dayHours.Enabled {
		return nil, reject(KindNonWorkingDay, "%s does not work on this day", librarian.Name)
	}
	if in.PreferredTime < dayHours.Open || in.PreferredTime >= dayHours.Close {
		return nil, reject(KindOutsideWorkingHours,
			"%s's hours on this day are %s-%s", librarian.Name, dayHours.Open, dayHours.Close)
	}

	meeting := models.Meeting{
		StudentID:     studentID,
		LibrarianID:   librarian.ID,
		Date:          in.Date,
		PreferredTime: in.PreferredTime,
		Topic:         topic,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        models.MeetingPending,
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// 6: exact-slot collision with the librarian's other meetings.
		var slotTaken int64
		if err := lockForUpdate(tx).Model(&models.Meeting{}).
			Where("librarian_id = ? AND date = ? AND preferred_time = ? AND status IN ?",
				librarian.ID, in.Date, in.PreferredTime, models.ActiveMeetingStatuses).
			Count(&slotTaken).Error; err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if slotTaken > 0 {
			return reject(KindSlotTaken, "%s is already booked at this time", librarian.Name)
		}

		// 7: one meeting per day per student, with any librarian.
		var sameDay int64
		if err := lockForUpdate(tx).Model(&models.Meeting{}).
			Where("student_id = ? AND date = ? AND status IN ?",
				studentID, in.Date, models.ActiveMeetingStatuses).
			Count(&sameDay).Error; err != nil {
			return fmt.Errorf("failed to check daily limit: %w", err)
		}
		if sameDay > 0 {
			return reject(KindDailyLimitReached, "you already have a meeting scheduled on this day")
		}

		if err := tx.Create(&meeting).Error; err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Librarian").First(&meeting, meeting.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload meeting: %w", err)
	}
	return &meeting, nil
}

// Review approves or rejects a pending meeting. Admins may review any
// meeting; librarians only those assigned to them. Reviewing a meeting that
// left pending is a Conflict.
func (s *MeetingService) Review(reviewer *models.User, meetingID uint, decision, note string, now time.Time) (*models.Meeting, error) {
	if decision != models.MeetingApproved && decision != models.MeetingRejected {
		return nil, reject(KindInvalidInput, "decision must be %q or %q",
			models.MeetingApproved, models.MeetingRejected)
	}

	var meeting models.Meeting
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&meeting, meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "meeting not found")
			}
			return fmt.Errorf("failed to load meeting: %w", err)
		}

		if reviewer.Role == models.RoleLibrarian && meeting.LibrarianID != reviewer.ID {
			return reject(KindForbidden, "you can only review meetings assigned to you")
		}
		if meeting.IsTerminal() {
			return reject(KindConflict, "meeting is already %s", meeting.Status)
		}

		return tx.Model(&meeting).Updates(map[string]interface{}{
			"status":         decision,
			"librarian_note": strings.TrimSpace(note),
			"reviewed_by_id": reviewer.ID,
			"reviewed_at":    now,
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Student").Preload("Librarian").First(&meeting, meeting.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload meeting: %w", err)
	}
	return &meeting, nil
}

// Cancel transitions a meeting to cancelled. The owning student, the assigned
// librarian, or an admin may cancel; only pending meetings can be.
func (s *MeetingService) Cancel(user *models.User, meetingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := lockForUpdate(tx).First(&meeting, meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "meeting not found")
			}
			return fmt.Errorf("failed to load meeting: %w", err)
		}

		isOwner := meeting.StudentID == user.ID
		isAdmin := user.Role == models.RoleAdmin
		isOwnLibrarian := user.Role == models.RoleLibrarian && meeting.LibrarianID == user.ID
		if !isOwner && !isAdmin && !isOwnLibrarian {
			return reject(KindForbidden, "not authorized to cancel this meeting")
		}
		if meeting.IsTerminal() {
			return reject(KindConflict, "meeting is already %s", meeting.Status)
		}

		return tx.Model(&meeting).Update("status", models.MeetingCancelled).Error
	})
}

// ListForStudent returns the student's own meeting requests.
func (s *MeetingService) ListForStudent(studentID uint) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := s.DB.Preload("Librarian").
		Where("student_id = ?", studentID).
		Order("date DESC, preferred_time DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// ListForStaff returns every meeting for admins and only assigned meetings
// for librarians.
func (s *MeetingService) ListForStaff(user *models.User) ([]models.Meeting, error) {
	query := s.DB.Preload("Student").Preload("Librarian").
		Order("date DESC, preferred_time DESC")
	if user.Role == models.RoleLibrarian {
		query = query.Where("librarian_id = ?", user.ID)
	}
	var meetings []models.Meeting
	if err := query.Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// TakenSlots lists the preferred times already held against a librarian on a
// date, for the student scheduling page.
func (s *MeetingService) TakenSlots(librarianID uint, date string) ([]string, error) {
	if _, err := parseDate(date); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	var times []string
	if err := s.DB.Model(&models.Meeting{}).
		Where("librarian_id = ? AND date = ? AND status IN ?",
			librarianID, date, models.ActiveMeetingStatuses).
		Order("preferred_time").
		Pluck("preferred_time", &times).Error; err != nil {
		return nil, fmt.Errorf("failed to load taken slots: %w", err)
	}
	return times, nil
}
