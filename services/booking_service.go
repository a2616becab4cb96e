package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"library-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the constraint engine for study-room bookings: it decides
// admit/reject for each request and owns the booking side of the ledger.
type BookingService struct {
	DB     *gorm.DB
	Policy PolicyReader
}

func NewBookingService(db *gorm.DB, policy PolicyReader) *BookingService {
	return &BookingService{DB: db, Policy: policy}
}

// lockForUpdate adds a row lock on MySQL. SQLite (used by the tests) has no
// row locks; its writes serialize on the database lock instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type CreateBookingInput struct {
	RoomID    uint
	Date      string
	StartTime string
	EndTime   string
	Purpose   string
}

// TimeRange is one taken interval in the availability projection.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Create runs the booking checks in their fixed order (first failure wins)
// and persists the reservation as confirmed. The checks that read the ledger
// run again inside the insert transaction under a row lock, so two
// overlapping requests cannot both be admitted.
func (s *BookingService) Create(studentID uint, in CreateBookingInput, now time.Time) (*models.Booking, error) {
	if _, err := parseDate(in.Date); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	if err := parseTimeOfDay(in.StartTime); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	if err := parseTimeOfDay(in.EndTime); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}

	var room models.Room
	if err := s.DB.First(&room, in.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "room not found")
		}
		return nil, fmt.Errorf("failed to load room %d: %w", in.RoomID, err)
	}
	if !room.IsActive {
		return nil, reject(KindNotFound, "room not found")
	}

	maxDuration, maxAdvance, err := s.Policy.Policy()
	if err != nil {
		return nil, err
	}

	// 1-2: advance-booking window, counted from tomorrow.
	today := now.Format(dateLayout)
	if in.Date <= today {
		return nil, reject(KindDateTooSoon, "bookings must be made at least one day in advance")
	}
	if maxDate := now.AddDate(0, 0, maxAdvance).Format(dateLayout); in.Date > maxDate {
		return nil, reject(KindDateTooFar, "you can only book up to %d days in advance", maxAdvance)
	}

	// 3: chronological interval.
	if in.StartTime >= in.EndTime {
		return nil, reject(KindInvalidInterval, "end time must be after start time")
	}

	// 4: global library hours for that weekday.
	day, err := dayKey(in.Date)
	if err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	hours := libraryHours[day]
	if in.StartTime < hours.Open || in.EndTime > hours.Close {
		return nil, reject(KindOutsideOperatingHours,
			"the library is open %s-%s on this day", hours.Open, hours.Close)
	}

	// 5: session length cap.
	if durationMinutes(in.StartTime, in.EndTime) > maxDuration*60 {
		return nil, reject(KindDurationExceeded, "bookings are limited to %d hours", maxDuration)
	}

	weekStart, weekEnd, err := weekBounds(in.Date)
	if err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}

	booking := models.Booking{
		StudentID: studentID,
		RoomID:    room.ID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Purpose:   strings.TrimSpace(in.Purpose),
		Status:    models.BookingConfirmed,
	}

	// 6-9 read the ledger, so they run inside the insert transaction: the
	// rows they lock cannot change between the check and the write.
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// 6: one room booking per day per student.
		var sameDay int64
		if err := lockForUpdate(tx).Model(&models.Booking{}).
			Where("student_id = ? AND date = ? AND status IN ?", studentID, in.Date, models.ActiveBookingStatuses).
			Count(&sameDay).Error; err != nil {
			return fmt.Errorf("failed to check daily limit: %w", err)
		}
		if sameDay > 0 {
			return reject(KindDailyLimitReached, "you already have a booking on this day")
		}

		// 7: weekly cap of two active bookings (Monday-Sunday week).
		var inWeek int64
		if err := lockForUpdate(tx).Model(&models.Booking{}).
			Where("student_id = ? AND date BETWEEN ? AND ? AND status IN ?",
				studentID, weekStart, weekEnd, models.ActiveBookingStatuses).
			Count(&inWeek).Error; err != nil {
			return fmt.Errorf("failed to check weekly limit: %w", err)
		}
		if inWeek >= 2 {
			return reject(KindWeeklyLimitReached, "you can book at most 2 rooms per week")
		}

		// 8: no overlapping active booking on the same room and date.
		var roomClash int64
		if err := lockForUpdate(tx).Model(&models.Booking{}).
			Where("room_id = ? AND date = ? AND status IN ? AND start_time < ? AND end_time > ?",
				room.ID, in.Date, models.ActiveBookingStatuses, in.EndTime, in.StartTime).
			Count(&roomClash).Error; err != nil {
			return fmt.Errorf("failed to check room conflict: %w", err)
		}
		if roomClash > 0 {
			return reject(KindRoomConflict, "this room is already booked for the selected time")
		}

		// 9: no overlapping booking by the same student in any room. Check 6
		// already implies this; it stays so the invariant survives a relaxed
		// daily limit.
		var selfClash int64
		if err := lockForUpdate(tx).Model(&models.Booking{}).
			Where("student_id = ? AND date = ? AND status IN ? AND start_time < ? AND end_time > ?",
				studentID, in.Date, models.ActiveBookingStatuses, in.EndTime, in.StartTime).
			Count(&selfClash).Error; err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}
		if selfClash > 0 {
			return reject(KindSelfOverlap, "you already have a booking overlapping this time")
		}

		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Room").First(&booking, booking.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return &booking, nil
}

// Cancel transitions a booking to cancelled. Only the owner or an admin may
// cancel, and only from a non-terminal state; cancelling twice is a Conflict.
func (s *BookingService) Cancel(user *models.User, bookingID uint, now time.Time) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "booking not found")
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		if booking.StudentID != user.ID && user.Role != models.RoleAdmin {
			return reject(KindForbidden, "not authorized to cancel this booking")
		}
		// The effective status counts: a booking whose time has passed is
		// completed even before the sweep persists it.
		if booking.IsTerminal() || booking.EffectiveStatus(now) == models.BookingCompleted {
			return reject(KindConflict, "booking is already %s", booking.EffectiveStatus(now))
		}

		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":       models.BookingCancelled,
			"cancelled_at": now,
		}).Error
	})
}

// ListForStudent returns the student's bookings, newest date first, with the
// displayed status derived from now rather than persisted.
func (s *BookingService) ListForStudent(studentID uint, now time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.Preload("Room").
		Where("student_id = ?", studentID).
		Order("date DESC, start_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	for i := range bookings {
		bookings[i].Status = bookings[i].EffectiveStatus(now)
	}
	return bookings, nil
}

// ListAll is the admin listing. It first persists the passive completion of
// expired bookings so the stored status matches what every view derives.
func (s *BookingService) ListAll(now time.Time) ([]models.Booking, error) {
	if err := s.CompleteExpired(now); err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := s.DB.Preload("Student").Preload("Room").
		Order("date DESC, start_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CompleteExpired batch-transitions active bookings whose end lies strictly
// in the past to completed.
func (s *BookingService) CompleteExpired(now time.Time) error {
	today := now.Format(dateLayout)
	clock := now.Format(timeLayout)
	err := s.DB.Model(&models.Booking{}).
		Where("status IN ? AND (date < ? OR (date = ? AND end_time < ?))",
			models.ActiveBookingStatuses, today, today, clock).
		Update("status", models.BookingCompleted).Error
	if err != nil {
		return fmt.Errorf("failed to complete expired bookings: %w", err)
	}
	return nil
}

// TakenSlots groups the active bookings of a date by room, each room's
// intervals ordered by start time. Display-only: Create re-validates.
func (s *BookingService) TakenSlots(date string) (map[uint][]TimeRange, error) {
	if _, err := parseDate(date); err != nil {
		return nil, reject(KindInvalidInput, "%v", err)
	}
	var bookings []models.Booking
	if err := s.DB.
		Where("date = ? AND status IN ?", date, models.ActiveBookingStatuses).
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load taken slots: %w", err)
	}

	taken := make(map[uint][]TimeRange)
	for _, b := range bookings {
		taken[b.RoomID] = append(taken[b.RoomID], TimeRange{Start: b.StartTime, End: b.EndTime})
	}
	for _, ranges := range taken {
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	}
	return taken, nil
}
