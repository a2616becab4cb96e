package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"library-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// ListLibrarians returns the librarians visible on the student scheduling
// page: available ones only.
func (s *UserService) ListLibrarians() ([]models.User, error) {
	var librarians []models.User
	if err := s.DB.
		Where("role = ? AND is_available = ?", models.RoleLibrarian, true).
		Order("name").
		Find(&librarians).Error; err != nil {
		return nil, fmt.Errorf("failed to list librarians: %w", err)
	}
	return librarians, nil
}

// ListAll is the admin user listing.
func (s *UserService) ListAll() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateWorkingHours replaces a librarian's weekly schedule. Librarians may
// edit their own; admins anyone's.
func (s *UserService) UpdateWorkingHours(actor *models.User, librarianID uint, table map[string]models.DayHours) (*models.User, error) {
	if actor.Role == models.RoleLibrarian && actor.ID != librarianID {
		return nil, reject(KindForbidden, "you can only edit your own working hours")
	}

	for day, hours := range table {
		valid := false
		for _, key := range models.WeekDayKeys[:] {
			if day == key {
				valid = true
				break
			}
		}
		if !valid {
			return nil, reject(KindInvalidInput, "unknown day key %q", day)
		}
		if err := parseTimeOfDay(hours.Open); err != nil {
			return nil, reject(KindInvalidInput, "%s: %v", day, err)
		}
		if err := parseTimeOfDay(hours.Close); err != nil {
			return nil, reject(KindInvalidInput, "%s: %v", day, err)
		}
		if hours.Enabled && hours.Open >= hours.Close {
			return nil, reject(KindInvalidInput, "%s: close must be after open", day)
		}
	}

	librarian, err := s.Get(librarianID)
	if err != nil {
		return nil, err
	}
	if librarian.Role != models.RoleLibrarian {
		return nil, reject(KindInvalidInput, "user %d is not a librarian", librarianID)
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to encode working hours: %w", err)
	}
	if err := s.DB.Model(librarian).Update("working_hours", datatypes.JSON(raw)).Error; err != nil {
		return nil, fmt.Errorf("failed to save working hours: %w", err)
	}
	return librarian, nil
}

// SetAvailability flips the master visibility toggle of a librarian.
func (s *UserService) SetAvailability(actor *models.User, librarianID uint, available bool) error {
	if actor.Role == models.RoleLibrarian && actor.ID != librarianID {
		return reject(KindForbidden, "you can only change your own availability")
	}
	result := s.DB.Model(&models.User{}).
		Where("id = ? AND role = ?", librarianID, models.RoleLibrarian).
		Update("is_available", available)
	if result.Error != nil {
		return fmt.Errorf("failed to update availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return reject(KindNotFound, "librarian not found")
	}
	return nil
}
