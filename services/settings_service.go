package services

import (
	"errors"
	"fmt"

	"library-backend/models"

	"gorm.io/gorm"
)

// PolicyReader is the read-only view of the settings singleton the constraint
// engines depend on. Tests substitute a fixed implementation; production uses
// SettingsService so policy changes take effect on the next request.
type PolicyReader interface {
	Policy() (maxBookingDurationHours, maxAdvanceDays int, err error)
}

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the singleton settings row, creating it with defaults when the
// table is empty.
func (s *SettingsService) Get() (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := s.DB.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.SystemSetting{
			MaxBookingDuration: 4,
			MaxAdvanceDays:     7,
			LibraryName:        "University Central Library",
			SupportEmail:       "library@university.edu",
			LibrarianCode:      "ADMIN2026",
			StudentCode:        "STUDENT2026",
		}
		if err := s.DB.Create(&setting).Error; err != nil {
			return nil, fmt.Errorf("failed to create default settings: %w", err)
		}
		return &setting, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &setting, nil
}

// Policy implements PolicyReader.
func (s *SettingsService) Policy() (int, int, error) {
	setting, err := s.Get()
	if err != nil {
		return 0, 0, err
	}
	return setting.MaxBookingDuration, setting.MaxAdvanceDays, nil
}

// UpdateSettingsInput carries the admin-editable fields; nil means unchanged.
type UpdateSettingsInput struct {
	MaxBookingDuration *int    `json:"maxBookingDuration"`
	MaxAdvanceDays     *int    `json:"maxAdvanceDays"`
	LibraryName        *string `json:"libraryName"`
	SupportEmail       *string `json:"supportEmail"`
	LibrarianCode      *string `json:"librarianCode"`
	StudentCode        *string `json:"studentCode"`
}

// Update applies a partial update to the singleton.
func (s *SettingsService) Update(in UpdateSettingsInput) (*models.SystemSetting, error) {
	setting, err := s.Get()
	if err != nil {
		return nil, err
	}

	if in.MaxBookingDuration != nil {
		if *in.MaxBookingDuration < 1 || *in.MaxBookingDuration > 12 {
			return nil, reject(KindInvalidInput, "maxBookingDuration must be between 1 and 12 hours")
		}
		setting.MaxBookingDuration = *in.MaxBookingDuration
	}
	if in.MaxAdvanceDays != nil {
		if *in.MaxAdvanceDays < 1 || *in.MaxAdvanceDays > 60 {
			return nil, reject(KindInvalidInput, "maxAdvanceDays must be between 1 and 60 days")
		}
		setting.MaxAdvanceDays = *in.MaxAdvanceDays
	}
	if in.LibraryName != nil {
		setting.LibraryName = *in.LibraryName
	}
	if in.SupportEmail != nil {
		setting.SupportEmail = *in.SupportEmail
	}
	if in.LibrarianCode != nil {
		setting.LibrarianCode = *in.LibrarianCode
	}
	if in.StudentCode != nil {
		setting.StudentCode = *in.StudentCode
	}

	if err := s.DB.Save(setting).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return setting, nil
}
