package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleStudent   = "student"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// DayHours is one weekday entry of a librarian's schedule. Open and Close are
// zero-padded "HH:MM" strings.
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

// WeekDayKeys are the schedule keys indexed by time.Weekday.
var WeekDayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string  `gorm:"size:128" json:"name"`
	Email     string  `gorm:"size:191;uniqueIndex" json:"email"`
	Password  string  `gorm:"size:191" json:"-"`
	Role      string  `gorm:"size:16;default:student;index" json:"role"`
	StudentID *string `gorm:"size:16;uniqueIndex" json:"studentId,omitempty"`

	// Librarian-only fields.
	IsAvailable   bool           `gorm:"default:false" json:"isAvailable"`
	ChatAvailable bool           `gorm:"default:false" json:"chatAvailable"`
	Specialty     string         `gorm:"size:128" json:"specialty,omitempty"`
	WorkingHours  datatypes.JSON `json:"workingHours,omitempty"`
}

// WorkingHoursTable decodes the stored schedule. Days the stored JSON omits
// come back disabled so a partial update can never open unintended hours.
func (u *User) WorkingHoursTable() (map[string]DayHours, error) {
	table := make(map[string]DayHours, len(WeekDayKeys))
	if len(u.WorkingHours) > 0 {
		if err := json.Unmarshal(u.WorkingHours, &table); err != nil {
			return nil, err
		}
	}
	for _, key := range WeekDayKeys {
		if _, ok := table[key]; !ok {
			table[key] = DayHours{Enabled: false, Open: "09:00", Close: "13:00"}
		}
	}
	return table, nil
}

// DefaultWorkingHours is the schedule new librarians start with: weekdays
// 09:00-17:00, weekend off.
func DefaultWorkingHours() datatypes.JSON {
	table := map[string]DayHours{
		"mon": {Enabled: true, Open: "09:00", Close: "17:00"},
		"tue": {Enabled: true, Open: "09:00", Close: "17:00"},
		"wed": {Enabled: true, Open: "09:00", Close: "17:00"},
		"thu": {Enabled: true, Open: "09:00", Close: "17:00"},
		"fri": {Enabled: true, Open: "09:00", Close: "17:00"},
		"sat": {Enabled: false, Open: "09:00", Close: "13:00"},
		"sun": {Enabled: false, Open: "09:00", Close: "13:00"},
	}
	raw, _ := json.Marshal(table)
	return datatypes.JSON(raw)
}
