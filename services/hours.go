package services

import (
	"fmt"
	"time"

	"library-backend/models"
)

// Shared date/time primitives for both constraint engines. Dates are
// "YYYY-MM-DD" and times are zero-padded "HH:MM", which makes lexicographic
// comparison equivalent to chronological comparison; the parse helpers below
// enforce that invariant at the boundary.

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// libraryHours is the global per-weekday table bounding all room bookings,
// independent of any specific room. Librarian meetings are bounded by each
// librarian's own working hours instead.
var libraryHours = map[string]models.DayHours{
	"mon": {Enabled: true, Open: "08:00", Close: "22:00"},
	"tue": {Enabled: true, Open: "08:00", Close: "22:00"},
	"wed": {Enabled: true, Open: "08:00", Close: "22:00"},
	"thu": {Enabled: true, Open: "08:00", Close: "22:00"},
	"fri": {Enabled: true, Open: "08:00", Close: "22:00"},
	"sat": {Enabled: true, Open: "09:00", Close: "18:00"},
	"sun": {Enabled: true, Open: "12:00", Close: "18:00"},
}

// parseDate validates a "YYYY-MM-DD" string and returns its calendar day.
func parseDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// parseTimeOfDay validates a zero-padded 24h "HH:MM" string.
func parseTimeOfDay(s string) error {
	if len(s) != len(timeLayout) {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return nil
}

// dayKey returns the weekday key ("sun".."sat") of a valid date string.
func dayKey(date string) (string, error) {
	t, err := parseDate(date)
	if err != nil {
		return "", err
	}
	return models.WeekDayKeys[int(t.Weekday())], nil
}

// overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Adjacent intervals do not. The collision queries
// express the same predicate in SQL (start_time < ? AND end_time > ?).
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// minutesOf converts a validated "HH:MM" string to minutes since midnight.
func minutesOf(hhmm string) int {
	return int(hhmm[0]-'0')*600 + int(hhmm[1]-'0')*60 + int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
}

// durationMinutes returns end-start for a chronological pair.
func durationMinutes(start, end string) int {
	return minutesOf(end) - minutesOf(start)
}

// weekBounds returns the Monday and Sunday of the calendar week containing
// date. Sunday belongs to the week that started six days earlier.
func weekBounds(date string) (string, string, error) {
	t, err := parseDate(date)
	if err != nil {
		return "", "", err
	}
	dow := int(t.Weekday())
	var start time.Time
	if dow == 0 {
		start = t.AddDate(0, 0, -6)
	} else {
		start = t.AddDate(0, 0, -(dow - 1))
	}
	return start.Format(dateLayout), start.AddDate(0, 0, 6).Format(dateLayout), nil
}
