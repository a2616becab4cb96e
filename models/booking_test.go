package models

import (
	"testing"
	"time"
)

func TestBookingEffectiveStatus(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		booking Booking
		want    string
	}{
		{"past date", Booking{Date: "2026-02-20", EndTime: "11:00", Status: BookingConfirmed}, BookingCompleted},
		{"ended today", Booking{Date: "2026-03-01", EndTime: "09:30", Status: BookingConfirmed}, BookingCompleted},
		{"in progress", Booking{Date: "2026-03-01", StartTime: "09:00", EndTime: "11:00", Status: BookingConfirmed}, BookingConfirmed},
		{"upcoming", Booking{Date: "2026-03-02", EndTime: "11:00", Status: BookingConfirmed}, BookingConfirmed},
		{"cancelled stays cancelled", Booking{Date: "2026-02-20", EndTime: "11:00", Status: BookingCancelled}, BookingCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.booking.EffectiveStatus(now); got != tc.want {
				t.Errorf("EffectiveStatus = %s, want %s", got, tc.want)
			}
		})
	}
}
