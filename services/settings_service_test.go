package services

import "testing"

func TestSettingsCreatedOnFirstRead(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	setting, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if setting.MaxBookingDuration != 4 || setting.MaxAdvanceDays != 7 {
		t.Errorf("defaults = (%d, %d), want (4, 7)",
			setting.MaxBookingDuration, setting.MaxAdvanceDays)
	}

	// Second read returns the same singleton, not a new row.
	again, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.ID != setting.ID {
		t.Errorf("singleton id changed: %d then %d", setting.ID, again.ID)
	}
}

func TestSettingsPartialUpdate(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	hours := 6
	updated, err := svc.Update(UpdateSettingsInput{MaxBookingDuration: &hours})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.MaxBookingDuration != 6 {
		t.Errorf("MaxBookingDuration = %d, want 6", updated.MaxBookingDuration)
	}
	if updated.MaxAdvanceDays != 7 {
		t.Errorf("MaxAdvanceDays = %d, want untouched 7", updated.MaxAdvanceDays)
	}

	maxDuration, maxAdvance, err := svc.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if maxDuration != 6 || maxAdvance != 7 {
		t.Errorf("Policy() = (%d, %d), want (6, 7)", maxDuration, maxAdvance)
	}
}

func TestSettingsUpdateValidatesRanges(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	for _, hours := range []int{0, 13} {
		h := hours
		_, err := svc.Update(UpdateSettingsInput{MaxBookingDuration: &h})
		wantRejection(t, err, KindInvalidInput)
	}
	for _, days := range []int{0, 61} {
		d := days
		_, err := svc.Update(UpdateSettingsInput{MaxAdvanceDays: &d})
		wantRejection(t, err, KindInvalidInput)
	}
}
