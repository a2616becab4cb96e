package services

import (
	"testing"

	"library-backend/models"
)

func TestListLibrariansFiltersUnavailable(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)
	seedStudent(t, db, "alex")
	visible := seedLibrarian(t, db, "sarah")
	hidden := seedLibrarian(t, db, "tom")
	if err := db.Model(hidden).Update("is_available", false).Error; err != nil {
		t.Fatalf("update librarian: %v", err)
	}

	librarians, err := svc.ListLibrarians()
	if err != nil {
		t.Fatalf("ListLibrarians: %v", err)
	}
	if len(librarians) != 1 || librarians[0].ID != visible.ID {
		t.Fatalf("librarians = %+v, want only %d", librarians, visible.ID)
	}
}

func TestUpdateWorkingHours(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)
	sarah := seedLibrarian(t, db, "sarah")
	tom := seedLibrarian(t, db, "tom")
	admin := seedAdmin(t, db)
	student := seedStudent(t, db, "alex")

	table := map[string]models.DayHours{
		"mon": {Enabled: true, Open: "10:00", Close: "16:00"},
		"sat": {Enabled: false, Open: "09:00", Close: "13:00"},
	}

	// Librarians edit their own schedule only; admins may edit anyone's.
	_, err := svc.UpdateWorkingHours(sarah, tom.ID, table)
	wantRejection(t, err, KindForbidden)

	if _, err := svc.UpdateWorkingHours(admin, tom.ID, table); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if _, err := svc.UpdateWorkingHours(sarah, sarah.ID, table); err != nil {
		t.Fatalf("self update: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, sarah.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	decoded, err := reloaded.WorkingHoursTable()
	if err != nil {
		t.Fatalf("decode hours: %v", err)
	}
	if got := decoded["mon"]; !got.Enabled || got.Open != "10:00" || got.Close != "16:00" {
		t.Errorf("mon = %+v, want enabled 10:00-16:00", got)
	}
	// Omitted days decode as disabled.
	if decoded["tue"].Enabled {
		t.Error("tue should decode as disabled when omitted")
	}

	// Targets must be librarians.
	_, err = svc.UpdateWorkingHours(admin, student.ID, table)
	wantRejection(t, err, KindInvalidInput)
}

func TestUpdateWorkingHoursValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)
	sarah := seedLibrarian(t, db, "sarah")

	_, err := svc.UpdateWorkingHours(sarah, sarah.ID, map[string]models.DayHours{
		"monday": {Enabled: true, Open: "09:00", Close: "17:00"},
	})
	wantRejection(t, err, KindInvalidInput)

	_, err = svc.UpdateWorkingHours(sarah, sarah.ID, map[string]models.DayHours{
		"mon": {Enabled: true, Open: "9:00", Close: "17:00"},
	})
	wantRejection(t, err, KindInvalidInput)

	_, err = svc.UpdateWorkingHours(sarah, sarah.ID, map[string]models.DayHours{
		"mon": {Enabled: true, Open: "17:00", Close: "09:00"},
	})
	wantRejection(t, err, KindInvalidInput)
}

func TestSetAvailability(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)
	sarah := seedLibrarian(t, db, "sarah")
	tom := seedLibrarian(t, db, "tom")
	admin := seedAdmin(t, db)

	wantRejection(t, svc.SetAvailability(sarah, tom.ID, false), KindForbidden)

	if err := svc.SetAvailability(admin, sarah.ID, false); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	var reloaded models.User
	if err := db.First(&reloaded, sarah.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IsAvailable {
		t.Error("librarian still available after update")
	}

	wantRejection(t, svc.SetAvailability(admin, 999, true), KindNotFound)
}
