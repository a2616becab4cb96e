package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"library-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow anchors every engine test on Sunday 2026-03-01 at 10:00, so
// 2026-03-02 is the Monday of the following week.
var testNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

// fixedPolicy pins the booking policy without touching the settings table.
type fixedPolicy struct {
	maxDuration int
	maxAdvance  int
}

func (p fixedPolicy) Policy() (int, int, error) { return p.maxDuration, p.maxAdvance, nil }

var defaultPolicy = fixedPolicy{maxDuration: 4, maxAdvance: 7}

// openTestDB gives each test its own SQLite database file. SQLite serializes
// writers on a database-level lock, so the SELECT ... FOR UPDATE re-checks
// inside the insert transactions degrade to plain reads here (lockForUpdate
// only adds the locking clause on MySQL); these tests cover the check logic
// sequentially, and the race-closing behavior of the row locks is exercised
// only against MySQL.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.SystemSetting{},
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.Meeting{},
		&models.ChatSession{},
		&models.Message{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@test.edu", name),
		Role:  models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed student %s: %v", name, err)
	}
	return &user
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{Name: "admin", Email: "admin@test.edu", Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return &user
}

// seedLibrarian creates an available librarian with the default weekday
// schedule (Mon-Fri 09:00-17:00).
func seedLibrarian(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@test.edu", name),
		Role:         models.RoleLibrarian,
		IsAvailable:  true,
		WorkingHours: models.DefaultWorkingHours(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed librarian %s: %v", name, err)
	}
	return &user
}

func seedRoom(t *testing.T, db *gorm.DB, name string) *models.Room {
	t.Helper()
	room := models.Room{Name: name, Capacity: 6, IsActive: true}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to seed room %s: %v", name, err)
	}
	return &room
}

// wantRejection asserts err is a Rejection of the given kind.
func wantRejection(t *testing.T, err error, kind string) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s rejection, got nil error", kind)
	}
	r, ok := AsRejection(err)
	if !ok {
		t.Fatalf("want %s rejection, got %T: %v", kind, err, err)
	}
	if r.Kind != kind {
		t.Fatalf("want rejection kind %s, got %s (%s)", kind, r.Kind, r.Message)
	}
}
