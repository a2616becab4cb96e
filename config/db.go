package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"library-backend/models"
	"library-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "library_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, runs migrations and seeds
// initial data. Sets config.DB on success.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.SystemSetting{},
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.Meeting{},
		&models.ChatSession{},
		&models.Message{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase inserts the settings singleton, a default admin, a sample
// librarian and student, and the initial study rooms. Idempotent: each block
// only runs against an empty table.
func SeedDatabase() {
	var settingCount int64
	DB.Model(&models.SystemSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.SystemSetting{
			MaxBookingDuration: 4,
			MaxAdvanceDays:     7,
			LibraryName:        "University Central Library",
			SupportEmail:       "library@university.edu",
			LibrarianCode:      "ADMIN2026",
			StudentCode:        "STUDENT2026",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed settings: %v", err)
		} else {
			log.Println("Settings seeded")
		}
	}

	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		seedUser := func(user models.User, password string) {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("warning: failed to hash password for %s: %v", user.Email, err)
				return
			}
			user.Password = string(hash)
			if err := DB.Create(&user).Error; err != nil {
				log.Printf("warning: failed to seed user %s: %v", user.Email, err)
			}
		}

		seedUser(models.User{
			Name:  "Library Admin",
			Email: "admin@library.edu",
			Role:  models.RoleAdmin,
		}, "admin123")

		librarianHours, _ := json.Marshal(map[string]models.DayHours{
			"mon": {Enabled: true, Open: "09:00", Close: "17:00"},
			"tue": {Enabled: true, Open: "09:00", Close: "17:00"},
			"wed": {Enabled: true, Open: "09:00", Close: "17:00"},
			"thu": {Enabled: true, Open: "09:00", Close: "17:00"},
			"fri": {Enabled: true, Open: "09:00", Close: "17:00"},
			"sat": {Enabled: false, Open: "09:00", Close: "13:00"},
			"sun": {Enabled: false, Open: "09:00", Close: "13:00"},
		})
		seedUser(models.User{
			Name:         "Sarah Jennings",
			Email:        "s.jennings@library.edu",
			Role:         models.RoleLibrarian,
			IsAvailable:  true,
			Specialty:    "Research & Citations",
			WorkingHours: datatypes.JSON(librarianHours),
		}, "librarian123")

		studentID := "100001"
		seedUser(models.User{
			Name:      "Alex Morgan",
			Email:     "alex.morgan@university.edu",
			Role:      models.RoleStudent,
			StudentID: &studentID,
		}, "student123")

		log.Println("Users seeded")
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		amenities := func(items ...string) datatypes.JSON {
			raw, _ := json.Marshal(items)
			return datatypes.JSON(raw)
		}
		rooms := []models.Room{
			{
				Name: "Study Room A", Location: "Floor 2 - East Wing", Capacity: 6,
				Amenities:   amenities("Whiteboard", "Projector", "Power Outlets"),
				Description: "Ideal for group study sessions.", IsActive: true,
			},
			{
				Name: "Quiet Pod 1", Location: "Floor 1 - Silent Zone", Capacity: 2,
				Amenities:   amenities("Power Outlets", "Soundproofed"),
				Description: "Perfect for focused individual work.", IsActive: true,
			},
			{
				Name: "Collaboration Suite", Location: "Floor 3 - North", Capacity: 12,
				Amenities:   amenities("Whiteboard", "Smart TV", "Conference Phone", "Power Outlets"),
				Description: "Large space for team projects.", IsActive: true,
			},
			{
				Name: "Reading Room B", Location: "Floor 1 - West Wing", Capacity: 4,
				Amenities:   amenities("Natural Lighting", "Power Outlets"),
				Description: "Comfortable reading and research space.", IsActive: true,
			},
			{
				Name: "Media Lab", Location: "Floor 2 - North", Capacity: 8,
				Amenities:   amenities("iMacs", "Green Screen", "Audio Booth", "Power Outlets"),
				Description: "For video editing, podcasting and media projects.", IsActive: true,
			},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Printf("Seeded %d rooms", len(rooms))
		}
	}
}
