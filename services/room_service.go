package services

import (
	"errors"
	"fmt"
	"strings"

	"library-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// ListActive returns the rooms visible to students.
func (s *RoomService) ListActive() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Where("is_active = ?", true).Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListAll includes deactivated rooms, for the admin room manager.
func (s *RoomService) ListAll() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Create(room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return reject(KindInvalidInput, "room name is required")
	}
	if room.Capacity <= 0 {
		return reject(KindInvalidInput, "capacity must be a positive integer")
	}
	if err := s.DB.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// Update applies a partial update from the admin room form.
func (s *RoomService) Update(id uint, updates map[string]interface{}) (*models.Room, error) {
	delete(updates, "id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")

	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "room not found")
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return &room, nil
}

// Deactivate soft-deletes a room: it disappears from the booking page but
// keeps its booking history.
func (s *RoomService) Deactivate(id uint) error {
	result := s.DB.Model(&models.Room{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return reject(KindNotFound, "room not found")
	}
	return nil
}
