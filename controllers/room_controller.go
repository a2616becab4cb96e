package controllers

import (
	"net/http"
	"strings"

	"library-backend/models"
	"library-backend/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

// GetRooms handles GET /api/rooms. Public: students see active rooms only.
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetAllRooms handles GET /api/rooms/all (admin): includes deactivated rooms.
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom handles POST /api/rooms (admin).
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	if err := rc.Rooms.Create(&room); err != nil {
		// Duplicate room name surfaces as a driver error, not a rejection.
		if strings.Contains(err.Error(), "Duplicate entry") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"message": "room already exists"})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT/PATCH /api/rooms/:id (admin).
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	room, err := rc.Rooms.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id (admin): a soft deactivation, not
// a hard delete, so historical bookings survive.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := rc.Rooms.Deactivate(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deactivated"})
}
