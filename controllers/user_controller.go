package controllers

import (
	"net/http"

	"library-backend/middleware"
	"library-backend/models"
	"library-backend/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Users: svc}
}

// GetLibrarians handles GET /api/users/librarians. Public: the student
// scheduling page lists available librarians and their working hours.
func (uc *UserController) GetLibrarians(c *gin.Context) {
	librarians, err := uc.Users.ListLibrarians()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, librarians)
}

// GetUsers handles GET /api/users (admin).
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.Users.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id (admin).
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := uc.Users.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type workingHoursPayload struct {
	LibrarianID  uint                       `json:"librarianId"`
	WorkingHours map[string]models.DayHours `json:"workingHours" binding:"required"`
}

// UpdateWorkingHours handles PUT /api/users/working-hours. Librarians edit
// their own schedule; admins may pass librarianId to edit anyone's.
func (uc *UserController) UpdateWorkingHours(c *gin.Context) {
	var payload workingHoursPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	actor := middleware.CurrentUser(c)
	target := payload.LibrarianID
	if target == 0 {
		target = actor.ID
	}

	librarian, err := uc.Users.UpdateWorkingHours(actor, target, payload.WorkingHours)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, librarian)
}

type availabilityPayload struct {
	LibrarianID uint  `json:"librarianId"`
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// UpdateAvailability handles PUT /api/users/availability.
func (uc *UserController) UpdateAvailability(c *gin.Context) {
	var payload availabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	actor := middleware.CurrentUser(c)
	target := payload.LibrarianID
	if target == 0 {
		target = actor.ID
	}

	if err := uc.Users.SetAvailability(actor, target, *payload.IsAvailable); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "availability updated"})
}
