package controllers

import (
	"errors"
	"net/http"
	"strings"

	"library-backend/middleware"
	"library-backend/models"
	"library-backend/services"
	"library-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB       *gorm.DB
	Settings *services.SettingsService
}

func NewAuthController(db *gorm.DB, settings *services.SettingsService) *AuthController {
	return &AuthController{DB: db, Settings: settings}
}

type registerPayload struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role"`
	AccessCode string `json:"accessCode"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	StudentID *string `json:"studentId,omitempty"`
	Token     string  `json:"token"`
}

// Register creates a user. Staff and student signups are each gated by an
// access code stored in settings.
func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleLibrarian && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
		return
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	settings, err := ac.Settings.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	switch role {
	case models.RoleAdmin, models.RoleLibrarian:
		if payload.AccessCode != settings.LibrarianCode {
			c.JSON(http.StatusForbidden, gin.H{"message": "invalid librarian access code"})
			return
		}
	case models.RoleStudent:
		if payload.AccessCode != settings.StudentCode {
			c.JSON(http.StatusForbidden, gin.H{"message": "invalid student access code"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(payload.Name),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if role == models.RoleStudent {
		studentID, err := ac.uniqueStudentID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate student id"})
			return
		}
		user.StudentID = &studentID
	}
	if role == models.RoleLibrarian {
		user.IsAvailable = true
		user.WorkingHours = models.DefaultWorkingHours()
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	token, err := middleware.SignToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign token"})
		return
	}
	c.JSON(http.StatusCreated, authResponse{
		ID: user.ID, Name: user.Name, Email: user.Email,
		Role: user.Role, StudentID: user.StudentID, Token: token,
	})
}

// uniqueStudentID retries generation until the id is unused.
func (ac *AuthController) uniqueStudentID() (string, error) {
	for {
		id, err := utils.GenerateStudentID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := ac.DB.Model(&models.User{}).Where("student_id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	var user models.User
	err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(payload.Email))).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	token, err := middleware.SignToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, authResponse{
		ID: user.ID, Name: user.Name, Email: user.Email,
		Role: user.Role, StudentID: user.StudentID, Token: token,
	})
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
