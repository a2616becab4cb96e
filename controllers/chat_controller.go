package controllers

import (
	"net/http"

	"library-backend/middleware"
	"library-backend/models"
	"library-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChatController struct {
	DB   *gorm.DB
	Chat *services.ChatService
}

func NewChatController(db *gorm.DB, svc *services.ChatService) *ChatController {
	return &ChatController{DB: db, Chat: svc}
}

// GetStatus handles GET /api/chat/status: the student's active session, or a
// staff member's assigned sessions plus the unassigned queue.
func (cc *ChatController) GetStatus(c *gin.Context) {
	status, err := cc.Chat.Status(middleware.CurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RequestChat handles POST /api/chat/request (students only).
func (cc *ChatController) RequestChat(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Role != models.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"message": "only students can request a chat"})
		return
	}
	session, err := cc.Chat.Request(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type chatAvailabilityPayload struct {
	ChatAvailable *bool `json:"chatAvailable" binding:"required"`
}

// UpdateChatAvailability handles PUT /api/chat/availability (librarians).
func (cc *ChatController) UpdateChatAvailability(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Role != models.RoleLibrarian {
		c.JSON(http.StatusForbidden, gin.H{"message": "only librarians can toggle chat availability"})
		return
	}
	var payload chatAvailabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := cc.DB.Model(user).Update("chat_available", *payload.ChatAvailable).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chatAvailable": *payload.ChatAvailable})
}

// JoinChat handles PUT /api/chat/:id/join: a staff member claims a queued
// session.
func (cc *ChatController) JoinChat(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	session, err := cc.Chat.Join(middleware.CurrentUser(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type postMessagePayload struct {
	Body string `json:"body" binding:"required"`
}

// PostMessage handles POST /api/chat/:id/messages.
func (cc *ChatController) PostMessage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload postMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	message, err := cc.Chat.PostMessage(middleware.CurrentUser(c), id, payload.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetMessages handles GET /api/chat/:id/messages.
func (cc *ChatController) GetMessages(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	messages, err := cc.Chat.Messages(middleware.CurrentUser(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// EndChat handles POST /api/chat/:id/end.
func (cc *ChatController) EndChat(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := cc.Chat.End(middleware.CurrentUser(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chat session ended"})
}
