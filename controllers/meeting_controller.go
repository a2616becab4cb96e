package controllers

import (
	"net/http"
	"strconv"
	"time"

	"library-backend/middleware"
	"library-backend/services"

	"github.com/gin-gonic/gin"
)

type MeetingController struct {
	Meetings *services.MeetingService
}

func NewMeetingController(svc *services.MeetingService) *MeetingController {
	return &MeetingController{Meetings: svc}
}

type createMeetingPayload struct {
	LibrarianID   uint   `json:"librarianId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
	Topic         string `json:"topic" binding:"required"`
	Notes         string `json:"notes"`
}

type reviewMeetingPayload struct {
	Decision string `json:"decision" binding:"required"` // approved | rejected
	Note     string `json:"note"`
}

// CreateMeeting handles POST /api/meetings (students).
func (mc *MeetingController) CreateMeeting(c *gin.Context) {
	var payload createMeetingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	meeting, err := mc.Meetings.Create(user.ID, services.CreateMeetingInput{
		LibrarianID:   payload.LibrarianID,
		Date:          payload.Date,
		PreferredTime: payload.PreferredTime,
		Topic:         payload.Topic,
		Notes:         payload.Notes,
	}, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// MyMeetings handles GET /api/meetings/my.
func (mc *MeetingController) MyMeetings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	meetings, err := mc.Meetings.ListForStudent(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

// GetMeetings handles GET /api/meetings: admins see all, librarians only
// their assigned meetings.
func (mc *MeetingController) GetMeetings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	meetings, err := mc.Meetings.ListForStaff(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

// ReviewMeeting handles PUT /api/meetings/:id (staff approve/reject).
func (mc *MeetingController) ReviewMeeting(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload reviewMeetingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	meeting, err := mc.Meetings.Review(user, id, payload.Decision, payload.Note, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// CancelMeeting handles DELETE /api/meetings/:id.
func (mc *MeetingController) CancelMeeting(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := mc.Meetings.Cancel(user, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting cancelled"})
}

// TakenSlots handles GET /api/meetings/slots?librarianId=&date=, used by the
// student scheduling page. Public: no auth required.
func (mc *MeetingController) TakenSlots(c *gin.Context) {
	librarianID, err := strconv.ParseUint(c.Query("librarianId"), 10, 64)
	date := c.Query("date")
	if err != nil || librarianID == 0 || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "librarianId and date are required"})
		return
	}
	slots, err := mc.Meetings.TakenSlots(uint(librarianID), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
