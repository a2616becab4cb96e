package controllers

import (
	"net/http"
	"time"

	"library-backend/middleware"
	"library-backend/services"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

type createBookingPayload struct {
	RoomID    uint   `json:"roomId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Purpose   string `json:"purpose"`
}

// CreateBooking handles POST /api/bookings (students).
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	booking, err := bc.Bookings.Create(user.ID, services.CreateBookingInput{
		RoomID:    payload.RoomID,
		Date:      payload.Date,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Purpose:   payload.Purpose,
	}, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings/my.
func (bc *BookingController) MyBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	bookings, err := bc.Bookings.ListForStudent(user.ID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookings handles GET /api/bookings (admin). Listing persists the
// passive completion of expired bookings first.
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.Bookings.ListAll(time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := bc.Bookings.Cancel(user, id, time.Now()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// TakenSlots handles GET /api/bookings/slots?date=YYYY-MM-DD, the student
// availability view.
func (bc *BookingController) TakenSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date is required"})
		return
	}
	taken, err := bc.Bookings.TakenSlots(date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, taken)
}
