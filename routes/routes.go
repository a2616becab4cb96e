package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-backend/controllers"
	"library-backend/middleware"
	"library-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires all controllers onto the gin engine.
func SetupRouter(
	db *gorm.DB,
	authC *controllers.AuthController,
	bookingC *controllers.BookingController,
	meetingC *controllers.MeetingController,
	roomC *controllers.RoomController,
	settingsC *controllers.SettingsController,
	userC *controllers.UserController,
	chatC *controllers.ChatController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protect := middleware.Protect(db)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authC.Register)
			auth.POST("/login", authC.Login)
			auth.GET("/me", protect, authC.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomC.GetRooms)
			rooms.GET("/all", protect, adminOnly, roomC.GetAllRooms)
			rooms.POST("", protect, adminOnly, roomC.CreateRoom)
			rooms.PUT("/:id", protect, adminOnly, roomC.UpdateRoom)
			rooms.PATCH("/:id", protect, adminOnly, roomC.UpdateRoom)
			rooms.DELETE("/:id", protect, adminOnly, roomC.DeleteRoom)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", settingsC.GetSettings)
			settings.GET("/full", protect, adminOnly, settingsC.GetFullSettings)
			settings.PUT("", protect, adminOnly, settingsC.UpdateSettings)
		}

		users := api.Group("/users")
		{
			// /librarians must precede /:id so it doesn't match as an id.
			users.GET("/librarians", userC.GetLibrarians)
			users.GET("", protect, adminOnly, userC.GetUsers)
			users.GET("/:id", protect, adminOnly, userC.GetUser)
			users.PUT("/working-hours", protect, staffOnly, userC.UpdateWorkingHours)
			users.PUT("/availability", protect, staffOnly, userC.UpdateAvailability)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/slots", bookingC.TakenSlots)
			bookings.GET("/my", protect, bookingC.MyBookings)
			bookings.GET("", protect, adminOnly, bookingC.GetBookings)
			bookings.POST("", protect, bookingC.CreateBooking)
			bookings.DELETE("/:id", protect, bookingC.CancelBooking)
		}

		meetings := api.Group("/meetings")
		{
			meetings.GET("/slots", meetingC.TakenSlots)
			meetings.GET("/my", protect, meetingC.MyMeetings)
			meetings.GET("", protect, staffOnly, meetingC.GetMeetings)
			meetings.POST("", protect, meetingC.CreateMeeting)
			meetings.PUT("/:id", protect, staffOnly, meetingC.ReviewMeeting)
			meetings.DELETE("/:id", protect, meetingC.CancelMeeting)
		}

		chat := api.Group("/chat")
		{
			chat.GET("/status", protect, chatC.GetStatus)
			chat.POST("/request", protect, chatC.RequestChat)
			chat.PUT("/availability", protect, chatC.UpdateChatAvailability)
			chat.PUT("/:id/join", protect, chatC.JoinChat)
			chat.POST("/:id/messages", protect, chatC.PostMessage)
			chat.GET("/:id/messages", protect, chatC.GetMessages)
			chat.POST("/:id/end", protect, chatC.EndChat)
		}
	}

	return r
}
