package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"library-backend/config"
	"library-backend/controllers"
	"library-backend/routes"
	"library-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	// Required token secret (fatal if missing)
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("ERROR: JWT_SECRET environment variable is not set. Cannot issue auth tokens.")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established, migrations applied")

	// Initialize services
	settingsService := services.NewSettingsService(db)
	bookingService := services.NewBookingService(db, settingsService)
	meetingService := services.NewMeetingService(db, settingsService)
	roomService := services.NewRoomService(db)
	userService := services.NewUserService(db)
	chatService := services.NewChatService(db)

	// Initialize controllers
	authController := controllers.NewAuthController(db, settingsService)
	bookingController := controllers.NewBookingController(bookingService)
	meetingController := controllers.NewMeetingController(meetingService)
	roomController := controllers.NewRoomController(roomService)
	settingsController := controllers.NewSettingsController(settingsService)
	userController := controllers.NewUserController(userService)
	chatController := controllers.NewChatController(db, chatService)

	router := routes.SetupRouter(
		db,
		authController,
		bookingController,
		meetingController,
		roomController,
		settingsController,
		userController,
		chatController,
	)

	// Background sweep: force-close chat sessions past the 30-minute cap or
	// idle for 5 minutes. Stops on shutdown.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	chatService.StartSweeper(sweepCtx, time.Minute)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
