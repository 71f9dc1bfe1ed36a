package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lagoon-hotel-backend/config"
	"lagoon-hotel-backend/controllers"
	"lagoon-hotel-backend/routes"
	"lagoon-hotel-backend/services"
	"lagoon-hotel-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		logrus.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		logrus.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logrus.Info("database connection established and migrations applied")

	availabilityService := services.NewAvailabilityService(db)
	bookingService := services.NewBookingService(db)
	lifecycleService := services.NewLifecycleService(db)
	roomTypeService := services.NewRoomTypeService(db)
	roomService := services.NewRoomService(db)
	clientService := services.NewClientService(db)
	notifier := utils.NewNotifier()

	availabilityController := controllers.NewAvailabilityController(availabilityService)
	bookingController := controllers.NewBookingController(bookingService, lifecycleService, notifier)
	roomTypeController := controllers.NewRoomTypeController(roomTypeService)
	roomController := controllers.NewRoomController(roomService)
	clientController := controllers.NewClientController(clientService)
	authController := controllers.NewAuthController(db)
	settingsController := controllers.NewSettingsController(db)

	router := routes.SetupRouter(
		availabilityController,
		bookingController,
		roomTypeController,
		roomController,
		clientController,
		authController,
		settingsController,
	)

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
		logrus.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	logrus.Info("server stopped gracefully")
}
