package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lagoon-hotel-backend/controllers"
	"lagoon-hotel-backend/middleware"
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

// SetupRouter wires controller instances onto the route tree.
func SetupRouter(
	avc *controllers.AvailabilityController,
	bc *controllers.BookingController,
	rtc *controllers.RoomTypeController,
	rc *controllers.RoomController,
	cc *controllers.ClientController,
	ac *controllers.AuthController,
	sc *controllers.SettingsController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Client-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.Actor())
	{
		api.GET("/availability", avc.CheckAvailability)

		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		clients := api.Group("/clients")
		{
			clients.POST("", cc.CreateClient)
			clients.GET("", middleware.RequireStaff(), cc.GetClients)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("", middleware.RequireStaff(), bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.PATCH("/:id/status", middleware.RequireStaff(), bc.UpdateStatus)
			bookings.PATCH("/:id/payment-status", middleware.RequireStaff(), bc.UpdatePaymentStatus)
			bookings.POST("/:id/confirm-payment", bc.ConfirmPayment)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.DELETE("/:id", middleware.RequireStaff(), bc.DeleteBooking)
		}

		api.GET("/my-bookings", bc.GetMyBookings)

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", rtc.GetRoomTypes)
			roomTypes.GET("/:id", rtc.GetRoomType)
			roomTypes.POST("", middleware.RequireStaff(), rtc.CreateRoomType)
			roomTypes.PATCH("/:id", middleware.RequireStaff(), rtc.UpdateRoomType)
			roomTypes.POST("/:id/deactivate", middleware.RequireStaff(), rtc.DeactivateRoomType)
			roomTypes.DELETE("/:id", middleware.RequireStaff(), rtc.DeleteRoomType)
		}

		rooms := api.Group("/rooms")
		rooms.Use(middleware.RequireStaff())
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/hotel", sc.GetHotelSettings)
			settings.PUT("/hotel", middleware.RequireStaff(), sc.UpdateHotelSettings)
		}
	}

	return r
}
