package controllers

import (
	"errors"
	"net/http"
	"time"

	"lagoon-hotel-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondServiceError maps the business error taxonomy onto HTTP. Anything
// outside the taxonomy is a persistence/infrastructure failure and becomes a
// 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidDateRange", "message": err.Error()}})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": err.Error()}})
	case errors.Is(err, services.ErrRoomTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "error.roomTypeNotFound", "message": "room type not found"}})
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "error.bookingNotFound", "message": "booking not found"}})
	case errors.Is(err, services.ErrRoomTypeInactive):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": "error.roomTypeInactive", "message": "room type is not open for booking"}})
	case errors.Is(err, services.ErrAllocationConflict):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": "error.allocationConflict", "message": "availability changed, please re-check and try again"}})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": "error.invalidTransition", "message": err.Error()}})
	case errors.Is(err, services.ErrNotPermittedForRole):
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"code": "error.notPermitted", "message": "operation not permitted for this role"}})
	default:
		logrus.WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "error.internal", "message": "internal server error"}})
	}
}

// parseDate accepts the date-only wire format used by the booking API.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
