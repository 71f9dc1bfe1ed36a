package controllers

import (
	"net/http"
	"strconv"

	"lagoon-hotel-backend/services"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	AvailabilitySvc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{AvailabilitySvc: svc}
}

// CheckAvailability (GET /api/availability)
// Query: roomTypeId, checkIn, checkOut (YYYY-MM-DD), rooms (default 1).
func (ctrl *AvailabilityController) CheckAvailability(c *gin.Context) {
	roomTypeID, err := strconv.ParseUint(c.Query("roomTypeId"), 10, 64)
	if err != nil || roomTypeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "roomTypeId is required"}})
		return
	}

	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "checkIn must be YYYY-MM-DD"}})
		return
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "checkOut must be YYYY-MM-DD"}})
		return
	}

	rooms := 1
	if raw := c.Query("rooms"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			rooms = n
		}
	}

	result, err := ctrl.AvailabilitySvc.CheckAvailability(uint(roomTypeID), checkIn, checkOut, rooms)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
