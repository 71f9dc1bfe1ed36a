package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}

	if err := ctrl.RoomSvc.Create(&room); err != nil {
		// duplicate room_number (unique index)
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": gin.H{
				"code":    "error.duplicateRoomNumber",
				"message": fmt.Sprintf("room number %q already exists", room.RoomNumber),
			}})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}
	if err := ctrl.RoomSvc.Update(id, updates); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room updated"})
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "error.roomNotFound", "message": "room not found"}})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room deleted"})
}
