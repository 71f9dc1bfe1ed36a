package controllers

import (
	"net/http"
	"strconv"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/services"

	"github.com/gin-gonic/gin"
)

type RoomTypeController struct {
	RoomTypeSvc *services.RoomTypeService
}

func NewRoomTypeController(svc *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypeSvc: svc}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidId", "message": "id must be numeric"}})
		return 0, false
	}
	return uint(id), true
}

func (ctrl *RoomTypeController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomTypeSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (ctrl *RoomTypeController) GetRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rt, err := ctrl.RoomTypeSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (ctrl *RoomTypeController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}
	if err := ctrl.RoomTypeSvc.Create(&rt); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (ctrl *RoomTypeController) UpdateRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}
	if err := ctrl.RoomTypeSvc.Update(id, updates); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room type updated"})
}

func (ctrl *RoomTypeController) DeactivateRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.RoomTypeSvc.Deactivate(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room type deactivated"})
}

func (ctrl *RoomTypeController) DeleteRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.RoomTypeSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room type deleted"})
}
