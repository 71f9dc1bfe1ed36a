package controllers

import (
	"net/http"

	"lagoon-hotel-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func (ctrl *SettingsController) GetHotelSettings(c *gin.Context) {
	var setting models.HotelSetting
	if err := ctrl.DB.First(&setting).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (ctrl *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload models.HotelSetting
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}

	var setting models.HotelSetting
	if err := ctrl.DB.First(&setting).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	payload.ID = setting.ID
	if err := ctrl.DB.Model(&setting).Updates(payload).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
