package controllers

import (
	"errors"
	"net/http"
	"strings"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Login (POST /api/auth/login) — staff only. The returned token carries the
// role the actor middleware reads; guests never authenticate here.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": "invalid payload"}})
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "username and password required"}})
		return
	}

	var staff models.Staff
	if err := ctrl.DB.Where("username = ?", username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "error.invalidCredentials", "message": "invalid credentials"}})
			return
		}
		respondServiceError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(payload.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "error.invalidCredentials", "message": "invalid credentials"}})
		return
	}

	token, err := utils.IssueStaffToken(&staff)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"staff": gin.H{"id": staff.ID, "full_name": staff.FullName, "role": staff.Role},
	})
}
