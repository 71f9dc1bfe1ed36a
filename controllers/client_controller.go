package controllers

import (
	"net/http"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/services"

	"github.com/gin-gonic/gin"
)

type ClientController struct {
	ClientSvc *services.ClientService
}

func NewClientController(svc *services.ClientService) *ClientController {
	return &ClientController{ClientSvc: svc}
}

// CreateClient (POST /api/clients) — the public site registers the guest
// before booking, then sends the returned id as X-Client-ID.
func (ctrl *ClientController) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}
	if err := ctrl.ClientSvc.Create(&client); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients (GET /api/clients) — staff list.
func (ctrl *ClientController) GetClients(c *gin.Context) {
	clients, err := ctrl.ClientSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}
