package services

import (
	"errors"
	"fmt"
	"strings"

	"lagoon-hotel-backend/models"

	"gorm.io/gorm"
)

type ClientService struct {
	DB *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{DB: db}
}

func (s *ClientService) Create(client *models.Client) error {
	client.FullName = strings.TrimSpace(client.FullName)
	if client.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if email := strings.TrimSpace(client.Email); email != "" && !strings.Contains(email, "@") {
		return fmt.Errorf("%w: malformed email", ErrValidation)
	}
	return s.DB.Create(client).Error
}

func (s *ClientService) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrValidation, id)
		}
		return nil, err
	}
	return &client, nil
}

func (s *ClientService) GetAll() ([]models.Client, error) {
	var clients []models.Client
	err := s.DB.Order("full_name ASC").Find(&clients).Error
	return clients, err
}
