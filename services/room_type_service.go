package services

import (
	"errors"
	"fmt"

	"lagoon-hotel-backend/models"

	"gorm.io/gorm"
)

// RoomTypeService is the catalog side the core consumes: lookups plus the
// administrative CRUD behind the back office.
type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

func (s *RoomTypeService) GetAll() ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.DB.Order("type_name ASC").Find(&types).Error
	return types, err
}

func (s *RoomTypeService) GetByID(id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (s *RoomTypeService) Create(rt *models.RoomType) error {
	if rt.Status == "" {
		rt.Status = models.RoomTypeActive
	}
	return s.DB.Create(rt).Error
}

func (s *RoomTypeService) Update(id uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")
	return s.DB.Model(&models.RoomType{}).Where("id = ?", id).Updates(updates).Error
}

// Deactivate takes a room type off sale without touching existing bookings;
// they run their lifecycle to the end on the snapshotted price.
func (s *RoomTypeService) Deactivate(id uint) error {
	res := s.DB.Model(&models.RoomType{}).Where("id = ?", id).Update("status", models.RoomTypeInactive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomTypeNotFound
	}
	return nil
}

// Delete refuses while any active booking still references the type.
func (s *RoomTypeService) Delete(id uint) error {
	var active int64
	if err := s.DB.Model(&models.Booking{}).
		Where("room_type_id = ? AND status IN ?", id, models.ActiveBookingStatuses).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d active bookings reference this room type", ErrValidation, active)
	}
	return s.DB.Delete(&models.RoomType{}, id).Error
}
