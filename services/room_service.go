package services

import (
	"errors"
	"fmt"
	"strings"

	"lagoon-hotel-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("RoomType").Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return fmt.Errorf("%w: room number is required", ErrValidation)
	}
	if _, err := loadRoomType(s.DB, room.RoomTypeID); err != nil {
		return err
	}
	return s.DB.Create(room).Error
}

func (s *RoomService) Update(id uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")
	return s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error
}

// Delete refuses while the instance is allocated to an active booking.
func (s *RoomService) Delete(id uint) error {
	var active int64
	if err := s.DB.Model(&models.BookingRoom{}).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id = ?", id).
		Where("bookings.deleted_at IS NULL AND bookings.status IN ?", models.ActiveBookingStatuses).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: room is allocated to %d active bookings", ErrValidation, active)
	}

	res := s.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// loadRoomType fetches a room type regardless of its active flag; catalog
// maintenance may attach rooms to an inactive type.
func loadRoomType(tx *gorm.DB, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := tx.First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &rt, nil
}
