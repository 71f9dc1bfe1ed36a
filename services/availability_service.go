package services

import (
	"errors"
	"fmt"
	"time"

	"lagoon-hotel-backend/models"

	"gorm.io/gorm"
)

// AvailabilityService answers "how many rooms of this type are free for this
// date range". It is read-only: two calls with no intervening writes return
// the same result.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

type AvailabilityResult struct {
	Available      bool    `json:"available"`
	AvailableRooms int     `json:"availableRooms"`
	Nights         int     `json:"nights"`
	PricePerNight  float64 `json:"pricePerNight"`
	TotalPrice     float64 `json:"totalPrice"`
}

// validateStayRange applies the shared date rules: at least one night and a
// check-in no earlier than today (date-only comparison).
func validateStayRange(checkIn, checkOut time.Time) error {
	if !toDay(checkOut).After(toDay(checkIn)) {
		return ErrInvalidDateRange
	}
	today := toDay(time.Now().UTC())
	if toDay(checkIn).Before(today) {
		return fmt.Errorf("%w: check-in date is in the past", ErrInvalidDateRange)
	}
	return nil
}

// occupiedRoomIDs returns the distinct room instances of a room type already
// claimed by an active booking whose [check_in, check_out) interval overlaps
// the requested one. Half-open test: existing.check_in < requested.checkOut
// AND existing.check_out > requested.checkIn, so a same-day turnover
// (checkout morning, new check-in evening) never counts as a clash.
//
// Callers that must observe the latest committed allocations rather than
// their transaction's snapshot (the allocator re-check) pass the tx through
// lockForUpdate; plain availability reads pass the session as is.
func occupiedRoomIDs(tx *gorm.DB, roomTypeID uint, checkIn, checkOut time.Time) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.BookingRoom{}).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.deleted_at IS NULL").
		Where("bookings.room_type_id = ?", roomTypeID).
		Where("bookings.status IN ?", models.ActiveBookingStatuses).
		Where("bookings.check_in < ? AND bookings.check_out > ?", toDay(checkOut), toDay(checkIn)).
		Distinct().
		Pluck("booking_rooms.room_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query occupied rooms: %w", err)
	}
	return ids, nil
}

func loadActiveRoomType(tx *gorm.DB, roomTypeID uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := tx.First(&rt, roomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to load room type %d: %w", roomTypeID, err)
	}
	if !rt.IsActive() {
		return nil, ErrRoomTypeInactive
	}
	return &rt, nil
}

// CheckAvailability implements the availability contract: free instances of
// the room type for [checkIn, checkOut), plus the quote for the stay.
// Performs no writes.
func (s *AvailabilityService) CheckAvailability(roomTypeID uint, checkIn, checkOut time.Time, roomsNeeded int) (*AvailabilityResult, error) {
	if roomsNeeded < 1 {
		return nil, fmt.Errorf("%w: roomsNeeded must be at least 1", ErrValidation)
	}
	if err := validateStayRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	rt, err := loadActiveRoomType(s.DB, roomTypeID)
	if err != nil {
		return nil, err
	}

	occupied, err := occupiedRoomIDs(s.DB, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	free := rt.TotalRooms - len(occupied)
	if free < 0 {
		free = 0
	}

	quote := PriceStay(rt.PricePerNight, checkIn, checkOut, roomsNeeded)

	return &AvailabilityResult{
		Available:      free >= roomsNeeded,
		AvailableRooms: free,
		Nights:         quote.Nights,
		PricePerNight:  quote.PricePerNight,
		TotalPrice:     quote.TotalPrice,
	}, nil
}
