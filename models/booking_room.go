package models

import (
	"gorm.io/gorm"
)

// BookingRoom pins one physical room instance to a booking. The availability
// overlap query joins through this table, so a row here plus an active booking
// status is what actually holds inventory for a night.
type BookingRoom struct {
	gorm.Model

	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`
	RoomID    uint `gorm:"index;column:room_id" json:"room_id"`

	Booking Booking `gorm:"foreignKey:BookingID;references:ID" json:"-"`
	Room    Room    `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
