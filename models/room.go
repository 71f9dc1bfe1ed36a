package models

import (
	"gorm.io/gorm"
)

// Room is one physical numbered room belonging to a RoomType.
// HousekeepingStatus is informational for the back office only and is never
// consulted when deciding availability.
type Room struct {
	gorm.Model

	RoomTypeID uint   `gorm:"index;column:room_type_id" json:"roomTypeId"`
	RoomNumber string `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"roomNumber"`
	Floor      string `gorm:"type:varchar(10)" json:"floor"`

	HousekeepingStatus string `gorm:"column:housekeeping_status;size:32;default:clean" json:"housekeepingStatus"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
