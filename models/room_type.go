package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoomTypeActive   = "active"
	RoomTypeInactive = "inactive"
)

// RoomType is a bookable category of room (e.g. "Deluxe"). TotalRooms is the
// number of physical instances belonging to the type.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `gorm:"column:type_name;size:100;uniqueIndex" json:"typeName"`
	Description string `gorm:"type:text" json:"description"`

	TotalRooms  int `gorm:"column:total_rooms" json:"totalRooms"`
	MaxAdults   int `gorm:"column:max_adults;default:2" json:"maxAdults"`
	MaxChildren int `gorm:"column:max_children;default:1" json:"maxChildren"`

	PricePerNight float64 `gorm:"column:price_per_night" json:"pricePerNight"`
	Status        string  `gorm:"size:32;default:active" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rooms []Room `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}

func (rt *RoomType) IsActive() bool {
	return rt.Status == RoomTypeActive
}
