package models

import (
	"gorm.io/gorm"
)

// Client is the guest the booking belongs to. Walk-in clients created through
// the manual flow carry whatever contact details the receptionist entered.
type Client struct {
	gorm.Model

	FullName string `gorm:"size:255" json:"fullName"`
	Email    string `gorm:"size:150;index" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
}
