package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleGuest        = "guest"
	RoleReceptionist = "receptionist"
	RoleAdmin        = "admin"
)

type Staff struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	Role     string `gorm:"size:32;default:receptionist" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
