package models

import "time"

type HotelSetting struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`
	Website string `gorm:"size:255" json:"website"`

	// Plain numeric amounts everywhere; this records the configured unit.
	Currency string `gorm:"size:8;default:LKR" json:"currency"`

	// Chat id used by the Telegram alert sink. Empty disables alerts.
	TelegramChatID string `gorm:"column:telegram_chat_id;size:64" json:"telegram_chat_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
