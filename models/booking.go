package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking lifecycle statuses. Legal transitions are enforced by
// services.LifecycleService; nothing writes these columns directly.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingCheckedIn  = "checked-in"
	BookingCheckedOut = "checked-out"
	BookingCancelled  = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// ActiveBookingStatuses are the statuses that hold room inventory. A booking
// in any other status does not count against availability.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed, BookingCheckedIn}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:32" json:"reference_code"`

	ClientID   uint `gorm:"index;column:client_id" json:"client_id"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"room_type_id"`

	// Date-only, half-open stay interval [CheckIn, CheckOut).
	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	Adults      int `gorm:"default:1" json:"adults"`
	Children    int `gorm:"default:0" json:"children"`
	RoomsBooked int `gorm:"column:rooms_booked;default:1" json:"rooms_booked"`

	// Price snapshot taken at creation; later RoomType price edits never
	// touch an existing booking.
	PricePerNight float64 `gorm:"column:price_per_night" json:"price_per_night"`
	Nights        int     `json:"nights"`
	TotalPrice    float64 `gorm:"column:total_price" json:"total_price"`

	Status        string `gorm:"size:32;index" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:32" json:"payment_status"`

	IsManualBooking bool   `gorm:"column:is_manual_booking;default:false" json:"is_manual_booking"`
	PayLater        bool   `gorm:"column:pay_later;default:false" json:"pay_later"`
	CancelReason    string `gorm:"column:cancel_reason;size:255" json:"cancel_reason,omitempty"`

	// Draft list of accompanying guests as entered at booking time.
	GuestList datatypes.JSON `gorm:"column:guest_list" json:"guestList,omitempty"`

	Client   Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	RoomType RoomType      `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	Rooms    []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
}

// IsActive reports whether the booking currently holds its room instances.
func (b *Booking) IsActive() bool {
	switch b.Status {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}
