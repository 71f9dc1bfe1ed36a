package services

import "time"

// Quote is the pricing result for a stay: nights * pricePerNight * rooms.
// No proration, no taxes; amounts are in the hotel's configured currency.
type Quote struct {
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"pricePerNight"`
	TotalPrice    float64 `json:"totalPrice"`
}

// toDay truncates a timestamp to its calendar date. All stay arithmetic is
// date-only so time-of-day on the inputs can never change the night count.
func toDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StayNights returns the whole-night length of [checkIn, checkOut). A partial
// day always rounds up to a full night, per hotel billing convention.
func StayNights(checkIn, checkOut time.Time) int {
	from := toDay(checkIn)
	to := toDay(checkOut)
	if !to.After(from) {
		return 0
	}
	nights := int(to.Sub(from).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}

// PriceStay computes the quote for a stay. Pure function: identical inputs
// always produce identical output.
func PriceStay(pricePerNight float64, checkIn, checkOut time.Time, rooms int) Quote {
	nights := StayNights(checkIn, checkOut)
	return Quote{
		Nights:        nights,
		PricePerNight: pricePerNight,
		TotalPrice:    pricePerNight * float64(nights) * float64(rooms),
	}
}
