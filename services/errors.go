package services

import "errors"

// Business error taxonomy. All of these are recoverable, user-facing
// conditions; controllers map them to HTTP codes with errors.Is. Anything
// else bubbling out of a service is a persistence failure and becomes a 500.
var (
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrRoomTypeInactive    = errors.New("room type inactive")
	ErrAllocationConflict  = errors.New("allocation conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotPermittedForRole = errors.New("not permitted for role")
	ErrValidation          = errors.New("validation error")
	ErrBookingNotFound     = errors.New("booking not found")
)
