package services

import (
	"testing"

	"lagoon-hotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeactivateRoomTypeKeepsExistingBookings(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	bookings := NewBookingService(db)
	catalog := NewRoomTypeService(db)
	lifecycle := NewLifecycleService(db)

	booking := createTestBooking(t, bookings, rt.ID, client.ID, true, models.PaymentPaid)

	require.NoError(t, catalog.Deactivate(rt.ID))

	// no new bookings for the type
	_, err := bookings.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(4), CheckOut: day(6),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	assert.ErrorIs(t, err, ErrRoomTypeInactive)

	// the existing one still runs its lifecycle
	updated, err := lifecycle.UpdateStatus(booking.ID, models.BookingCheckedIn, staffActor())
	require.NoError(t, err)
	assert.Equal(t, models.BookingCheckedIn, updated.Status)
}

func TestDeleteRoomTypeRefusedWhileBooked(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	bookings := NewBookingService(db)
	catalog := NewRoomTypeService(db)
	lifecycle := NewLifecycleService(db)

	booking := createTestBooking(t, bookings, rt.ID, client.ID, false, "")

	assert.ErrorIs(t, catalog.Delete(rt.ID), ErrValidation)

	_, err := lifecycle.Cancel(booking.ID, GuestActor(client.ID), "")
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(rt.ID))
	_, err = catalog.GetByID(rt.ID)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
}

func TestDeactivateUnknownRoomType(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewRoomTypeService(db)
	assert.ErrorIs(t, catalog.Deactivate(12345), ErrRoomTypeNotFound)
}
