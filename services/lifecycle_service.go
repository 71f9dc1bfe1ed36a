package services

import (
	"errors"
	"fmt"
	"time"

	"lagoon-hotel-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LifecycleService owns every status move after creation. All writes go
// through the transition table below; cancellation is the only move a guest
// may request, and only for their own unpaid booking.
type LifecycleService struct {
	DB *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// allowedTransitions is the full state machine. checked-out → pending is the
// administrative reopen; cancelled is terminal.
var allowedTransitions = map[string][]string{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingCheckedIn, models.BookingCancelled},
	models.BookingCheckedIn:  {models.BookingCheckedOut, models.BookingCancelled},
	models.BookingCheckedOut: {models.BookingPending},
	models.BookingCancelled:  {},
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func lockBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := lockForUpdate(tx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return &booking, nil
}

// UpdateStatus performs a staff transition per the table. Cancellations done
// through here follow the same refund rule as Cancel.
func (s *LifecycleService) UpdateStatus(id uint, newStatus string, actor Actor) (*models.Booking, error) {
	if !actor.IsStaff() {
		return nil, ErrNotPermittedForRole
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, id)
		if err != nil {
			return err
		}

		if !transitionAllowed(booking.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		updates := map[string]interface{}{"status": newStatus}

		switch newStatus {
		case models.BookingCheckedIn:
			// online bookings must be paid before arrival unless explicitly
			// created as pay-later; the manual desk flow settles at the desk
			if booking.PaymentStatus == models.PaymentPending && !booking.IsManualBooking && !booking.PayLater {
				return fmt.Errorf("%w: cannot check in while payment is pending", ErrInvalidTransition)
			}

		case models.BookingCancelled:
			if booking.PaymentStatus == models.PaymentPaid {
				updates["payment_status"] = models.PaymentRefunded
			}

		case models.BookingPending:
			// reopen of a checked-out booking claims the interval again, so
			// the allocation must still hold; admin correction only
			if !actor.IsAdmin() {
				return ErrNotPermittedForRole
			}
			if err := s.recheckReopenedAllocation(tx, booking); err != nil {
				return err
			}
		}

		if err := tx.Model(booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.reload(id)
}

// recheckReopenedAllocation verifies the booking's own room instances are
// still free for its interval before it re-enters an active status. It takes
// the same instance locks as the allocator so a concurrent CreateBooking for
// the type serializes against the reopen, and reads with locks so the check
// sees allocations committed after this transaction's snapshot.
func (s *LifecycleService) recheckReopenedAllocation(tx *gorm.DB, booking *models.Booking) error {
	var instances []models.Room
	if err := lockForUpdate(tx).
		Where("room_type_id = ?", booking.RoomTypeID).
		Find(&instances).Error; err != nil {
		return fmt.Errorf("failed to lock room instances: %w", err)
	}

	occupied, err := occupiedRoomIDs(lockForUpdate(tx), booking.RoomTypeID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		return err
	}
	taken := make(map[uint]struct{}, len(occupied))
	for _, id := range occupied {
		taken[id] = struct{}{}
	}

	var allocated []models.BookingRoom
	if err := lockForUpdate(tx).Where("booking_id = ?", booking.ID).Find(&allocated).Error; err != nil {
		return fmt.Errorf("failed to load allocation of booking %d: %w", booking.ID, err)
	}
	for _, br := range allocated {
		if _, busy := taken[br.RoomID]; busy {
			return ErrAllocationConflict
		}
	}
	return nil
}

// Cancel releases the booking's room instances immediately: the status flip
// alone drops it out of the overlap query, so the very next availability
// read reflects the change. Guests may only cancel their own booking and
// only before money changed hands; paid cancellations go through staff and
// flip the payment status to refunded.
func (s *LifecycleService) Cancel(id uint, actor Actor, reason string) (*models.Booking, error) {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, id)
		if err != nil {
			return err
		}

		if !actor.IsStaff() {
			if actor.ClientID == 0 || booking.ClientID != actor.ClientID {
				return ErrNotPermittedForRole
			}
			if booking.PaymentStatus != models.PaymentPending {
				return fmt.Errorf("%w: paid bookings are cancelled by staff", ErrNotPermittedForRole)
			}
		}

		if !transitionAllowed(booking.Status, models.BookingCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, models.BookingCancelled)
		}

		updates := map[string]interface{}{
			"status":        models.BookingCancelled,
			"cancel_reason": reason,
		}
		if booking.PaymentStatus == models.PaymentPaid {
			updates["payment_status"] = models.PaymentRefunded
		}

		if err := tx.Model(booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to cancel booking %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.reload(id)
}

// UpdatePaymentStatus is the staff edit for manual bookings. Refunded is not
// reachable here; it only ever results from cancelling a paid booking.
func (s *LifecycleService) UpdatePaymentStatus(id uint, newStatus string, actor Actor) (*models.Booking, error) {
	if !actor.IsStaff() {
		return nil, ErrNotPermittedForRole
	}
	if newStatus != models.PaymentPending && newStatus != models.PaymentPaid {
		return nil, fmt.Errorf("%w: payment status %q cannot be set directly", ErrValidation, newStatus)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !booking.IsManualBooking {
			return fmt.Errorf("%w: payment status of online bookings is driven by the payment collaborator", ErrNotPermittedForRole)
		}
		if booking.Status == models.BookingCancelled || booking.Status == models.BookingCheckedOut {
			return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
		}
		if err := tx.Model(booking).Update("payment_status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update payment status of booking %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.reload(id)
}

// ConfirmPayment records a payment-success signal from the payment
// collaborator (already verified upstream) and promotes a pending booking to
// confirmed.
func (s *LifecycleService) ConfirmPayment(id uint) (*models.Booking, error) {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
		}

		updates := map[string]interface{}{"payment_status": models.PaymentPaid}
		if booking.Status == models.BookingPending {
			updates["status"] = models.BookingConfirmed
		}
		if err := tx.Model(booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to confirm payment of booking %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.reload(id)
}

// CancelStalePending cancels unpaid pending bookings created more than
// maxAge ago and returns how many were released. Called by the external
// sweeper only; the allocator itself never expires anything.
func (s *LifecycleService) CancelStalePending(maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var stale []models.Booking
	if err := s.DB.
		Where("status = ? AND payment_status = ? AND created_at < ?",
			models.BookingPending, models.PaymentPending, cutoff).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("failed to query stale pending bookings: %w", err)
	}

	sweeper := Actor{Role: models.RoleAdmin}
	released := 0
	for _, booking := range stale {
		if _, err := s.Cancel(booking.ID, sweeper, "pending hold expired"); err != nil {
			logrus.WithError(err).WithField("booking_id", booking.ID).Warn("failed to cancel stale booking")
			continue
		}
		released++
	}
	return released, nil
}

func (s *LifecycleService) reload(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Preload("Client").
		Preload("RoomType").
		Preload("Rooms.Room").
		First(&booking, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking %d: %w", id, err)
	}
	return &booking, nil
}
