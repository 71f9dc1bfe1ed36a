package controllers

import (
	"net/http"
	"strconv"

	"lagoon-hotel-backend/middleware"
	"lagoon-hotel-backend/services"
	"lagoon-hotel-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	RoomTypeID  uint   `json:"room_type_id" binding:"required"`
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	RoomsBooked int    `json:"rooms_booked"`

	ClientID   uint                 `json:"client_id"`
	ClientInfo *services.ClientInfo `json:"client_info"`

	IsManualBooking bool   `json:"is_manual_booking"`
	PayLater        bool   `json:"pay_later"`
	PaymentStatus   string `json:"payment_status"`

	GuestList []map[string]interface{} `json:"guest_list,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc   *services.BookingService
	LifecycleSvc *services.LifecycleService
	Notifier     *utils.Notifier
}

func NewBookingController(bookingSvc *services.BookingService, lifecycleSvc *services.LifecycleService, notifier *utils.Notifier) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, LifecycleSvc: lifecycleSvc, Notifier: notifier}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidBookingId", "message": "booking id must be numeric"}})
		return 0, false
	}
	return uint(id), true
}

// CreateBooking (POST /api/bookings) serves both the public flow and the
// staff manual flow; the allocator decides what the actor may do.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": "invalid request body", "details": err.Error()}})
		return
	}

	checkIn, err := parseDate(payload.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "check_in must be YYYY-MM-DD"}})
		return
	}
	checkOut, err := parseDate(payload.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.validation", "message": "check_out must be YYYY-MM-DD"}})
		return
	}

	if payload.RoomsBooked == 0 {
		payload.RoomsBooked = 1
	}

	actor := middleware.ActorFrom(c)
	params := services.CreateBookingParams{
		RoomTypeID:      payload.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          payload.Adults,
		Children:        payload.Children,
		RoomsBooked:     payload.RoomsBooked,
		ClientID:        payload.ClientID,
		ClientInfo:      payload.ClientInfo,
		IsManualBooking: payload.IsManualBooking,
		PayLater:        payload.PayLater,
		PaymentStatus:   payload.PaymentStatus,
		GuestList:       payload.GuestList,
	}

	// a signed-in guest always books for themselves
	if !actor.IsStaff() && actor.ClientID != 0 {
		params.ClientID = actor.ClientID
		params.ClientInfo = nil
	}

	booking, err := ctrl.BookingSvc.CreateBooking(params, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// collaborators are invoked here, never inside the allocator
	ctrl.Notifier.BookingCreated(booking, &booking.Client)

	c.JSON(http.StatusCreated, gin.H{"message": "booking created", "data": booking})
}

// GetBookings (GET /api/bookings) — staff listing.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.GetAllWithRelations()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingDetails (GET /api/bookings/:id)
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.BookingSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor := middleware.ActorFrom(c)
	if !actor.IsStaff() && booking.ClientID != actor.ClientID {
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"code": "error.notPermitted", "message": "operation not permitted for this role"}})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetMyBookings (GET /api/my-bookings) — the guest's own list.
func (ctrl *BookingController) GetMyBookings(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.ClientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.missingClientId", "message": "X-Client-ID header is required"}})
		return
	}

	bookings, err := ctrl.BookingSvc.GetByClient(actor.ClientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateStatus (PATCH /api/bookings/:id/status) — staff lifecycle move.
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": "status is required"}})
		return
	}

	booking, err := ctrl.LifecycleSvc.UpdateStatus(id, payload.Status, middleware.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ctrl.Notifier.BookingStatusChanged(booking)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

// UpdatePaymentStatus (PATCH /api/bookings/:id/payment-status) — staff edit
// for manual bookings, {pending, paid} only.
func (ctrl *BookingController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.invalidPayload", "message": "payment_status is required"}})
		return
	}

	booking, err := ctrl.LifecycleSvc.UpdatePaymentStatus(id, payload.PaymentStatus, middleware.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

// ConfirmPayment (POST /api/bookings/:id/confirm-payment) is the entry point
// for the payment collaborator; authenticity of the payment signal is
// verified upstream of this service.
func (ctrl *BookingController) ConfirmPayment(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.LifecycleSvc.ConfirmPayment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"booking_id": id, "reference": booking.ReferenceCode}).Info("payment confirmed")
	ctrl.Notifier.BookingStatusChanged(booking)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

// CancelBooking (POST /api/bookings/:id/cancel) — guest self-cancel or staff
// cancellation; role rules live in the lifecycle service.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload CancelBookingRequest
	_ = c.ShouldBindJSON(&payload) // reason is optional

	booking, err := ctrl.LifecycleSvc.Cancel(id, middleware.ActorFrom(c), payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ctrl.Notifier.BookingCancelled(booking, &booking.Client)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

// DeleteBooking (DELETE /api/bookings/:id) — admin override outside the
// lifecycle contract.
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.BookingSvc.DeleteByID(id, middleware.ActorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking deleted"})
}
