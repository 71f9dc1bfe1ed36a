package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/utils"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the allocator: it turns a validated request into a
// Booking row plus one BookingRoom row per reserved physical room, inside a
// single transaction that re-checks availability so two concurrent requests
// for the last room cannot both win.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// ClientInfo is the inline contact block a receptionist enters for a walk-in
// or phone guest who has no client record yet.
type ClientInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type CreateBookingParams struct {
	RoomTypeID  uint
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      int
	Children    int
	RoomsBooked int

	ClientID   uint
	ClientInfo *ClientInfo

	IsManualBooking bool
	PayLater        bool
	// Staff-chosen payment status for manual bookings; {pending, paid} only.
	PaymentStatus string

	GuestList []map[string]interface{}
}

// lockForUpdate takes row locks where the dialect supports them. SQLite (used
// by the test suite) has no FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func isDuplicateEntryErr(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// normalizeGuestList keeps only entries with a name; missing guest type
// defaults to Adult.
func normalizeGuestList(guestList []map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(guestList))
	for _, g := range guestList {
		name := ""
		if v, ok := g["fullName"]; ok && v != nil {
			name = strings.TrimSpace(fmt.Sprintf("%v", v))
		} else if v, ok := g["name"]; ok && v != nil {
			name = strings.TrimSpace(fmt.Sprintf("%v", v))
		}
		if name == "" {
			continue
		}
		typ := "Adult"
		if v, ok := g["type"]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
				typ = s
			}
		}
		out = append(out, map[string]interface{}{"fullName": name, "type": typ})
	}
	return out
}

func (p *CreateBookingParams) validate(actor Actor) error {
	if p.RoomsBooked < 1 {
		return fmt.Errorf("%w: roomsBooked must be at least 1", ErrValidation)
	}
	if p.Adults < 1 {
		p.Adults = 1
	}
	if p.Children < 0 {
		p.Children = 0
	}

	if p.IsManualBooking {
		if !actor.IsStaff() {
			return ErrNotPermittedForRole
		}
		switch p.PaymentStatus {
		case "":
			p.PaymentStatus = models.PaymentPending
		case models.PaymentPending, models.PaymentPaid:
		default:
			// refunded (or anything else) is never a creation-time status
			return fmt.Errorf("%w: payment status %q not allowed at creation", ErrValidation, p.PaymentStatus)
		}
	} else {
		// online bookings always start awaiting payment
		p.PaymentStatus = models.PaymentPending
	}

	if p.ClientID == 0 {
		if p.ClientInfo == nil || strings.TrimSpace(p.ClientInfo.FullName) == "" {
			return fmt.Errorf("%w: client id or client name is required", ErrValidation)
		}
		if email := strings.TrimSpace(p.ClientInfo.Email); email != "" && !strings.Contains(email, "@") {
			return fmt.Errorf("%w: malformed client email", ErrValidation)
		}
	}

	return validateStayRange(p.CheckIn, p.CheckOut)
}

// initialStatus: manual+paid bookings are confirmed on the spot; everything
// else starts pending (online confirms on payment success).
func (p *CreateBookingParams) initialStatus() string {
	if p.IsManualBooking && p.PaymentStatus == models.PaymentPaid {
		return models.BookingConfirmed
	}
	return models.BookingPending
}

// CreateBooking reserves specific room instances for the interval and creates
// the booking record. The overlap check runs again inside the transaction,
// with the type's instance rows locked, so the first writer to commit wins
// and the loser gets ErrAllocationConflict.
func (s *BookingService) CreateBooking(params CreateBookingParams, actor Actor) (*models.Booking, error) {
	if err := params.validate(actor); err != nil {
		return nil, err
	}

	guestJSON, _ := json.Marshal(normalizeGuestList(params.GuestList))

	var bookingID uint

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		rt, err := loadActiveRoomType(tx, params.RoomTypeID)
		if err != nil {
			return err
		}
		if params.RoomsBooked > rt.TotalRooms {
			return fmt.Errorf("%w: room type %q has only %d rooms", ErrValidation, rt.TypeName, rt.TotalRooms)
		}

		// Lock every instance row of the type for the duration of the
		// transaction; concurrent allocators for the same type serialize
		// here, which is the whole race-window fix.
		var instances []models.Room
		if err := lockForUpdate(tx).
			Where("room_type_id = ?", params.RoomTypeID).
			Order("room_number ASC").
			Find(&instances).Error; err != nil {
			return fmt.Errorf("failed to lock room instances: %w", err)
		}

		// Locking read: under REPEATABLE READ a plain SELECT would reuse the
		// snapshot taken before the instance locks were acquired and miss an
		// allocation committed while this transaction waited.
		occupied, err := occupiedRoomIDs(lockForUpdate(tx), params.RoomTypeID, params.CheckIn, params.CheckOut)
		if err != nil {
			return err
		}
		taken := make(map[uint]struct{}, len(occupied))
		for _, id := range occupied {
			taken[id] = struct{}{}
		}

		// Deterministic pick: lowest room number first among instances free
		// for the whole interval.
		free := make([]models.Room, 0, len(instances))
		for _, room := range instances {
			if _, busy := taken[room.ID]; !busy {
				free = append(free, room)
			}
		}
		if len(free) < params.RoomsBooked {
			return ErrAllocationConflict
		}

		clientID := params.ClientID
		if clientID != 0 {
			var client models.Client
			if err := tx.First(&client, clientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: client %d not found", ErrValidation, clientID)
				}
				return fmt.Errorf("failed to load client %d: %w", clientID, err)
			}
		} else {
			client := models.Client{
				FullName: strings.TrimSpace(params.ClientInfo.FullName),
				Email:    strings.TrimSpace(params.ClientInfo.Email),
				Phone:    strings.TrimSpace(params.ClientInfo.Phone),
			}
			if err := tx.Create(&client).Error; err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			clientID = client.ID
		}

		quote := PriceStay(rt.PricePerNight, params.CheckIn, params.CheckOut, params.RoomsBooked)

		booking := models.Booking{
			ClientID:        clientID,
			RoomTypeID:      params.RoomTypeID,
			CheckIn:         toDay(params.CheckIn),
			CheckOut:        toDay(params.CheckOut),
			Adults:          params.Adults,
			Children:        params.Children,
			RoomsBooked:     params.RoomsBooked,
			PricePerNight:   quote.PricePerNight,
			Nights:          quote.Nights,
			TotalPrice:      quote.TotalPrice,
			Status:          params.initialStatus(),
			PaymentStatus:   params.PaymentStatus,
			IsManualBooking: params.IsManualBooking,
			PayLater:        params.PayLater,
			GuestList:       datatypes.JSON(guestJSON),
		}

		// reference codes are uuid-derived; retry the insert on the rare
		// unique collision rather than failing the whole request
		var createErr error
		for attempt := 0; attempt < 3; attempt++ {
			booking.ReferenceCode = utils.NewReferenceCode()
			createErr = tx.Create(&booking).Error
			if createErr == nil {
				break
			}
			if !isDuplicateEntryErr(createErr) {
				return fmt.Errorf("failed to create booking: %w", createErr)
			}
			logrus.WithField("attempt", attempt+1).Warn("booking reference collision, retrying")
		}
		if createErr != nil {
			return fmt.Errorf("failed to create booking after retries: %w", createErr)
		}

		for i := 0; i < params.RoomsBooked; i++ {
			br := models.BookingRoom{BookingID: booking.ID, RoomID: free[i].ID}
			if err := tx.Create(&br).Error; err != nil {
				return fmt.Errorf("failed to allocate room %d: %w", free[i].ID, err)
			}
		}

		bookingID = booking.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(bookingID)
}

// GetByID loads a booking with its client, room type and allocated rooms.
func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Preload("Client").
		Preload("RoomType").
		Preload("Rooms.Room").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking %d: %w", id, err)
	}
	if booking.Rooms == nil {
		booking.Rooms = []models.BookingRoom{}
	}
	return &booking, nil
}

// GetAllWithRelations returns every booking for the back-office list, newest
// first.
func (s *BookingService) GetAllWithRelations() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Client").
		Preload("RoomType").
		Preload("Rooms.Room").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	for i := range list {
		if list[i].Rooms == nil {
			list[i].Rooms = []models.BookingRoom{}
		}
	}
	return list, nil
}

// GetByClient returns a client's own bookings (the MyBookings surface).
func (s *BookingService) GetByClient(clientID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("RoomType").
		Preload("Rooms.Room").
		Where("client_id = ?", clientID).
		Order("check_in DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve client bookings: %w", err)
	}
	return list, nil
}

// DeleteByID is the administrative override: it removes the booking record
// entirely, outside the lifecycle contract. Soft delete keeps the row for
// audit while dropping it from every availability query.
func (s *BookingService) DeleteByID(id uint, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrNotPermittedForRole
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Booking{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete booking %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrBookingNotFound
		}
		if err := tx.Where("booking_id = ?", id).Delete(&models.BookingRoom{}).Error; err != nil {
			return fmt.Errorf("failed to release rooms of booking %d: %w", id, err)
		}
		return nil
	})
}
