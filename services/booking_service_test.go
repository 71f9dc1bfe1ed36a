package services

import (
	"math/rand"
	"sync"
	"testing"

	"lagoon-hotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestCreateBookingOnline(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	booking, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(4),
		RoomsBooked: 1, Adults: 2, Children: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, 10000.0, booking.PricePerNight)
	assert.Equal(t, 30000.0, booking.TotalPrice)
	assert.NotEmpty(t, booking.ReferenceCode)
	require.Len(t, booking.Rooms, 1)

	// lowest-numbered free instance is picked first
	assert.Equal(t, "Deluxe-101", booking.Rooms[0].Room.RoomNumber)
}

func TestCreateBookingAllocationIsDeterministic(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 3, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	first, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)
	assert.Equal(t, "Deluxe-101", first.Rooms[0].Room.RoomNumber)

	second, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 2, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)
	require.Len(t, second.Rooms, 2)
	assert.Equal(t, "Deluxe-102", second.Rooms[0].Room.RoomNumber)
	assert.Equal(t, "Deluxe-103", second.Rooms[1].Room.RoomNumber)
}

func TestCreateBookingConflictWhenFull(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 1, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	_, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(5),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)

	_, err = svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(2), CheckOut: day(4),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	assert.ErrorIs(t, err, ErrAllocationConflict)

	// non-overlapping interval still books fine
	_, err = svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(5), CheckOut: day(7),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	assert.NoError(t, err)
}

// setupDryRunMySQL opens a gorm session with the mysql dialector that builds
// SQL without touching a server, and records every generated query.
func setupDryRunMySQL(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:@tcp(127.0.0.1:3306)/lagoon_dryrun?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	captured := &[]string{}
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(d *gorm.DB) {
		*captured = append(*captured, d.Statement.SQL.String())
	})
	require.NoError(t, err)

	return db, captured
}

func TestAllocatorRecheckIsLockingRead(t *testing.T) {
	db, captured := setupDryRunMySQL(t)

	// the re-check inside the allocator transaction must read with locks so
	// it sees rows committed while the transaction waited on the instance
	// locks, not its own earlier snapshot
	_, err := occupiedRoomIDs(lockForUpdate(db), 1, day(1), day(3))
	require.NoError(t, err)
	require.NotEmpty(t, *captured)
	assert.Contains(t, (*captured)[len(*captured)-1], "FOR UPDATE")

	// the public availability read stays lock-free
	*captured = (*captured)[:0]
	_, err = occupiedRoomIDs(db, 1, day(1), day(3))
	require.NoError(t, err)
	require.NotEmpty(t, *captured)
	assert.NotContains(t, (*captured)[len(*captured)-1], "FOR UPDATE")
}

func TestLockForUpdateSkipsNonMySQLDialects(t *testing.T) {
	db := setupTestDB(t)

	// sqlite has no FOR UPDATE; the helper must leave the session untouched
	locked := lockForUpdate(db)
	assert.Same(t, db, locked)
}

func TestCreateBookingConcurrentLastRoom(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 1, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	// a single pooled connection makes the concurrent transactions queue the
	// way contending sessions do on a real server
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	const attempts = 4
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(CreateBookingParams{
				RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 1, ClientID: client.ID,
			}, GuestActor(client.ID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, ErrAllocationConflict)
			conflicts++
		}
	}

	// exactly one caller gets the last room
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)

	var active int64
	require.NoError(t, db.Model(&models.Booking{}).
		Where("status IN ?", models.ActiveBookingStatuses).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestCreateBookingNeverOverCommitsInventory(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 3, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 40; i++ {
		start := 1 + rng.Intn(10)
		nights := 1 + rng.Intn(4)
		_, err := svc.CreateBooking(CreateBookingParams{
			RoomTypeID: rt.ID, CheckIn: day(start), CheckOut: day(start + nights),
			RoomsBooked: 1 + rng.Intn(2), ClientID: client.ID,
		}, GuestActor(client.ID))
		if err != nil {
			assert.ErrorIs(t, err, ErrAllocationConflict)
		}
	}

	var bookings []models.Booking
	require.NoError(t, db.Preload("Rooms").
		Where("status IN ?", models.ActiveBookingStatuses).
		Find(&bookings).Error)
	require.NotEmpty(t, bookings)

	// per night: committed rooms never exceed the type's total, and no
	// physical instance is allocated twice
	for night := 1; night <= 15; night++ {
		nightStart := day(night)
		held := 0
		instances := map[uint]int{}
		for _, b := range bookings {
			if b.CheckIn.After(nightStart) || !b.CheckOut.After(nightStart) {
				continue
			}
			held += b.RoomsBooked
			for _, br := range b.Rooms {
				instances[br.RoomID]++
			}
		}
		assert.LessOrEqual(t, held, rt.TotalRooms, "night %d over-committed", night)
		for roomID, n := range instances {
			assert.Equal(t, 1, n, "room %d double-allocated on night %d", roomID, night)
		}
	}
}

func TestCreateBookingPriceSnapshot(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	booking, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)

	// a later price edit must not touch the stored snapshot
	require.NoError(t, db.Model(&models.RoomType{}).Where("id = ?", rt.ID).
		Update("price_per_night", 15000).Error)

	reloaded, err := svc.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, reloaded.PricePerNight)
	assert.Equal(t, 20000.0, reloaded.TotalPrice)
}

func TestCreateBookingManualRequiresStaff(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	params := CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
		IsManualBooking: true, PaymentStatus: models.PaymentPaid,
	}

	_, err := svc.CreateBooking(params, GuestActor(client.ID))
	assert.ErrorIs(t, err, ErrNotPermittedForRole)

	booking, err := svc.CreateBooking(params, staffActor())
	require.NoError(t, err)

	// manual + already paid confirms immediately
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
	assert.True(t, booking.IsManualBooking)
}

func TestCreateBookingManualRejectsRefundedAtCreation(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	_, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
		IsManualBooking: true, PaymentStatus: models.PaymentRefunded,
	}, staffActor())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBookingInlineClient(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	svc := NewBookingService(db)

	booking, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked:     1,
		ClientInfo:      &ClientInfo{FullName: "Walk-in Guest", Phone: "+94 77 555 0101"},
		IsManualBooking: true,
	}, staffActor())
	require.NoError(t, err)

	assert.NotZero(t, booking.ClientID)
	assert.Equal(t, "Walk-in Guest", booking.Client.FullName)
}

func TestCreateBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)
	actor := GuestActor(client.ID)

	cases := []struct {
		name   string
		params CreateBookingParams
		want   error
	}{
		{
			name: "zero rooms",
			params: CreateBookingParams{RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 0, ClientID: client.ID},
			want: ErrValidation,
		},
		{
			name: "more rooms than the type has",
			params: CreateBookingParams{RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 3, ClientID: client.ID},
			want: ErrValidation,
		},
		{
			name: "no client at all",
			params: CreateBookingParams{RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 1},
			want: ErrValidation,
		},
		{
			name: "unknown client id",
			params: CreateBookingParams{RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 1, ClientID: 9999},
			want: ErrValidation,
		},
		{
			name: "check-in in the past",
			params: CreateBookingParams{RoomTypeID: rt.ID, CheckIn: day(-1), CheckOut: day(2),
				RoomsBooked: 1, ClientID: client.ID},
			want: ErrInvalidDateRange,
		},
		{
			name: "unknown room type",
			params: CreateBookingParams{RoomTypeID: rt.ID + 999, CheckIn: day(1), CheckOut: day(3),
				RoomsBooked: 1, ClientID: client.ID},
			want: ErrRoomTypeNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(tc.params, actor)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateBookingNormalizesGuestList(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 2, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)

	booking, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
		GuestList: []map[string]interface{}{
			{"fullName": "Amaya Perera", "type": "Adult"},
			{"name": "Sithum Perera"},
			{"fullName": "   "},
		},
	}, GuestActor(client.ID))
	require.NoError(t, err)

	// blank entries dropped, missing type defaults to Adult
	assert.JSONEq(t,
		`[{"fullName":"Amaya Perera","type":"Adult"},{"fullName":"Sithum Perera","type":"Adult"}]`,
		string(booking.GuestList))
}

func TestDeleteBookingAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	rt := seedRoomType(t, db, "Deluxe", 1, 10000)
	client := seedClient(t, db, "Amaya Perera")
	svc := NewBookingService(db)
	availability := NewAvailabilityService(db)

	booking, err := svc.CreateBooking(CreateBookingParams{
		RoomTypeID: rt.ID, CheckIn: day(1), CheckOut: day(3),
		RoomsBooked: 1, ClientID: client.ID,
	}, GuestActor(client.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteByID(booking.ID, staffActor()), ErrNotPermittedForRole)
	require.NoError(t, svc.DeleteByID(booking.ID, adminActor()))

	_, err = svc.GetByID(booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// the interval is free again and the allocation rows went with the booking
	res, err := availability.CheckAvailability(rt.ID, day(1), day(3), 1)
	require.NoError(t, err)
	assert.True(t, res.Available)

	var remaining int64
	require.NoError(t, db.Model(&models.BookingRoom{}).
		Where("booking_id = ?", booking.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, svc.DeleteByID(booking.ID, adminActor()), ErrBookingNotFound)
}
