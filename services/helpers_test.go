package services

import (
	"fmt"
	"testing"
	"time"

	"lagoon-hotel-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Staff{},
		&models.HotelSetting{},
		&models.Client{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.BookingRoom{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// seedRoomType creates an active room type with numbered instances starting
// at 101.
func seedRoomType(t *testing.T, db *gorm.DB, name string, totalRooms int, price float64) models.RoomType {
	t.Helper()

	rt := models.RoomType{
		TypeName:      name,
		Description:   name + " room",
		TotalRooms:    totalRooms,
		MaxAdults:     3,
		MaxChildren:   2,
		PricePerNight: price,
		Status:        models.RoomTypeActive,
	}
	if err := db.Create(&rt).Error; err != nil {
		t.Fatalf("failed to seed room type: %v", err)
	}

	for i := 0; i < totalRooms; i++ {
		room := models.Room{
			RoomTypeID: rt.ID,
			RoomNumber: fmt.Sprintf("%s-%d", name, 101+i),
			Floor:      "1",
		}
		if err := db.Create(&room).Error; err != nil {
			t.Fatalf("failed to seed room: %v", err)
		}
	}
	return rt
}

func seedClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	client := models.Client{FullName: name, Email: "guest@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return client
}

// day returns today's date (UTC, midnight) shifted by offset days. All stay
// fixtures are built from it so tests never depend on wall-clock time of day.
func day(offset int) time.Time {
	return toDay(time.Now().UTC()).AddDate(0, 0, offset)
}

func staffActor() Actor {
	return Actor{Role: models.RoleReceptionist, StaffID: 1}
}

func adminActor() Actor {
	return Actor{Role: models.RoleAdmin, StaffID: 2}
}
