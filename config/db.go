package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"lagoon-hotel-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "lagoon_hotel")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase inserts the baseline records a fresh install needs:
// a staff account to log in with, the room catalog, and hotel settings.
func SeedDatabase() {
	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Staff{
				FullName: "Hotel Admin",
				Username: envOrDefault("ADMIN_USERNAME", "admin@lagoonbreeze.lk"),
				Password: string(hash),
				Role:     models.RoleAdmin,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var rtCount int64
	DB.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard garden-view room", TotalRooms: 6, MaxAdults: 2, MaxChildren: 1, PricePerNight: 6500, Status: models.RoomTypeActive},
			{TypeName: "Superior", Description: "Superior room with balcony", TotalRooms: 4, MaxAdults: 2, MaxChildren: 2, PricePerNight: 8500, Status: models.RoomTypeActive},
			{TypeName: "Deluxe", Description: "Deluxe lagoon-view room", TotalRooms: 2, MaxAdults: 3, MaxChildren: 2, PricePerNight: 10000, Status: models.RoomTypeActive},
		}
		if err := DB.Create(&roomTypes).Error; err != nil {
			log.Printf("warning: failed to seed room types: %v", err)
		} else {
			log.Println("RoomTypes seeded")
			seedRoomInstances(roomTypes)
		}
	}

	var settingsCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingsCount)
	if settingsCount == 0 {
		setting := models.HotelSetting{
			Name:     "Lagoon Breeze Hotel",
			Address:  "12 Lagoon Road, Negombo",
			Phone:    "+94 31 555 0100",
			Email:    "stay@lagoonbreeze.lk",
			Currency: "LKR",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Hotel settings seeded")
		}
	}
}

func seedRoomInstances(roomTypes []models.RoomType) {
	floor := 1
	number := 101
	for _, rt := range roomTypes {
		for i := 0; i < rt.TotalRooms; i++ {
			room := models.Room{
				RoomTypeID:         rt.ID,
				RoomNumber:         fmt.Sprintf("%d", number),
				Floor:              fmt.Sprintf("%d", floor),
				HousekeepingStatus: "clean",
			}
			if err := DB.Create(&room).Error; err != nil {
				log.Printf("warning: failed to seed room %s: %v", room.RoomNumber, err)
			}
			number++
		}
		floor++
		number = floor*100 + 1
	}
	log.Println("Room instances seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// parent tables before children
	if err := DB.AutoMigrate(
		&models.Staff{},
		&models.HotelSetting{},
		&models.Client{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.BookingRoom{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
