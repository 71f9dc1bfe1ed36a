// Command expiry-sweeper cancels pending bookings whose payment window has
// lapsed, releasing their rooms back to inventory. Run it from cron or as a
// sidecar; it does nothing unless HOLD_EXPIRY_HOURS is set.
package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lagoon-hotel-backend/config"
	"lagoon-hotel-backend/services"
)

func holdExpiry() (time.Duration, bool) {
	raw := os.Getenv("HOLD_EXPIRY_HOURS")
	if raw == "" {
		return 0, false
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		logrus.Warnf("invalid HOLD_EXPIRY_HOURS %q, sweeper disabled", raw)
		return 0, false
	}
	return time.Duration(hours) * time.Hour, true
}

func sweepInterval() time.Duration {
	raw := os.Getenv("SWEEP_INTERVAL_MINUTES")
	if raw == "" {
		return 15 * time.Minute
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found or couldn't load it; continuing with environment variables")
	}

	maxAge, enabled := holdExpiry()
	if !enabled {
		logrus.Info("HOLD_EXPIRY_HOURS not set, nothing to do")
		return
	}

	if err := config.ConnectDatabase(); err != nil {
		logrus.Fatalf("database connect failed: %v", err)
	}

	lifecycle := services.NewLifecycleService(config.DB)
	interval := sweepInterval()

	// -once is handy for cron; the default loop suits a sidecar container.
	once := len(os.Args) > 1 && os.Args[1] == "-once"

	for {
		released, err := lifecycle.CancelStalePending(maxAge)
		if err != nil {
			logrus.Errorf("sweep failed: %v", err)
		} else if released > 0 {
			logrus.Infof("released %d stale pending booking(s)", released)
		}

		if once {
			return
		}
		time.Sleep(interval)
	}
}
