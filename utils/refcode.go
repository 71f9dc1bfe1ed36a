package utils

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode returns a short human-readable booking reference like
// "LB-9F3A27C1". Uniqueness is enforced by the DB index; callers retry on
// the rare collision.
func NewReferenceCode() string {
	prefix := strings.TrimSpace(os.Getenv("BOOKING_REF_PREFIX"))
	if prefix == "" {
		prefix = "LB"
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:8])
}

// EnvOrDefault returns the env value or the fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
