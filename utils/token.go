package utils

import (
	"fmt"
	"time"

	"lagoon-hotel-backend/models"

	"github.com/golang-jwt/jwt/v5"
)

// StaffClaims is the token payload for back-office users. Guests never get
// tokens; they identify themselves per request.
type StaffClaims struct {
	StaffID uint   `json:"staff_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(EnvOrDefault("JWT_SECRET", "lagoon-dev-secret"))
}

// IssueStaffToken signs a 24h access token for a staff member.
func IssueStaffToken(staff *models.Staff) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		StaffID: staff.ID,
		Role:    staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "lagoon-hotel-backend",
			Subject:   staff.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign staff token: %w", err)
	}
	return signed, nil
}

// ValidateStaffToken parses and verifies a staff token.
func ValidateStaffToken(tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
