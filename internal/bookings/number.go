package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateBookingNumber produces a booking number of the form
// BK20250901143207XXXX, a UTC timestamp followed by four random digits.
// Collisions within the same second are possible, so callers must retry
// on a duplicate.
func GenerateBookingNumber() (string, error) {
	timestamp := time.Now().UTC().Format("20060102150405")

	num, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate booking number: %w", err)
	}

	return fmt.Sprintf("BK%s%04d", timestamp, num.Int64()), nil
}
