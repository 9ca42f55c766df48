package tickets

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateTicketNumber produces a ticket number of the form
// TK20250901143207XXXX. The four random digits leave room for same-second
// collisions, so the issuer verifies uniqueness and retries.
func GenerateTicketNumber() (string, error) {
	timestamp := time.Now().UTC().Format("20060102150405")

	num, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate ticket number: %w", err)
	}

	return fmt.Sprintf("TK%s%04d", timestamp, num.Int64()), nil
}
