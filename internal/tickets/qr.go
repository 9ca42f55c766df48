package tickets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload is the JSON encoded into every ticket's QR code. Gate scanners
// decode it and call the validation endpoint with the ticket number.
type QRPayload struct {
	TicketNumber string    `json:"ticket_number"`
	BookingID    string    `json:"booking_id"`
	EventID      string    `json:"event_id"`
	IssuedAt     time.Time `json:"issued_at"`
	Type         string    `json:"type"`
}

// QRGenerator renders ticket QR codes as PNG files.
type QRGenerator interface {
	Generate(ticket *Ticket) (string, error)
	Encode(ticket *Ticket) ([]byte, error)
}

type qrGenerator struct {
	outputDir string
	size      int
}

func NewQRGenerator(outputDir string, size int) QRGenerator {
	if size <= 0 {
		size = 256
	}
	return &qrGenerator{outputDir: outputDir, size: size}
}

func buildPayload(ticket *Ticket) QRPayload {
	return QRPayload{
		TicketNumber: ticket.TicketNumber,
		BookingID:    ticket.BookingID.String(),
		EventID:      ticket.EventID.String(),
		IssuedAt:     ticket.IssuedAt,
		Type:         "event_ticket",
	}
}

// Encode returns the PNG bytes for a ticket's QR code.
func (g *qrGenerator) Encode(ticket *Ticket) ([]byte, error) {
	payload, err := json.Marshal(buildPayload(ticket))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return png, nil
}

// Generate writes the ticket's QR PNG to disk and returns its path.
func (g *qrGenerator) Generate(ticket *Ticket) (string, error) {
	png, err := g.Encode(ticket)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create QR directory: %w", err)
	}

	path := filepath.Join(g.outputDir, ticket.TicketNumber+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write QR file: %w", err)
	}

	return path, nil
}
