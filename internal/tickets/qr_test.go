package tickets

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleTicket() *Ticket {
	return &Ticket{
		TicketNumber: "TK202501011200001234",
		BookingID:    uuid.New(),
		EventID:      uuid.New(),
		Status:       StatusActive,
		IssuedAt:     time.Now().UTC(),
	}
}

func TestQRPayloadFields(t *testing.T) {
	ticket := sampleTicket()
	payload := buildPayload(ticket)

	assert.Equal(t, ticket.TicketNumber, payload.TicketNumber)
	assert.Equal(t, ticket.BookingID.String(), payload.BookingID)
	assert.Equal(t, ticket.EventID.String(), payload.EventID)
	assert.Equal(t, "event_ticket", payload.Type)

	data, err := json.Marshal(payload)
	assert.NoError(t, err)
	assert.Contains(t, string(data), ticket.TicketNumber)
}

func TestEncodeProducesPNG(t *testing.T) {
	gen := NewQRGenerator(t.TempDir(), 256)

	png, err := gen.Encode(sampleTicket())

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestGenerateWritesFileNamedAfterTicket(t *testing.T) {
	dir := t.TempDir()
	gen := NewQRGenerator(dir, 0) // zero falls back to the default size
	ticket := sampleTicket()

	path, err := gen.Generate(ticket)

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ticket.TicketNumber+".png"), path)

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
