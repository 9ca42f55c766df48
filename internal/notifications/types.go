package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingConfirmed = "BOOKING_CONFIRMED"
	TypeTicketsIssued    = "TICKETS_ISSUED"
	TypeBookingCancelled = "BOOKING_CANCELLED"
)

// Notification is the message shipped through Kafka to the email workers.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
}

// Publisher queues notifications for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
	Close() error
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func FromJSON(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return &n, nil
}

// defaultSubject fills in a subject when the producer did not set one.
func defaultSubject(n *Notification) string {
	switch n.Type {
	case TypeBookingConfirmed:
		if num, ok := n.Data["booking_number"]; ok {
			return fmt.Sprintf("Booking %v confirmed", num)
		}
		return "Your booking is confirmed"
	case TypeTicketsIssued:
		if num, ok := n.Data["booking_number"]; ok {
			return fmt.Sprintf("Your tickets for booking %v", num)
		}
		return "Your tickets are ready"
	case TypeBookingCancelled:
		if num, ok := n.Data["booking_number"]; ok {
			return fmt.Sprintf("Booking %v cancelled", num)
		}
		return "Your booking has been cancelled"
	default:
		return "Notification from StarEvents"
	}
}
