package payments

import (
	"context"
	"fmt"

	"starevents/internal/bookings"

	"github.com/google/uuid"
)

// CheckoutSession is the gateway-side handle for a payment attempt.
type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
}

// Gateway abstracts the payment provider so the booking flow can run
// against Stripe in production and the mock locally and in tests.
type Gateway interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, booking *bookings.Booking) (*CheckoutSession, error)
}

// MockGateway approves everything immediately. Used when no Stripe key is
// configured.
type MockGateway struct {
	SuccessURL string
}

func NewMockGateway(successURL string) *MockGateway {
	return &MockGateway{SuccessURL: successURL}
}

func (g *MockGateway) Name() string {
	return "mock"
}

func (g *MockGateway) CreateCheckoutSession(ctx context.Context, booking *bookings.Booking) (*CheckoutSession, error) {
	return &CheckoutSession{
		SessionID:   fmt.Sprintf("MOCK-%s", uuid.New().String()),
		CheckoutURL: fmt.Sprintf("%s?booking=%s", g.SuccessURL, booking.BookingNumber),
	}, nil
}
