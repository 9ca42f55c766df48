package payments

import (
	"context"
	"fmt"
	"math"

	"starevents/internal/bookings"
	"starevents/internal/shared/config"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeGateway creates hosted Checkout Sessions. The customer pays on
// Stripe's page and lands back on the success URL, which triggers
// confirmation.
type StripeGateway struct {
	cfg config.StripeConfig
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, booking *bookings.Booking) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(booking.Items))
	for _, item := range booking.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.TicketTypeName),
				},
				// Stripe wants the smallest currency unit
				UnitAmount: stripe.Int64(int64(math.Round(item.UnitPrice * 100))),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(g.cfg.SuccessURL + "?booking=" + booking.BookingNumber),
		CancelURL:         stripe.String(g.cfg.CancelURL + "?booking=" + booking.BookingNumber),
		ClientReferenceID: stripe.String(booking.ID.String()),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", booking.ID.String())
	params.AddMetadata("customer_id", booking.UserID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create Stripe checkout session: %w", err)
	}

	return &CheckoutSession{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}
