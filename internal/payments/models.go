package payments

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID     uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Currency      string    `json:"currency" gorm:"not null;size:10"`
	Gateway       string    `json:"gateway" gorm:"not null;size:20"`
	Status        Status    `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	TransactionID string    `json:"transaction_id" gorm:"size:255;index"`
	FailureReason string    `json:"failure_reason,omitempty" gorm:"size:500"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type PaymentResponse struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"booking_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Gateway       string     `json:"gateway"`
	Status        Status     `json:"status"`
	TransactionID string     `json:"transaction_id"`
	FailureReason string     `json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CheckoutResponse struct {
	Payment     PaymentResponse `json:"payment"`
	CheckoutURL string          `json:"checkout_url"`
}

// ConfirmationResponse reports the outcome of a payment confirmation.
// TicketsPending is set when the payment and booking settled but ticket
// issuance failed; the booking stays confirmed and issuance can be retried.
type ConfirmationResponse struct {
	BookingID      string      `json:"booking_id"`
	BookingNumber  string      `json:"booking_number"`
	BookingStatus  string      `json:"booking_status"`
	Tickets        interface{} `json:"tickets,omitempty"`
	TicketsPending bool        `json:"tickets_pending"`
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Gateway:       p.Gateway,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		FailureReason: p.FailureReason,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
