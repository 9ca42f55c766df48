package bookings

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingNumber string    `json:"booking_number" gorm:"uniqueIndex;not null;size:30"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	EventID       uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Status        Status    `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	BookingDate   time.Time `json:"booking_date" gorm:"not null"`
	TotalAmount   float64   `json:"total_amount" gorm:"not null"`

	// DiscountAmount stays zero until promotional pricing exists, and
	// FinalAmount is always TotalAmount minus DiscountAmount.
	DiscountAmount float64 `json:"discount_amount" gorm:"not null;default:0"`
	FinalAmount    float64 `json:"final_amount" gorm:"not null"`

	Items []BookingItem `json:"items" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`

	PaymentDate *time.Time `json:"payment_date,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// BookingItem snapshots the ticket type name and unit price at booking
// time, so later price edits do not change what the customer owes.
type BookingItem struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID      uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	TicketTypeID   uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	TicketTypeName string    `json:"ticket_type_name" gorm:"not null;size:100"`
	UnitPrice      float64   `json:"unit_price" gorm:"not null"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	TotalPrice     float64   `json:"total_price" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// TotalQuantity is the number of tickets across all items.
func (b *Booking) TotalQuantity() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

func (BookingItem) TableName() string {
	return "booking_items"
}
