package bookings

import "time"

type CreateBookingRequest struct {
	EventID string         `json:"event_id" binding:"required,uuid"`
	Tickets map[string]int `json:"tickets" binding:"required"`
}

type BookingItemResponse struct {
	TicketTypeID   string  `json:"ticket_type_id"`
	TicketTypeName string  `json:"ticket_type_name"`
	UnitPrice      float64 `json:"unit_price"`
	Quantity       int     `json:"quantity"`
	TotalPrice     float64 `json:"total_price"`
}

type BookingResponse struct {
	ID             string                `json:"id"`
	BookingNumber  string                `json:"booking_number"`
	UserID         string                `json:"user_id"`
	EventID        string                `json:"event_id"`
	Status         Status                `json:"status"`
	BookingDate    time.Time             `json:"booking_date"`
	TotalAmount    float64               `json:"total_amount"`
	DiscountAmount float64               `json:"discount_amount"`
	FinalAmount    float64               `json:"final_amount"`
	Items          []BookingItemResponse `json:"items"`
	PaymentDate    *time.Time            `json:"payment_date,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func (b *Booking) ToResponse() BookingResponse {
	items := make([]BookingItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemResponse{
			TicketTypeID:   item.TicketTypeID.String(),
			TicketTypeName: item.TicketTypeName,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
		}
	}

	return BookingResponse{
		ID:             b.ID.String(),
		BookingNumber:  b.BookingNumber,
		UserID:         b.UserID.String(),
		EventID:        b.EventID.String(),
		Status:         b.Status,
		BookingDate:    b.BookingDate,
		TotalAmount:    b.TotalAmount,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.FinalAmount,
		Items:          items,
		PaymentDate:    b.PaymentDate,
		CancelledAt:    b.CancelledAt,
		CreatedAt:      b.CreatedAt,
	}
}
