package reports

import "time"

// RevenueSummary aggregates settled payments across the platform.
type RevenueSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalBookings     int64   `json:"total_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TicketsSold       int64   `json:"tickets_sold"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type EventRevenue struct {
	EventID       string  `json:"event_id"`
	EventName     string  `json:"event_name"`
	Venue         string  `json:"venue"`
	Category      string  `json:"category"`
	BookingCount  int64   `json:"booking_count"`
	TicketsSold   int64   `json:"tickets_sold"`
	Revenue       float64 `json:"revenue"`
	CapacitySold  int64   `json:"capacity_sold"`
	CapacityTotal int64   `json:"capacity_total"`
}

type CategoryRevenue struct {
	Category     string  `json:"category"`
	EventCount   int64   `json:"event_count"`
	BookingCount int64   `json:"booking_count"`
	Revenue      float64 `json:"revenue"`
}

type CustomerRevenue struct {
	UserID       string  `json:"user_id"`
	Email        string  `json:"email"`
	CustomerName string  `json:"customer_name"`
	BookingCount int64   `json:"booking_count"`
	Revenue      float64 `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

type DailySales struct {
	Date        time.Time `json:"date"`
	Bookings    int64     `json:"bookings"`
	TicketsSold int64     `json:"tickets_sold"`
	Revenue     float64   `json:"revenue"`
}

// RevenueReport is the admin dashboard payload.
type RevenueReport struct {
	Summary      RevenueSummary    `json:"summary"`
	TopEvents    []EventRevenue    `json:"top_events"`
	TopCustomers []CustomerRevenue `json:"top_customers"`
	ByCategory   []CategoryRevenue `json:"by_category"`
	ByMonth      []MonthlyRevenue  `json:"by_month"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// EventSalesReport covers a single event for its manager.
type EventSalesReport struct {
	Event       EventRevenue      `json:"event"`
	DailySales  []DailySales      `json:"daily_sales"`
	TicketTypes []TicketTypeSales `json:"ticket_types"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type TicketTypeSales struct {
	TicketTypeID   string  `json:"ticket_type_id"`
	TicketTypeName string  `json:"ticket_type_name"`
	UnitPrice      float64 `json:"unit_price"`
	Sold           int64   `json:"sold"`
	Remaining      int64   `json:"remaining"`
	Revenue        float64 `json:"revenue"`
}
