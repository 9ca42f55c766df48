package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetRevenueSummary(ctx context.Context) (*RevenueSummary, error)
	GetTopEvents(ctx context.Context, limit int) ([]EventRevenue, error)
	GetTopCustomers(ctx context.Context, limit int) ([]CustomerRevenue, error)
	GetRevenueByCategory(ctx context.Context) ([]CategoryRevenue, error)
	GetRevenueByMonth(ctx context.Context, months int) ([]MonthlyRevenue, error)
	GetEventRevenue(ctx context.Context, eventID uuid.UUID) (*EventRevenue, error)
	GetEventDailySales(ctx context.Context, eventID uuid.UUID) ([]DailySales, error)
	GetEventTicketTypeSales(ctx context.Context, eventID uuid.UUID) ([]TicketTypeSales, error)
}

type repository struct {
	db *gorm.DB
}

const eventRevenueSelect = `
	SELECT
		e.id as event_id,
		e.name as event_name,
		e.venue,
		e.category,
		(SELECT COUNT(*) FROM bookings b
			WHERE b.event_id = e.id AND b.status = 'CONFIRMED') as booking_count,
		(SELECT COALESCE(SUM(bi.quantity), 0) FROM booking_items bi
			JOIN bookings b ON b.id = bi.booking_id
			WHERE b.event_id = e.id AND b.status = 'CONFIRMED') as tickets_sold,
		(SELECT COALESCE(SUM(p.amount), 0) FROM payments p
			JOIN bookings b ON b.id = p.booking_id
			WHERE b.event_id = e.id AND p.status = 'COMPLETED') as revenue,
		(SELECT COALESCE(SUM(tt.initial_capacity - tt.total_available), 0)
			FROM ticket_types tt WHERE tt.event_id = e.id) as capacity_sold,
		(SELECT COALESCE(SUM(tt.initial_capacity), 0)
			FROM ticket_types tt WHERE tt.event_id = e.id) as capacity_total
	FROM events e
`

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Revenue counts settled money only: payments with status COMPLETED.
// Booking totals are not used directly because a pending booking has a
// total but no money behind it yet.

func (r *repository) GetRevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	var summary RevenueSummary

	err := r.db.WithContext(ctx).Table("payments").
		Where("status = ?", "COMPLETED").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed payments: %w", err)
	}

	if err := r.db.WithContext(ctx).Table("bookings").Count(&summary.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	err = r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", "CONFIRMED").
		Count(&summary.ConfirmedBookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	err = r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", "CANCELLED").
		Count(&summary.CancelledBookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(bi.quantity), 0)
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		WHERE b.status = 'CONFIRMED'
	`).Scan(&summary.TicketsSold).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets sold: %w", err)
	}

	if summary.ConfirmedBookings > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.ConfirmedBookings)
	}

	return &summary, nil
}

func (r *repository) GetTopEvents(ctx context.Context, limit int) ([]EventRevenue, error) {
	if limit <= 0 {
		limit = 10
	}

	// Subselects keep each aggregate on its own table. Joining items,
	// payments and ticket types in one pass would multiply the sums.
	var results []EventRevenue
	err := r.db.WithContext(ctx).Raw(eventRevenueSelect+`
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top events: %w", err)
	}

	return results, nil
}

func (r *repository) GetTopCustomers(ctx context.Context, limit int) ([]CustomerRevenue, error) {
	if limit <= 0 {
		limit = 10
	}

	var results []CustomerRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id as user_id,
			u.email,
			u.first_name || ' ' || u.last_name as customer_name,
			COUNT(DISTINCT b.id) as booking_count,
			COALESCE(SUM(p.amount), 0) as revenue
		FROM users u
		JOIN bookings b ON b.user_id = u.id AND b.status = 'CONFIRMED'
		LEFT JOIN payments p ON p.booking_id = b.id AND p.status = 'COMPLETED'
		GROUP BY u.id, u.email, u.first_name, u.last_name
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top customers: %w", err)
	}

	return results, nil
}

func (r *repository) GetRevenueByCategory(ctx context.Context) ([]CategoryRevenue, error) {
	var results []CategoryRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			e.category,
			COUNT(DISTINCT e.id) as event_count,
			COUNT(DISTINCT b.id) as booking_count,
			COALESCE(SUM(p.amount), 0) as revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.status = 'CONFIRMED'
		LEFT JOIN payments p ON p.booking_id = b.id AND p.status = 'COMPLETED'
		GROUP BY e.category
		ORDER BY revenue DESC
	`).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by category: %w", err)
	}

	return results, nil
}

func (r *repository) GetRevenueByMonth(ctx context.Context, months int) ([]MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}

	var results []MonthlyRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(processed_at, 'YYYY-MM') as month,
			COALESCE(SUM(amount), 0) as revenue,
			COUNT(*) as count
		FROM payments
		WHERE status = 'COMPLETED'
		  AND processed_at >= NOW() - (? || ' months')::interval
		GROUP BY TO_CHAR(processed_at, 'YYYY-MM')
		ORDER BY month
	`, months).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by month: %w", err)
	}

	return results, nil
}

func (r *repository) GetEventRevenue(ctx context.Context, eventID uuid.UUID) (*EventRevenue, error) {
	var result EventRevenue
	err := r.db.WithContext(ctx).Raw(eventRevenueSelect+`
		WHERE e.id = ?
	`, eventID).Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get event revenue: %w", err)
	}

	return &result, nil
}

func (r *repository) GetEventDailySales(ctx context.Context, eventID uuid.UUID) ([]DailySales, error) {
	var results []DailySales
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(b.created_at) as date,
			COUNT(*) as bookings,
			COALESCE(SUM((SELECT COALESCE(SUM(bi.quantity), 0)
				FROM booking_items bi WHERE bi.booking_id = b.id)), 0) as tickets_sold,
			COALESCE(SUM((SELECT COALESCE(SUM(p.amount), 0)
				FROM payments p WHERE p.booking_id = b.id AND p.status = 'COMPLETED')), 0) as revenue
		FROM bookings b
		WHERE b.event_id = ? AND b.status = 'CONFIRMED'
		GROUP BY DATE(b.created_at)
		ORDER BY date
	`, eventID).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily sales: %w", err)
	}

	return results, nil
}

func (r *repository) GetEventTicketTypeSales(ctx context.Context, eventID uuid.UUID) ([]TicketTypeSales, error) {
	var results []TicketTypeSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			tt.id as ticket_type_id,
			tt.name as ticket_type_name,
			tt.price as unit_price,
			tt.initial_capacity - tt.total_available as sold,
			tt.total_available as remaining,
			COALESCE(SUM(bi.total_price), 0) as revenue
		FROM ticket_types tt
		LEFT JOIN (booking_items bi
			JOIN bookings b ON b.id = bi.booking_id AND b.status = 'CONFIRMED')
			ON bi.ticket_type_id = tt.id
		WHERE tt.event_id = ?
		GROUP BY tt.id, tt.name, tt.price, tt.initial_capacity, tt.total_available
		ORDER BY tt.price
	`, eventID).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type sales: %w", err)
	}

	return results, nil
}
