package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starevents/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateWithReservation(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByNumber(ctx context.Context, bookingNumber string) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	CancelWithRelease(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db        *gorm.DB
	inventory events.Inventory
}

func NewRepository(db *gorm.DB, inventory events.Inventory) Repository {
	return &repository{db: db, inventory: inventory}
}

// CreateWithReservation reserves every requested pool and creates the
// booking in one transaction. The row locks taken by Reserve serialize
// concurrent requests against the same pools; if any pool comes up short
// the whole transaction rolls back and nothing is held.
func (r *repository) CreateWithReservation(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Booking{}).
			Where("booking_number = ?", booking.BookingNumber).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check booking number: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateBookingNumber
		}

		for i := range booking.Items {
			item := &booking.Items[i]

			ticketType, err := r.inventory.Reserve(tx, item.TicketTypeID, item.Quantity)
			if err != nil {
				return err
			}

			if ticketType.EventID != booking.EventID {
				return ErrTicketTypeMismatch
			}

			// snapshot name and price under the row lock
			snapshotItem(item, ticketType)
		}

		finalizeAmounts(booking)
		booking.Status = StatusPending

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
}

// snapshotItem copies what the customer is charged onto the booking line,
// so later edits to the ticket type do not change the stored amounts.
func snapshotItem(item *BookingItem, ticketType *events.TicketType) {
	item.TicketTypeName = ticketType.Name
	item.UnitPrice = ticketType.Price
	item.TotalPrice = ticketType.Price * float64(item.Quantity)
}

func finalizeAmounts(booking *Booking) {
	total := 0.0
	for _, item := range booking.Items {
		total += item.TotalPrice
	}
	booking.TotalAmount = total
	booking.FinalAmount = total - booking.DiscountAmount
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByNumber(ctx context.Context, bookingNumber string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Items").
		Where("booking_number = ?", bookingNumber).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	err := db.Preload("Items").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).Preload("Items").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// CancelWithRelease cancels a booking and restores its reserved units.
// Inventory restoration clamps at each pool's initial capacity. Pending
// payments fail and any issued tickets are revoked in the same transaction.
func (r *repository) CancelWithRelease(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			Where("id = ?", id).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.IsCancelled() {
			return ErrAlreadyCancelled
		}

		now := time.Now().UTC()
		if err := tx.Model(&Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": &now,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		for _, item := range booking.Items {
			if _, err := r.inventory.Release(tx, item.TicketTypeID, item.Quantity); err != nil {
				return fmt.Errorf("failed to release inventory: %w", err)
			}
		}

		if err := tx.Table("payments").
			Where("booking_id = ? AND status = ?", id, "PENDING").
			Update("status", "FAILED").Error; err != nil {
			return fmt.Errorf("failed to fail pending payments: %w", err)
		}

		if err := tx.Table("tickets").
			Where("booking_id = ? AND status = ?", id, "ACTIVE").
			Update("status", "CANCELLED").Error; err != nil {
			return fmt.Errorf("failed to revoke tickets: %w", err)
		}

		return nil
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
