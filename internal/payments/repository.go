package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNothingToSettle = errors.New("booking is not pending settlement")
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	SettleBooking(ctx context.Context, bookingID uuid.UUID, transactionID string) error
	FailPending(ctx context.Context, bookingID uuid.UUID, reason string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var paymentsList []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&paymentsList).Error
	return paymentsList, err
}

// SettleBooking flips the booking PENDING -> CONFIRMED and completes its
// pending payments in one transaction. The guarded update makes the flip
// a compare-and-set: a second settlement attempt matches no rows and
// returns ErrNothingToSettle, which callers treat as already settled.
func (r *repository) SettleBooking(ctx context.Context, bookingID uuid.UUID, transactionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		result := tx.Table("bookings").
			Where("id = ? AND status = ?", bookingID, "PENDING").
			Updates(map[string]interface{}{
				"status":       "CONFIRMED",
				"payment_date": &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNothingToSettle
		}

		updates := map[string]interface{}{
			"status":       StatusCompleted,
			"processed_at": &now,
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}

		return tx.Model(&Payment{}).
			Where("booking_id = ? AND status = ?", bookingID, StatusPending).
			Updates(updates).Error
	})
}

func (r *repository) FailPending(ctx context.Context, bookingID uuid.UUID, reason string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, StatusPending).
		Updates(map[string]interface{}{
			"status":         StatusFailed,
			"failure_reason": reason,
		})
	return result.RowsAffected, result.Error
}
