package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

type Repository interface {
	CreateBatch(ctx context.Context, ticketsToCreate []Ticket) error
	GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error)
	GetByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error)
	NumberExists(ctx context.Context, ticketNumber string) (bool, error)
	MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*Ticket, error)
	Transition(ctx context.Context, ticketNumber string, from, to Status) (*Ticket, error)
	UpdateQRCodePath(ctx context.Context, id uuid.UUID, path string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, ticketsToCreate []Ticket) error {
	if len(ticketsToCreate) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ticketsToCreate).Error
}

func (r *repository) GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("ticket_number = ?", ticketNumber).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	var ticketsList []Ticket
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("ticket_number ASC").
		Find(&ticketsList).Error
	return ticketsList, err
}

func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var ticketsList []Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&ticketsList).Error
	return ticketsList, err
}

func (r *repository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	var ticketsList []Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("ticket_number ASC").
		Find(&ticketsList).Error
	return ticketsList, err
}

func (r *repository) NumberExists(ctx context.Context, ticketNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_number = ?", ticketNumber).
		Count(&count).Error
	return count > 0, err
}

// MarkUsed flips ACTIVE to USED atomically; a ticket scanned twice fails
// the second time because the guarded update matches no rows.
func (r *repository) MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*Ticket, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_number = ? AND status = ?", ticketNumber, StatusActive).
		Updates(map[string]interface{}{
			"status":  StatusUsed,
			"used_at": &now,
			"used_by": usedBy,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTicketNotFound
	}

	return r.GetByNumber(ctx, ticketNumber)
}

// Transition moves a ticket between statuses with the same guarded update
// MarkUsed uses, so concurrent transitions cannot both win.
func (r *repository) Transition(ctx context.Context, ticketNumber string, from, to Status) (*Ticket, error) {
	result := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_number = ? AND status = ?", ticketNumber, from).
		Update("status", to)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTicketNotFound
	}

	return r.GetByNumber(ctx, ticketNumber)
}

func (r *repository) UpdateQRCodePath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ?", id).
		Update("qr_code_path", path).Error
}
