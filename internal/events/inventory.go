package events

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTicketTypeNotFound = errors.New("ticket type not found")

// InsufficientInventoryError carries enough detail for the API to tell the
// customer exactly which pool ran out and what is left.
type InsufficientInventoryError struct {
	TicketTypeID   uuid.UUID
	TicketTypeName string
	Remaining      int
	Requested      int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %q: %d remaining, %d requested",
		e.TicketTypeName, e.Remaining, e.Requested)
}

// Inventory is the ledger for ticket type counts. Both methods must run
// inside the caller's transaction; they take a row lock so concurrent
// reservations for the same pool serialize.
type Inventory interface {
	Reserve(tx *gorm.DB, ticketTypeID uuid.UUID, quantity int) (*TicketType, error)
	Release(tx *gorm.DB, ticketTypeID uuid.UUID, quantity int) (*TicketType, error)
}

type inventory struct{}

func NewInventory() Inventory {
	return &inventory{}
}

// Reserve decrements a pool's remaining count after a locked read confirms
// the quantity fits. The lock holds until the surrounding transaction ends,
// so two requests racing for the last unit cannot both succeed.
func (i *inventory) Reserve(tx *gorm.DB, ticketTypeID uuid.UUID, quantity int) (*TicketType, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}

	var ticketType TicketType
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", ticketTypeID).
		First(&ticketType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}

	if ticketType.TotalAvailable < quantity {
		return nil, &InsufficientInventoryError{
			TicketTypeID:   ticketType.ID,
			TicketTypeName: ticketType.Name,
			Remaining:      ticketType.TotalAvailable,
			Requested:      quantity,
		}
	}

	ticketType.TotalAvailable -= quantity
	if err := tx.Model(&TicketType{}).
		Where("id = ?", ticketTypeID).
		Update("total_available", ticketType.TotalAvailable).Error; err != nil {
		return nil, err
	}

	return &ticketType, nil
}

// Release returns quantity units to a pool, clamped so the remaining count
// never exceeds the pool's initial capacity.
func (i *inventory) Release(tx *gorm.DB, ticketTypeID uuid.UUID, quantity int) (*TicketType, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("release quantity must be positive, got %d", quantity)
	}

	var ticketType TicketType
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", ticketTypeID).
		First(&ticketType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}

	newAvailable := ticketType.TotalAvailable + quantity
	if newAvailable > ticketType.InitialCapacity {
		newAvailable = ticketType.InitialCapacity
	}

	ticketType.TotalAvailable = newAvailable
	if err := tx.Model(&TicketType{}).
		Where("id = ?", ticketTypeID).
		Update("total_available", newAvailable).Error; err != nil {
		return nil, err
	}

	return &ticketType, nil
}
