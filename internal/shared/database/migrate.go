package database

import (
	"starevents/internal/bookings"
	"starevents/internal/events"
	"starevents/internal/payments"
	"starevents/internal/tickets"
	"starevents/internal/users"

	"gorm.io/gorm"
)

// Migrate runs schema migrations for all domain models.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&events.TicketType{},
		&bookings.Booking{},
		&bookings.BookingItem{},
		&payments.Payment{},
		&tickets.Ticket{},
	); err != nil {
		return err
	}

	return applyConstraints(db)
}
