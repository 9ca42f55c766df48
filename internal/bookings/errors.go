package bookings

import "errors"

var (
	ErrBookingNotFound        = errors.New("booking not found")
	ErrNotBookingOwner        = errors.New("booking does not belong to user")
	ErrEmptySelection         = errors.New("no tickets selected")
	ErrTicketTypeMismatch     = errors.New("ticket type does not belong to event")
	ErrAlreadyCancelled       = errors.New("booking is already cancelled")
	ErrEventAlreadyHeld       = errors.New("event has already taken place")
	ErrDuplicateBookingNumber = errors.New("booking number already exists")
	ErrTransactionFailed      = errors.New("booking transaction failed")
)
