package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"starevents/internal/bookings"
	"starevents/internal/events"
	"starevents/pkg/logger"

	"github.com/google/uuid"
)

const maxNumberAttempts = 5

var (
	ErrNotTicketOwner      = errors.New("ticket does not belong to user")
	ErrTicketNotActive     = errors.New("ticket is not active")
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
)

// EventCatalog resolves events for gate validation.
type EventCatalog interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

type Service interface {
	// IssueForBooking generates one ticket per unit booked. Calling it
	// again for the same booking returns the existing tickets.
	IssueForBooking(ctx context.Context, booking *bookings.Booking) ([]TicketResponse, error)

	GetBookingTickets(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]TicketResponse, error)
	GetMyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error)
	GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]TicketResponse, error)
	ValidateTicket(ctx context.Context, req ValidateTicketRequest) (*ValidationResult, error)
	MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*TicketResponse, error)
	CancelTicket(ctx context.Context, ticketNumber string) (*TicketResponse, error)
	ExpireTicket(ctx context.Context, ticketNumber string) (*TicketResponse, error)
}

type service struct {
	repo    Repository
	catalog EventCatalog
	qr      QRGenerator
	log     *logger.Logger

	newTicketNumber func() (string, error)
}

func NewService(repo Repository, catalog EventCatalog, qr QRGenerator) Service {
	return &service{
		repo:            repo,
		catalog:         catalog,
		qr:              qr,
		log:             logger.GetDefault(),
		newTicketNumber: GenerateTicketNumber,
	}
}

// allocateNumber draws a ticket number that is neither persisted nor
// already handed out in the current batch. Batch tickets are inserted
// together, so NumberExists alone cannot see them.
func (s *service) allocateNumber(ctx context.Context, taken map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.newTicketNumber()
		if err != nil {
			return "", err
		}
		if _, dup := taken[number]; dup {
			continue
		}

		exists, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			taken[number] = struct{}{}
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique ticket number")
}

func (s *service) IssueForBooking(ctx context.Context, booking *bookings.Booking) ([]TicketResponse, error) {
	if booking.Status != bookings.StatusConfirmed {
		return nil, ErrBookingNotConfirmed
	}

	existing, err := s.repo.GetByBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tickets: %w", err)
	}
	if len(existing) > 0 {
		return toResponses(existing), nil
	}

	now := time.Now().UTC()
	var ticketsToCreate []Ticket
	taken := make(map[string]struct{})

	for _, item := range booking.Items {
		for i := 0; i < item.Quantity; i++ {
			number, err := s.allocateNumber(ctx, taken)
			if err != nil {
				return nil, err
			}

			ticket := Ticket{
				TicketNumber:   number,
				BookingID:      booking.ID,
				BookingItemID:  item.ID,
				EventID:        booking.EventID,
				TicketTypeID:   item.TicketTypeID,
				TicketTypeName: item.TicketTypeName,
				UserID:         booking.UserID,
				Status:         StatusActive,
				IssuedAt:       now,
			}

			data, err := json.Marshal(buildPayload(&ticket))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal QR payload: %w", err)
			}
			ticket.QRCodeData = string(data)

			ticketsToCreate = append(ticketsToCreate, ticket)
		}
	}

	if err := s.repo.CreateBatch(ctx, ticketsToCreate); err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	// QR rendering failures do not void the tickets; the numbers alone
	// are enough to admit the customer.
	for i := range ticketsToCreate {
		ticket := &ticketsToCreate[i]
		path, err := s.qr.Generate(ticket)
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to render ticket QR code", err, map[string]interface{}{
				"ticket_number": ticket.TicketNumber,
			})
			continue
		}
		ticket.QRCodePath = path
		if err := s.repo.UpdateQRCodePath(ctx, ticket.ID, path); err != nil {
			s.log.ErrorWithContext(ctx, "failed to store QR code path", err, map[string]interface{}{
				"ticket_number": ticket.TicketNumber,
			})
		}
	}

	s.log.LogTicketsIssued(ctx, booking.BookingNumber, len(ticketsToCreate))
	return toResponses(ticketsToCreate), nil
}

func (s *service) GetBookingTickets(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]TicketResponse, error) {
	ticketsList, err := s.repo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if len(ticketsList) > 0 && !isAdmin && ticketsList[0].UserID != userID {
		return nil, ErrNotTicketOwner
	}

	return toResponses(ticketsList), nil
}

func (s *service) GetMyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error) {
	ticketsList, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(ticketsList), nil
}

// ValidateTicket answers the gate scanner: the ticket must exist, belong
// to the scanned event, still be active, and the event must not be in the
// past. Invalid outcomes are results, not errors.
func (s *service) ValidateTicket(ctx context.Context, req ValidateTicketRequest) (*ValidationResult, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}

	ticket, err := s.repo.GetByNumber(ctx, req.TicketNumber)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return &ValidationResult{
				Valid:        false,
				Reason:       "ticket not found",
				TicketNumber: req.TicketNumber,
			}, nil
		}
		return nil, err
	}

	result := &ValidationResult{
		TicketNumber: ticket.TicketNumber,
		Status:       ticket.Status,
	}

	if ticket.EventID != eventID {
		result.Reason = "ticket is for a different event"
		return result, nil
	}

	if ticket.Status != StatusActive {
		result.Reason = fmt.Sprintf("ticket is %s", ticket.Status)
		return result, nil
	}

	event, err := s.catalog.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if event.Date.Before(today) {
		result.Reason = "event has already taken place"
		return result, nil
	}

	result.Valid = true
	return result, nil
}

func (s *service) MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*TicketResponse, error) {
	ticket, err := s.repo.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	if ticket.Status != StatusActive {
		return nil, ErrTicketNotActive
	}

	used, err := s.repo.MarkUsed(ctx, ticketNumber, usedBy)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			// lost the race to another scanner
			return nil, ErrTicketNotActive
		}
		return nil, err
	}

	response := used.ToResponse()
	return &response, nil
}

func (s *service) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]TicketResponse, error) {
	ticketsList, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return toResponses(ticketsList), nil
}

func (s *service) CancelTicket(ctx context.Context, ticketNumber string) (*TicketResponse, error) {
	return s.transition(ctx, ticketNumber, StatusCancelled)
}

func (s *service) ExpireTicket(ctx context.Context, ticketNumber string) (*TicketResponse, error) {
	return s.transition(ctx, ticketNumber, StatusExpired)
}

// transition retires an active ticket. Used tickets stay USED so the
// attendance record survives administrative cleanup.
func (s *service) transition(ctx context.Context, ticketNumber string, to Status) (*TicketResponse, error) {
	ticket, err := s.repo.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if ticket.Status != StatusActive {
		return nil, ErrTicketNotActive
	}

	updated, err := s.repo.Transition(ctx, ticketNumber, StatusActive, to)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil, ErrTicketNotActive
		}
		return nil, err
	}

	response := updated.ToResponse()
	return &response, nil
}

func toResponses(ticketsList []Ticket) []TicketResponse {
	responses := make([]TicketResponse, len(ticketsList))
	for i := range ticketsList {
		responses[i] = ticketsList[i].ToResponse()
	}
	return responses
}
