package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"starevents/internal/events"
	"starevents/internal/notifications"
	"starevents/internal/shared/constants"
	"starevents/internal/users"
	"starevents/pkg/cache"
	"starevents/pkg/logger"

	"github.com/google/uuid"
)

const maxNumberAttempts = 5

// EventCatalog is the slice of the events service the booking flow needs.
type EventCatalog interface {
	Bookable(eventID uuid.UUID) (*events.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

// UserDirectory resolves users for ownership checks and notifications.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetPublisher(publisher notifications.Publisher)

	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingResponse, error)
	GetBookingByNumber(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingNumber string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetEventBookings(ctx context.Context, eventID, requesterID uuid.UUID, isAdmin bool) ([]BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) error
}

type service struct {
	repo         Repository
	catalog      EventCatalog
	userDir      UserDirectory
	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger

	newBookingNumber func() (string, error)
}

func NewService(repo Repository, catalog EventCatalog, userDir UserDirectory) Service {
	return &service{
		repo:             repo,
		catalog:          catalog,
		userDir:          userDir,
		log:              logger.GetDefault(),
		newBookingNumber: GenerateBookingNumber,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

func (s *service) invalidateBookingCaches(ctx context.Context, eventID, userID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.BuildAvailabilityKey(eventID.String()))
	_ = s.cacheService.Delete(ctx, constants.BuildUserBookingsKey(userID.String()))
}

// pruneSelection drops cart lines the event cannot sell: zero and
// negative quantities, malformed ids, and ticket types that do not belong
// to the event. The remaining items come back in ticket-type order, so
// concurrent bookings always lock pools in the same sequence.
func pruneSelection(cart map[string]int, ticketTypes []events.TicketType) ([]BookingItem, error) {
	valid := make(map[uuid.UUID]bool, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		valid[ticketType.ID] = true
	}

	items := make([]BookingItem, 0, len(cart))
	for idStr, qty := range cart {
		if qty <= 0 {
			continue
		}
		ticketTypeID, err := uuid.Parse(idStr)
		if err != nil || !valid[ticketTypeID] {
			continue
		}
		items = append(items, BookingItem{
			TicketTypeID: ticketTypeID,
			Quantity:     qty,
		})
	}

	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].TicketTypeID.String() < items[j].TicketTypeID.String()
	})

	return items, nil
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}

	event, err := s.catalog.Bookable(eventID)
	if err != nil {
		return nil, err
	}

	items, err := pruneSelection(req.Tickets, event.TicketTypes)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		UserID:      userID,
		EventID:     eventID,
		BookingDate: time.Now().UTC(),
		Items:       items,
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.newBookingNumber()
		if err != nil {
			return nil, err
		}
		booking.BookingNumber = number

		err = s.repo.CreateWithReservation(ctx, booking)
		if err == nil {
			break
		}
		if errors.Is(err, ErrDuplicateBookingNumber) {
			continue
		}

		var insufficientErr *events.InsufficientInventoryError
		if errors.As(err, &insufficientErr) ||
			errors.Is(err, events.ErrTicketTypeNotFound) ||
			errors.Is(err, ErrTicketTypeMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	if booking.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: could not allocate a unique booking number", ErrTransactionFailed)
	}

	s.invalidateBookingCaches(ctx, eventID, userID)
	s.log.LogBookingCreated(ctx, booking.BookingNumber, eventID.String(), userID.String())

	response := booking.ToResponse()
	return &response, nil
}

func (s *service) GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	response := booking.ToResponse()
	return &response, nil
}

func (s *service) GetBookingByNumber(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingNumber string) (*BookingResponse, error) {
	booking, err := s.repo.GetByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	response := booking.ToResponse()
	return &response, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	bookingsList, totalCount, err := s.repo.GetByUserID(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	responses := make([]BookingResponse, len(bookingsList))
	for i := range bookingsList {
		responses[i] = bookingsList[i].ToResponse()
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
	}, nil
}

func (s *service) GetEventBookings(ctx context.Context, eventID, requesterID uuid.UUID, isAdmin bool) ([]BookingResponse, error) {
	if !isAdmin {
		event, err := s.catalog.GetEventByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event.ManagerID != requesterID.String() {
			return nil, events.ErrNotEventOwner
		}
	}

	bookingsList, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event bookings: %w", err)
	}

	responses := make([]BookingResponse, len(bookingsList))
	for i := range bookingsList {
		responses[i] = bookingsList[i].ToResponse()
	}
	return responses, nil
}

func (s *service) CancelBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !isAdmin && booking.UserID != userID {
		return ErrNotBookingOwner
	}

	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}

	// A confirmed booking can only be cancelled while the event is still
	// ahead; afterwards the tickets are spent whether or not they were used.
	if booking.Status == StatusConfirmed {
		event, err := s.catalog.GetEventByID(ctx, booking.EventID)
		if err != nil {
			return err
		}
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if event.Date.Before(today) {
			return ErrEventAlreadyHeld
		}
	}

	if err := s.repo.CancelWithRelease(ctx, bookingID); err != nil {
		return err
	}

	s.invalidateBookingCaches(ctx, booking.EventID, booking.UserID)
	s.log.LogBookingCancelled(ctx, booking.BookingNumber, booking.EventID.String(), booking.UserID.String())

	s.notifyCancelled(ctx, booking)
	return nil
}

func (s *service) notifyCancelled(ctx context.Context, booking *Booking) {
	if s.publisher == nil {
		return
	}

	user, err := s.userDir.GetByID(ctx, booking.UserID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to resolve user for cancellation notice", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
		return
	}

	notification := notifications.Notification{
		Type:      notifications.TypeBookingCancelled,
		Recipient: user.Email,
		Data: map[string]interface{}{
			"user_name":      user.FullName(),
			"booking_number": booking.BookingNumber,
			"total_amount":   booking.TotalAmount,
		},
	}

	if err := s.publisher.Publish(ctx, notification); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish cancellation notice", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
	}
}
