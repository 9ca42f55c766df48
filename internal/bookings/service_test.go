package bookings

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"starevents/internal/events"
	"starevents/internal/users"
	"starevents/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWithReservation(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByNumber(ctx context.Context, bookingNumber string) (*Booking, error) {
	args := m.Called(ctx, bookingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) CancelWithRelease(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Bookable(eventID uuid.UUID) (*events.Event, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *MockCatalog) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventResponse), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func newTestService(repo Repository, catalog EventCatalog) *service {
	return &service{
		repo:             repo,
		catalog:          catalog,
		userDir:          new(MockUserDirectory),
		log:              logger.GetDefault(),
		newBookingNumber: GenerateBookingNumber,
	}
}

func publishedEvent(id uuid.UUID, ticketTypeIDs ...uuid.UUID) *events.Event {
	ticketTypes := make([]events.TicketType, len(ticketTypeIDs))
	for i, ttID := range ticketTypeIDs {
		ticketTypes[i] = events.TicketType{ID: ttID, EventID: id}
	}
	return &events.Event{
		ID:          id,
		Status:      events.StatusPublished,
		Date:        time.Now().UTC().AddDate(0, 0, 7),
		TicketTypes: ticketTypes,
	}
}

func TestCreateBookingDropsZeroQuantities(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	vipID := uuid.New()
	regularID := uuid.New()

	catalog.On("Bookable", eventID).Return(publishedEvent(eventID, vipID, regularID), nil)

	var captured *Booking
	repo.On("CreateWithReservation", mock.Anything, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*Booking)
			captured.ID = uuid.New()
		}).
		Return(nil)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{
			vipID.String():     2,
			regularID.String(): 0,
		},
	})

	assert.NoError(t, err)
	assert.Len(t, captured.Items, 1)
	assert.Equal(t, vipID, captured.Items[0].TicketTypeID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
}

func TestCreateBookingDropsForeignTicketTypes(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	vipID := uuid.New()
	regularID := uuid.New()
	otherEventTypeID := uuid.New()

	catalog.On("Bookable", eventID).Return(publishedEvent(eventID, vipID, regularID), nil)

	var captured *Booking
	repo.On("CreateWithReservation", mock.Anything, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*Booking)
			captured.ID = uuid.New()
		}).
		Return(nil)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{
			vipID.String():            2,
			regularID.String():        0,
			otherEventTypeID.String(): 5,
		},
	})

	assert.NoError(t, err)
	assert.Len(t, captured.Items, 1)
	assert.Equal(t, vipID, captured.Items[0].TicketTypeID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
}

func TestCreateBookingEmptySelection(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	catalog.On("Bookable", eventID).Return(publishedEvent(eventID), nil)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{uuid.New().String(): 0},
	})

	assert.ErrorIs(t, err, ErrEmptySelection)
	repo.AssertNotCalled(t, "CreateWithReservation")
}

func TestCreateBookingEventNotOnSale(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	catalog.On("Bookable", eventID).Return(nil, events.ErrEventNotOnSale)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{uuid.New().String(): 1},
	})

	assert.ErrorIs(t, err, events.ErrEventNotOnSale)
}

func TestCreateBookingInsufficientInventoryDetail(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	vipID := uuid.New()
	catalog.On("Bookable", eventID).Return(publishedEvent(eventID, vipID), nil)

	repo.On("CreateWithReservation", mock.Anything, mock.Anything).Return(&events.InsufficientInventoryError{
		TicketTypeID:   vipID,
		TicketTypeName: "VIP",
		Remaining:      1,
		Requested:      4,
	})

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{vipID.String(): 4},
	})

	var insufficientErr *events.InsufficientInventoryError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "VIP", insufficientErr.TicketTypeName)
	assert.Equal(t, 1, insufficientErr.Remaining)
	assert.Equal(t, 4, insufficientErr.Requested)
}

func TestCreateBookingRetriesOnNumberCollision(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	vipID := uuid.New()
	catalog.On("Bookable", eventID).Return(publishedEvent(eventID, vipID), nil)

	seq := 0
	svc.newBookingNumber = func() (string, error) {
		seq++
		return fmt.Sprintf("BK-TEST-%d", seq), nil
	}

	repo.On("CreateWithReservation", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.BookingNumber == "BK-TEST-1"
	})).Return(ErrDuplicateBookingNumber).Once()
	repo.On("CreateWithReservation", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.BookingNumber == "BK-TEST-2"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*Booking).ID = uuid.New()
	}).Return(nil).Once()

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{vipID.String(): 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, "BK-TEST-2", resp.BookingNumber)
	repo.AssertExpectations(t)
}

func TestCreateBookingExhaustsNumberAttempts(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	eventID := uuid.New()
	vipID := uuid.New()
	catalog.On("Bookable", eventID).Return(publishedEvent(eventID, vipID), nil)
	repo.On("CreateWithReservation", mock.Anything, mock.Anything).Return(ErrDuplicateBookingNumber)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: eventID.String(),
		Tickets: map[string]int{vipID.String(): 1},
	})

	assert.ErrorIs(t, err, ErrTransactionFailed)
	repo.AssertNumberOfCalls(t, "CreateWithReservation", maxNumberAttempts)
}

func TestPruneSelectionOrdersByTicketType(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	ticketTypes := []events.TicketType{{ID: a}, {ID: b}, {ID: c}}
	items, err := pruneSelection(map[string]int{
		c.String(): 1,
		a.String(): 2,
		b.String(): 3,
	}, ticketTypes)

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{
		items[0].TicketTypeID, items[1].TicketTypeID, items[2].TicketTypeID,
	})
}

func TestSnapshotItemPersistsLineTotal(t *testing.T) {
	booking := &Booking{
		Items: []BookingItem{
			{TicketTypeID: uuid.New(), Quantity: 3},
			{TicketTypeID: uuid.New(), Quantity: 2},
		},
	}

	snapshotItem(&booking.Items[0], &events.TicketType{Name: "VIP", Price: 1500})
	snapshotItem(&booking.Items[1], &events.TicketType{Name: "Regular", Price: 400})
	finalizeAmounts(booking)

	assert.Equal(t, 4500.0, booking.Items[0].TotalPrice)
	assert.Equal(t, 800.0, booking.Items[1].TotalPrice)
	assert.Equal(t, 5300.0, booking.TotalAmount)
	assert.Equal(t, 0.0, booking.DiscountAmount)
	assert.Equal(t, 5300.0, booking.FinalAmount)

	response := booking.ToResponse()
	assert.Equal(t, 4500.0, response.Items[0].TotalPrice)
	assert.Equal(t, 0.0, response.DiscountAmount)
	assert.Equal(t, 5300.0, response.FinalAmount)
}

func TestGenerateBookingNumberFormat(t *testing.T) {
	number, err := GenerateBookingNumber()

	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BK\d{14}\d{4}$`), number)
}

func TestCancelBookingNotOwner(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	owner := uuid.New()
	booking := &Booking{ID: uuid.New(), UserID: owner, Status: StatusPending}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := svc.CancelBooking(context.Background(), uuid.New(), false, booking.ID)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
	repo.AssertNotCalled(t, "CancelWithRelease")
}

func TestCancelBookingRejectsConfirmedAfterEvent(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	userID := uuid.New()
	booking := &Booking{ID: uuid.New(), UserID: userID, EventID: uuid.New(), Status: StatusConfirmed}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	catalog.On("GetEventByID", mock.Anything, booking.EventID).Return(&events.EventResponse{
		ID:   booking.EventID.String(),
		Date: time.Now().UTC().AddDate(0, 0, -2),
	}, nil)

	err := svc.CancelBooking(context.Background(), userID, false, booking.ID)

	assert.ErrorIs(t, err, ErrEventAlreadyHeld)
	repo.AssertNotCalled(t, "CancelWithRelease")
}

func TestCancelBookingAdminOverridesOwnership(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	booking := &Booking{ID: uuid.New(), UserID: uuid.New(), Status: StatusPending}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("CancelWithRelease", mock.Anything, booking.ID).Return(nil)

	err := svc.CancelBooking(context.Background(), uuid.New(), true, booking.ID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	repo := new(MockRepository)
	catalog := new(MockCatalog)
	svc := newTestService(repo, catalog)

	now := time.Now()
	booking := &Booking{ID: uuid.New(), UserID: uuid.New(), Status: StatusCancelled, CancelledAt: &now}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := svc.CancelBooking(context.Background(), booking.UserID, false, booking.ID)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	repo.AssertNotCalled(t, "CancelWithRelease")
}
