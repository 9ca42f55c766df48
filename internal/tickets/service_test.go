package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"starevents/internal/bookings"
	"starevents/internal/events"
	"starevents/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBatch(ctx context.Context, tickets []Ticket) error {
	args := m.Called(ctx, tickets)
	return args.Error(0)
}

func (m *MockRepository) GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func (m *MockRepository) GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockRepository) NumberExists(ctx context.Context, ticketNumber string) (bool, error) {
	args := m.Called(ctx, ticketNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockRepository) MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*Ticket, error) {
	args := m.Called(ctx, ticketNumber, usedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func (m *MockRepository) Transition(ctx context.Context, ticketNumber string, from, to Status) (*Ticket, error) {
	args := m.Called(ctx, ticketNumber, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func (m *MockRepository) UpdateQRCodePath(ctx context.Context, id uuid.UUID, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventResponse), args.Error(1)
}

type MockQRGenerator struct {
	mock.Mock
}

func (m *MockQRGenerator) Generate(ticket *Ticket) (string, error) {
	args := m.Called(ticket)
	return args.String(0), args.Error(1)
}

func (m *MockQRGenerator) Encode(ticket *Ticket) ([]byte, error) {
	args := m.Called(ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestService(repo Repository, catalog EventCatalog, qr QRGenerator) *service {
	return &service{
		repo:            repo,
		catalog:         catalog,
		qr:              qr,
		log:             logger.GetDefault(),
		newTicketNumber: GenerateTicketNumber,
	}
}

func confirmedBooking() *bookings.Booking {
	vip := uuid.New()
	regular := uuid.New()
	return &bookings.Booking{
		ID:            uuid.New(),
		BookingNumber: "BK-TEST",
		UserID:        uuid.New(),
		EventID:       uuid.New(),
		Status:        bookings.StatusConfirmed,
		Items: []bookings.BookingItem{
			{TicketTypeID: vip, TicketTypeName: "VIP", Quantity: 2, UnitPrice: 100},
			{TicketTypeID: regular, TicketTypeName: "Regular", Quantity: 3, UnitPrice: 40},
		},
	}
}

func TestIssueForBookingCountMatchesQuantities(t *testing.T) {
	repo := new(MockRepository)
	qr := new(MockQRGenerator)
	svc := newTestService(repo, new(MockCatalog), qr)

	booking := confirmedBooking()

	repo.On("GetByBooking", mock.Anything, booking.ID).Return([]Ticket{}, nil)
	repo.On("NumberExists", mock.Anything, mock.Anything).Return(false, nil)

	var created []Ticket
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]tickets.Ticket")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).([]Ticket)
		}).
		Return(nil)
	qr.On("Generate", mock.Anything).Return("qr/path.png", nil)
	repo.On("UpdateQRCodePath", mock.Anything, mock.Anything, "qr/path.png").Return(nil)

	issued, err := svc.IssueForBooking(context.Background(), booking)

	assert.NoError(t, err)
	assert.Len(t, issued, 5)
	assert.Len(t, created, 5)

	numbers := make(map[string]bool)
	for _, ticket := range created {
		numbers[ticket.TicketNumber] = true
		assert.Equal(t, StatusActive, ticket.Status)
		assert.Equal(t, booking.UserID, ticket.UserID)
	}
	assert.Len(t, numbers, 5, "ticket numbers must be distinct")
}

func TestIssueForBookingIsIdempotent(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	booking := confirmedBooking()
	existing := []Ticket{
		{TicketNumber: "TK-EXISTING-1", BookingID: booking.ID, Status: StatusActive},
		{TicketNumber: "TK-EXISTING-2", BookingID: booking.ID, Status: StatusActive},
	}
	repo.On("GetByBooking", mock.Anything, booking.ID).Return(existing, nil)

	issued, err := svc.IssueForBooking(context.Background(), booking)

	assert.NoError(t, err)
	assert.Len(t, issued, 2)
	assert.Equal(t, "TK-EXISTING-1", issued[0].TicketNumber)
	repo.AssertNotCalled(t, "CreateBatch")
}

func TestIssueForBookingRequiresConfirmedBooking(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	booking := confirmedBooking()
	booking.Status = bookings.StatusPending

	_, err := svc.IssueForBooking(context.Background(), booking)

	assert.ErrorIs(t, err, ErrBookingNotConfirmed)
	repo.AssertNotCalled(t, "GetByBooking")
}

func TestIssueForBookingSurvivesQRFailure(t *testing.T) {
	repo := new(MockRepository)
	qr := new(MockQRGenerator)
	svc := newTestService(repo, new(MockCatalog), qr)

	booking := confirmedBooking()
	booking.Items = booking.Items[:1]
	booking.Items[0].Quantity = 1

	repo.On("GetByBooking", mock.Anything, booking.ID).Return([]Ticket{}, nil)
	repo.On("NumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	qr.On("Generate", mock.Anything).Return("", assert.AnError)

	issued, err := svc.IssueForBooking(context.Background(), booking)

	assert.NoError(t, err)
	assert.Len(t, issued, 1)
	repo.AssertNotCalled(t, "UpdateQRCodePath")
}

func TestAllocateNumberRetriesOnCollision(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	seq := 0
	svc.newTicketNumber = func() (string, error) {
		seq++
		if seq == 1 {
			return "TK-TAKEN", nil
		}
		return "TK-FREE", nil
	}

	repo.On("NumberExists", mock.Anything, "TK-TAKEN").Return(true, nil).Once()
	repo.On("NumberExists", mock.Anything, "TK-FREE").Return(false, nil).Once()

	number, err := svc.allocateNumber(context.Background(), map[string]struct{}{})

	assert.NoError(t, err)
	assert.Equal(t, "TK-FREE", number)
}

func TestAllocateNumberSkipsNumbersDrawnInSameBatch(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	// The generator repeats itself before producing a fresh number.
	draws := []string{"TK-A", "TK-A", "TK-B"}
	seq := 0
	svc.newTicketNumber = func() (string, error) {
		number := draws[seq]
		seq++
		return number, nil
	}

	repo.On("NumberExists", mock.Anything, mock.Anything).Return(false, nil)

	taken := map[string]struct{}{}
	first, err := svc.allocateNumber(context.Background(), taken)
	assert.NoError(t, err)
	second, err := svc.allocateNumber(context.Background(), taken)
	assert.NoError(t, err)

	assert.Equal(t, "TK-A", first)
	assert.Equal(t, "TK-B", second)
}

func TestValidateTicket(t *testing.T) {
	eventID := uuid.New()
	otherEventID := uuid.New()
	futureEvent := &events.EventResponse{
		ID:   eventID.String(),
		Date: time.Now().UTC().AddDate(0, 0, 3),
	}

	tests := []struct {
		name       string
		ticket     *Ticket
		ticketErr  error
		event      *events.EventResponse
		wantValid  bool
		wantReason string
	}{
		{
			name:       "unknown ticket",
			ticketErr:  ErrTicketNotFound,
			wantValid:  false,
			wantReason: "ticket not found",
		},
		{
			name:       "wrong event",
			ticket:     &Ticket{TicketNumber: "TK1", EventID: otherEventID, Status: StatusActive},
			wantValid:  false,
			wantReason: "ticket is for a different event",
		},
		{
			name:       "already used",
			ticket:     &Ticket{TicketNumber: "TK1", EventID: eventID, Status: StatusUsed},
			wantValid:  false,
			wantReason: "ticket is USED",
		},
		{
			name:       "cancelled",
			ticket:     &Ticket{TicketNumber: "TK1", EventID: eventID, Status: StatusCancelled},
			wantValid:  false,
			wantReason: "ticket is CANCELLED",
		},
		{
			name:      "active for upcoming event",
			ticket:    &Ticket{TicketNumber: "TK1", EventID: eventID, Status: StatusActive},
			event:     futureEvent,
			wantValid: true,
		},
		{
			name:   "active but event passed",
			ticket: &Ticket{TicketNumber: "TK1", EventID: eventID, Status: StatusActive},
			event: &events.EventResponse{
				ID:   eventID.String(),
				Date: time.Now().UTC().AddDate(0, 0, -2),
			},
			wantValid:  false,
			wantReason: "event has already taken place",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			catalog := new(MockCatalog)
			svc := newTestService(repo, catalog, new(MockQRGenerator))

			if tt.ticketErr != nil {
				repo.On("GetByNumber", mock.Anything, "TK1").Return(nil, tt.ticketErr)
			} else {
				repo.On("GetByNumber", mock.Anything, "TK1").Return(tt.ticket, nil)
			}
			if tt.event != nil {
				catalog.On("GetEventByID", mock.Anything, eventID).Return(tt.event, nil)
			}

			result, err := svc.ValidateTicket(context.Background(), ValidateTicketRequest{
				TicketNumber: "TK1",
				EventID:      eventID.String(),
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, result.Reason)
			}
		})
	}
}

func TestMarkUsedRejectsInactiveTicket(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	repo.On("GetByNumber", mock.Anything, "TK-USED").Return(&Ticket{
		TicketNumber: "TK-USED",
		Status:       StatusUsed,
	}, nil)

	_, err := svc.MarkUsed(context.Background(), "TK-USED", "gate@starevents.lk")

	assert.ErrorIs(t, err, ErrTicketNotActive)
	repo.AssertNotCalled(t, "MarkUsed")
}

func TestMarkUsedLosesRaceToAnotherScanner(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	repo.On("GetByNumber", mock.Anything, "TK1").Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusActive,
	}, nil)
	repo.On("MarkUsed", mock.Anything, "TK1", "gate@starevents.lk").Return(nil, ErrTicketNotFound)

	_, err := svc.MarkUsed(context.Background(), "TK1", "gate@starevents.lk")

	assert.ErrorIs(t, err, ErrTicketNotActive)
}

func TestMarkUsedSetsUsedStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	now := time.Now()
	repo.On("GetByNumber", mock.Anything, "TK1").Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusActive,
	}, nil)
	repo.On("MarkUsed", mock.Anything, "TK1", "gate@starevents.lk").Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusUsed,
		UsedAt:       &now,
		UsedBy:       "gate@starevents.lk",
	}, nil)

	resp, err := svc.MarkUsed(context.Background(), "TK1", "gate@starevents.lk")

	assert.NoError(t, err)
	assert.Equal(t, StatusUsed, resp.Status)
	assert.NotNil(t, resp.UsedAt)
	assert.Equal(t, "gate@starevents.lk", resp.UsedBy)
}

func TestCancelTicketGuardsOnActive(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	repo.On("GetByNumber", mock.Anything, "TK1").Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusActive,
	}, nil)
	repo.On("Transition", mock.Anything, "TK1", StatusActive, StatusCancelled).Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusCancelled,
	}, nil)

	resp, err := svc.CancelTicket(context.Background(), "TK1")

	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
}

func TestExpireTicketRejectsUsedTicket(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockCatalog), new(MockQRGenerator))

	repo.On("GetByNumber", mock.Anything, "TK1").Return(&Ticket{
		TicketNumber: "TK1",
		Status:       StatusUsed,
	}, nil)

	_, err := svc.ExpireTicket(context.Background(), "TK1")

	assert.ErrorIs(t, err, ErrTicketNotActive)
	repo.AssertNotCalled(t, "Transition")
}
