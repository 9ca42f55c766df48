package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"starevents/internal/bookings"
	"starevents/internal/tickets"
	"starevents/internal/users"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, payment *Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockRepository) SettleBooking(ctx context.Context, bookingID uuid.UUID, transactionID string) error {
	args := m.Called(ctx, bookingID, transactionID)
	return args.Error(0)
}

func (m *MockRepository) FailPending(ctx context.Context, bookingID uuid.UUID, reason string) (int64, error) {
	args := m.Called(ctx, bookingID, reason)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateWithReservation(ctx context.Context, booking *bookings.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByNumber(ctx context.Context, bookingNumber string) (*bookings.Booking, error) {
	args := m.Called(ctx, bookingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID uuid.UUID, query bookings.BookingListQuery) ([]bookings.Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]bookings.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]bookings.Booking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookings.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelWithRelease(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status bookings.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) IssueForBooking(ctx context.Context, booking *bookings.Booking) ([]tickets.TicketResponse, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) GetBookingTickets(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]tickets.TicketResponse, error) {
	args := m.Called(ctx, userID, isAdmin, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) GetMyTickets(ctx context.Context, userID uuid.UUID) ([]tickets.TicketResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) ValidateTicket(ctx context.Context, req tickets.ValidateTicketRequest) (*tickets.ValidationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.ValidationResult), args.Error(1)
}

func (m *MockTicketService) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]tickets.TicketResponse, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) MarkUsed(ctx context.Context, ticketNumber string, usedBy string) (*tickets.TicketResponse, error) {
	args := m.Called(ctx, ticketNumber, usedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) CancelTicket(ctx context.Context, ticketNumber string) (*tickets.TicketResponse, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketResponse), args.Error(1)
}

func (m *MockTicketService) ExpireTicket(ctx context.Context, ticketNumber string) (*tickets.TicketResponse, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketResponse), args.Error(1)
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

type StubGateway struct {
	mock.Mock
}

func (m *StubGateway) Name() string {
	return "mock"
}

func (m *StubGateway) CreateCheckoutSession(ctx context.Context, booking *bookings.Booking) (*CheckoutSession, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

type paymentTestDeps struct {
	repo        *MockRepository
	bookingRepo *MockBookingRepository
	ticketSvc   *MockTicketService
	gateway     *StubGateway
}

func newPaymentTestService() (Service, *paymentTestDeps) {
	deps := &paymentTestDeps{
		repo:        new(MockRepository),
		bookingRepo: new(MockBookingRepository),
		ticketSvc:   new(MockTicketService),
		gateway:     new(StubGateway),
	}
	svc := NewService(deps.repo, deps.bookingRepo, deps.ticketSvc, new(MockUserDirectory), deps.gateway, "lkr")
	return svc, deps
}

func pendingBooking(userID uuid.UUID) *bookings.Booking {
	return &bookings.Booking{
		ID:            uuid.New(),
		BookingNumber: "BK-TEST",
		UserID:        userID,
		EventID:       uuid.New(),
		Status:        bookings.StatusPending,
		TotalAmount:   9000,
		FinalAmount:   9000,
	}
}

func TestCheckoutCreatesPendingPayment(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	deps.gateway.On("CreateCheckoutSession", mock.Anything, booking).Return(&CheckoutSession{
		SessionID:   "cs_test_123",
		CheckoutURL: "https://checkout.example/cs_test_123",
	}, nil)

	var created *Payment
	deps.repo.On("Create", mock.Anything, mock.AnythingOfType("*payments.Payment")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*Payment)
		}).
		Return(nil)

	resp, err := svc.Checkout(context.Background(), userID, false, booking.ID)

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_test_123", resp.CheckoutURL)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, booking.FinalAmount, created.Amount)
	assert.Equal(t, "cs_test_123", created.TransactionID)
}

func TestCheckoutRejectsForeignBooking(t *testing.T) {
	svc, deps := newPaymentTestService()
	booking := pendingBooking(uuid.New())

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), false, booking.ID)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
	deps.gateway.AssertNotCalled(t, "CreateCheckoutSession")
}

func TestConfirmPaymentSettlesAndIssuesTickets(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	deps.repo.On("SettleBooking", mock.Anything, booking.ID, "cs_test_123").Return(nil)
	deps.ticketSvc.On("IssueForBooking", mock.Anything, mock.MatchedBy(func(b *bookings.Booking) bool {
		return b.Status == bookings.StatusConfirmed
	})).Return([]tickets.TicketResponse{{TicketNumber: "TK1"}, {TicketNumber: "TK2"}}, nil)

	resp, err := svc.ConfirmPayment(context.Background(), userID, false, booking.ID, "cs_test_123")

	assert.NoError(t, err)
	assert.Equal(t, string(bookings.StatusConfirmed), resp.BookingStatus)
	assert.False(t, resp.TicketsPending)
	assert.NotNil(t, resp.Tickets)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.Status = bookings.StatusConfirmed

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	deps.ticketSvc.On("IssueForBooking", mock.Anything, booking).
		Return([]tickets.TicketResponse{{TicketNumber: "TK1"}}, nil)

	resp, err := svc.ConfirmPayment(context.Background(), userID, false, booking.ID, "")

	assert.NoError(t, err)
	assert.Equal(t, string(bookings.StatusConfirmed), resp.BookingStatus)
	deps.repo.AssertNotCalled(t, "SettleBooking")
}

func TestConfirmPaymentDegradedSuccessWhenIssuanceFails(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	deps.repo.On("SettleBooking", mock.Anything, booking.ID, "ref").Return(nil)
	deps.ticketSvc.On("IssueForBooking", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	resp, err := svc.ConfirmPayment(context.Background(), userID, false, booking.ID, "ref")

	assert.NoError(t, err, "a lost ticket batch must not fail the settlement")
	assert.True(t, resp.TicketsPending)
	assert.Equal(t, string(bookings.StatusConfirmed), resp.BookingStatus)
	assert.Nil(t, resp.Tickets)
}

func TestConfirmPaymentRejectsCancelledBooking(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)
	booking.Status = bookings.StatusCancelled

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.ConfirmPayment(context.Background(), userID, false, booking.ID, "ref")

	assert.ErrorIs(t, err, ErrBookingCancelled)
	deps.repo.AssertNotCalled(t, "SettleBooking")
}

func TestConfirmPaymentLostRaceFallsBackToIdempotentPath(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)

	confirmed := *booking
	confirmed.Status = bookings.StatusConfirmed

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil).Once()
	deps.repo.On("SettleBooking", mock.Anything, booking.ID, "ref").Return(ErrNothingToSettle)
	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(&confirmed, nil).Once()
	deps.ticketSvc.On("IssueForBooking", mock.Anything, &confirmed).
		Return([]tickets.TicketResponse{{TicketNumber: "TK1"}}, nil)

	resp, err := svc.ConfirmPayment(context.Background(), userID, false, booking.ID, "ref")

	assert.NoError(t, err)
	assert.Equal(t, string(bookings.StatusConfirmed), resp.BookingStatus)
}

func TestFailPaymentLeavesBookingPending(t *testing.T) {
	svc, deps := newPaymentTestService()
	userID := uuid.New()
	booking := pendingBooking(userID)

	deps.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	deps.repo.On("FailPending", mock.Anything, booking.ID, "card declined").Return(int64(1), nil)

	err := svc.FailPayment(context.Background(), userID, false, booking.ID, "card declined")

	assert.NoError(t, err)
	deps.bookingRepo.AssertNotCalled(t, "UpdateStatus")
	deps.repo.AssertExpectations(t)
}
