package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"starevents/internal/bookings"
	"starevents/internal/notifications"
	"starevents/internal/shared/constants"
	"starevents/internal/tickets"
	"starevents/internal/users"
	"starevents/pkg/cache"
	"starevents/pkg/logger"
)

var (
	ErrNotBookingOwner    = errors.New("booking does not belong to this user")
	ErrBookingNotPending  = errors.New("booking is not pending payment")
	ErrBookingCancelled   = errors.New("booking has been cancelled")
	ErrCheckoutFailed     = errors.New("failed to create checkout session")
	ErrConfirmationFailed = errors.New("failed to confirm payment")
)

// UserDirectory resolves users for notification recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetPublisher(publisher notifications.Publisher)

	// Checkout opens a gateway checkout session for a pending booking and
	// records a PENDING payment referencing it.
	Checkout(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*CheckoutResponse, error)

	// ConfirmPayment settles a booking after the gateway reports success.
	// Confirming an already confirmed booking is a no-op that returns the
	// issued tickets.
	ConfirmPayment(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID, gatewayRef string) (*ConfirmationResponse, error)

	// FailPayment marks the booking's pending payments as failed. The
	// booking itself stays PENDING so the customer can retry checkout.
	FailPayment(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID, reason string) error

	GetBookingPayments(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]PaymentResponse, error)
}

type service struct {
	repo         Repository
	bookingRepo  bookings.Repository
	ticketSvc    tickets.Service
	userDir      UserDirectory
	gateway      Gateway
	currency     string
	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger
}

func NewService(repo Repository, bookingRepo bookings.Repository, ticketSvc tickets.Service, userDir UserDirectory, gateway Gateway, currency string) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		ticketSvc:   ticketSvc,
		userDir:     userDir,
		gateway:     gateway,
		currency:    currency,
		log:         logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*CheckoutResponse, error) {
	booking, err := s.ownedBooking(ctx, userID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsCancelled() {
		return nil, ErrBookingCancelled
	}
	if !booking.IsPending() {
		return nil, ErrBookingNotPending
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, booking)
	if err != nil {
		s.log.ErrorWithContext(ctx, "checkout session creation failed", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
			"gateway":        s.gateway.Name(),
		})
		return nil, ErrCheckoutFailed
	}

	payment := &Payment{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Amount:        booking.FinalAmount,
		Currency:      s.currency,
		Gateway:       s.gateway.Name(),
		Status:        StatusPending,
		TransactionID: session.SessionID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		Payment:     payment.ToResponse(),
		CheckoutURL: session.CheckoutURL,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID, gatewayRef string) (*ConfirmationResponse, error) {
	booking, err := s.ownedBooking(ctx, userID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsCancelled() {
		return nil, ErrBookingCancelled
	}

	if booking.Status == bookings.StatusConfirmed {
		// Already settled; reissuing is idempotent and returns the
		// existing tickets.
		issued, issueErr := s.ticketSvc.IssueForBooking(ctx, booking)
		return s.confirmationResponse(booking, issued, issueErr), nil
	}

	if err := s.repo.SettleBooking(ctx, booking.ID, gatewayRef); err != nil {
		if errors.Is(err, ErrNothingToSettle) {
			// Lost the race to a concurrent confirmation. Re-read and
			// fall through to the idempotent path.
			booking, err = s.bookingRepo.GetByID(ctx, bookingID)
			if err != nil {
				return nil, err
			}
			if booking.Status != bookings.StatusConfirmed {
				return nil, ErrBookingNotPending
			}
			issued, issueErr := s.ticketSvc.IssueForBooking(ctx, booking)
			return s.confirmationResponse(booking, issued, issueErr), nil
		}
		s.log.ErrorWithContext(ctx, "booking settlement failed", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
		return nil, ErrConfirmationFailed
	}

	booking.Status = bookings.StatusConfirmed
	now := time.Now().UTC()
	booking.PaymentDate = &now
	s.log.LogPaymentConfirmed(ctx, booking.BookingNumber, gatewayRef, booking.FinalAmount)
	s.invalidateBookingCaches(ctx, booking)

	// The payment has settled; a ticket issuance failure must not undo it.
	// The response flags the gap and a retried confirmation issues them.
	issued, issueErr := s.ticketSvc.IssueForBooking(ctx, booking)
	if issueErr != nil {
		s.log.LogTicketIssuanceFailed(ctx, booking.BookingNumber, issueErr)
	}

	s.notifyConfirmed(ctx, booking, len(issued))

	return s.confirmationResponse(booking, issued, issueErr), nil
}

func (s *service) FailPayment(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID, reason string) error {
	booking, err := s.ownedBooking(ctx, userID, isAdmin, bookingID)
	if err != nil {
		return err
	}

	if booking.IsCancelled() {
		return ErrBookingCancelled
	}
	if !booking.IsPending() {
		return ErrBookingNotPending
	}

	failed, err := s.repo.FailPending(ctx, booking.ID, reason)
	if err != nil {
		return err
	}

	s.log.InfoWithContext(ctx, "payment marked as failed", map[string]interface{}{
		"booking_number":  booking.BookingNumber,
		"payments_failed": failed,
		"reason":          reason,
	})
	return nil
}

func (s *service) GetBookingPayments(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]PaymentResponse, error) {
	booking, err := s.ownedBooking(ctx, userID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}

	paymentsList, err := s.repo.GetByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(paymentsList))
	for i := range paymentsList {
		responses = append(responses, paymentsList[i].ToResponse())
	}
	return responses, nil
}

func (s *service) ownedBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*bookings.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *service) confirmationResponse(booking *bookings.Booking, issued []tickets.TicketResponse, issueErr error) *ConfirmationResponse {
	resp := &ConfirmationResponse{
		BookingID:     booking.ID.String(),
		BookingNumber: booking.BookingNumber,
		BookingStatus: string(booking.Status),
	}
	if issueErr != nil {
		resp.TicketsPending = true
		return resp
	}
	resp.Tickets = issued
	return resp
}

func (s *service) invalidateBookingCaches(ctx context.Context, booking *bookings.Booking) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildUserBookingsKey(booking.UserID.String())); err != nil {
		s.log.DebugWithContext(ctx, "cache invalidation failed", map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
	}
}

func (s *service) notifyConfirmed(ctx context.Context, booking *bookings.Booking, ticketCount int) {
	if s.publisher == nil {
		return
	}

	user, err := s.userDir.GetByID(ctx, booking.UserID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to resolve user for confirmation notice", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
		return
	}

	confirmed := notifications.Notification{
		Type:      notifications.TypeBookingConfirmed,
		Recipient: user.Email,
		Data: map[string]interface{}{
			"user_name":      user.FullName(),
			"booking_number": booking.BookingNumber,
			"total_amount":   booking.FinalAmount,
		},
	}
	if err := s.publisher.Publish(ctx, confirmed); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish confirmation notice", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
	}

	if ticketCount == 0 {
		return
	}

	issuedNotice := notifications.Notification{
		Type:      notifications.TypeTicketsIssued,
		Recipient: user.Email,
		Data: map[string]interface{}{
			"user_name":      user.FullName(),
			"booking_number": booking.BookingNumber,
			"ticket_count":   ticketCount,
		},
	}
	if err := s.publisher.Publish(ctx, issuedNotice); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish ticket issuance notice", err, map[string]interface{}{
			"booking_number": booking.BookingNumber,
		})
	}
}
