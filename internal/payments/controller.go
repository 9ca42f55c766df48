package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/bookings"
	"starevents/internal/shared/utils/response"
)

type Controller interface {
	Checkout(c *gin.Context)
	ConfirmPayment(c *gin.Context)
	FailPayment(c *gin.Context)
	GetBookingPayments(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func requestUser(c *gin.Context) (uuid.UUID, bool, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		return uuid.Nil, false, false
	}

	role, _ := c.Get("user_role")
	return userUUID, role == "ADMIN", true
}

func bookingIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) Checkout(c *gin.Context) {
	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	checkout, err := ctrl.service.Checkout(c.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create checkout session")
		return
	}

	response.RespondJSON(c, http.StatusCreated, "Checkout session created", checkout, nil)
}

func (ctrl *controller) ConfirmPayment(c *gin.Context) {
	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	gatewayRef := c.Query("session_id")

	confirmation, err := ctrl.service.ConfirmPayment(c.Request.Context(), userID, isAdmin, bookingID, gatewayRef)
	if err != nil {
		ctrl.respondError(c, err, "Failed to confirm payment")
		return
	}

	message := "Payment confirmed"
	if confirmation.TicketsPending {
		message = "Payment confirmed, ticket issuance pending"
	}
	response.RespondJSON(c, http.StatusOK, message, confirmation, nil)
}

func (ctrl *controller) FailPayment(c *gin.Context) {
	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	reason := c.Query("reason")
	if reason == "" {
		reason = "payment declined by gateway"
	}

	if err := ctrl.service.FailPayment(c.Request.Context(), userID, isAdmin, bookingID, reason); err != nil {
		ctrl.respondError(c, err, "Failed to record payment failure")
		return
	}

	response.RespondJSON(c, http.StatusOK, "Payment marked as failed", nil, nil)
}

func (ctrl *controller) GetBookingPayments(c *gin.Context) {
	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	paymentsList, err := ctrl.service.GetBookingPayments(c.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to fetch payments")
		return
	}

	response.RespondJSON(c, http.StatusOK, "Payments retrieved successfully", paymentsList, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondJSON(c, http.StatusNotFound, "Booking not found", nil, err.Error())
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(c, http.StatusForbidden, "You do not own this booking", nil, err.Error())
	case errors.Is(err, ErrBookingCancelled):
		response.RespondJSON(c, http.StatusConflict, "Booking has been cancelled", nil, err.Error())
	case errors.Is(err, ErrBookingNotPending):
		response.RespondJSON(c, http.StatusConflict, "Booking is not pending payment", nil, err.Error())
	default:
		response.RespondJSON(c, http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
