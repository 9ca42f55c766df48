package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/events"
	"starevents/internal/shared/utils/response"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
	CancelBooking(c *gin.Context)
	GetEventBookings(c *gin.Context)
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

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, _, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		var insufficientErr *events.InsufficientInventoryError
		switch {
		case errors.As(err, &insufficientErr):
			response.RespondJSON(c, http.StatusConflict, "Not enough tickets available", nil, map[string]interface{}{
				"ticket_type_id":   insufficientErr.TicketTypeID.String(),
				"ticket_type_name": insufficientErr.TicketTypeName,
				"remaining":        insufficientErr.Remaining,
				"requested":        insufficientErr.Requested,
			})
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(c, http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, events.ErrEventNotOnSale),
			errors.Is(err, ErrEmptySelection),
			errors.Is(err, ErrTicketTypeMismatch),
			errors.Is(err, events.ErrTicketTypeNotFound):
			response.RespondJSON(c, http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(c, http.StatusForbidden, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	userID, _, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.CancelBooking(c.Request.Context(), userID, isAdmin, bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(c, http.StatusForbidden, err.Error(), nil, nil)
		case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrEventAlreadyHeld):
			response.RespondJSON(c, http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, http.StatusOK, "Booking cancelled successfully", nil, nil)
}

func (ctrl *controller) GetEventBookings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	requesterID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookings, err := ctrl.service.GetEventBookings(c.Request.Context(), eventID, requesterID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(c, http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, events.ErrNotEventOwner):
			response.RespondJSON(c, http.StatusForbidden, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}
