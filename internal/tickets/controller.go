package tickets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/shared/utils/response"
)

type Controller interface {
	GetMyTickets(c *gin.Context)
	GetBookingTickets(c *gin.Context)
	GetEventTickets(c *gin.Context)
	ValidateTicket(c *gin.Context)
	UseTicket(c *gin.Context)
	CancelTicket(c *gin.Context)
	ExpireTicket(c *gin.Context)
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

func (ctrl *controller) GetMyTickets(c *gin.Context) {
	userID, _, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	ticketsList, err := ctrl.service.GetMyTickets(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Tickets retrieved successfully", ticketsList, nil)
}

func (ctrl *controller) GetBookingTickets(c *gin.Context) {
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

	ticketsList, err := ctrl.service.GetBookingTickets(c.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		if errors.Is(err, ErrNotTicketOwner) {
			response.RespondJSON(c, http.StatusForbidden, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Tickets retrieved successfully", ticketsList, nil)
}

func (ctrl *controller) ValidateTicket(c *gin.Context) {
	var req ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.ValidateTicket(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Ticket validation completed", result, nil)
}

func (ctrl *controller) GetEventTickets(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	ticketsList, err := ctrl.service.GetEventTickets(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Tickets retrieved successfully", ticketsList, nil)
}

func (ctrl *controller) UseTicket(c *gin.Context) {
	ticketNumber := c.Param("ticketNumber")
	if ticketNumber == "" {
		response.RespondJSON(c, http.StatusBadRequest, "Ticket number is required", nil, nil)
		return
	}

	scanner, _ := c.Get("user_email")
	usedBy, _ := scanner.(string)

	ticket, err := ctrl.service.MarkUsed(c.Request.Context(), ticketNumber, usedBy)
	if err != nil {
		ctrl.respondTransitionError(c, err)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Ticket marked as used", ticket, nil)
}

func (ctrl *controller) CancelTicket(c *gin.Context) {
	ticket, err := ctrl.service.CancelTicket(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		ctrl.respondTransitionError(c, err)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Ticket cancelled", ticket, nil)
}

func (ctrl *controller) ExpireTicket(c *gin.Context) {
	ticket, err := ctrl.service.ExpireTicket(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		ctrl.respondTransitionError(c, err)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Ticket expired", ticket, nil)
}

func (ctrl *controller) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		response.RespondJSON(c, http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrTicketNotActive):
		response.RespondJSON(c, http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
