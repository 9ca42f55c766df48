package events

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetManagerEvents(c *gin.Context)
	AddTicketType(c *gin.Context)
	GetAvailability(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// requestUser pulls the authenticated user id and role set by the JWT middleware.
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
	isAdmin := role == "ADMIN"
	return userUUID, isAdmin, true
}

func statusForEventError(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotEventOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	managerID, _, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(managerID, req)
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, statusForEventError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	managerID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(eventID, managerID, isAdmin, req)
	if err != nil {
		response.RespondJSON(c, statusForEventError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	managerID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.DeleteEvent(eventID, managerID, isAdmin); err != nil {
		response.RespondJSON(c, statusForEventError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Event deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	// Public browsing only surfaces published events
	if query.Status == "" {
		query.Status = string(StatusPublished)
	}

	events, err := ctrl.service.GetAllEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Events retrieved successfully", events, nil)
}

func (ctrl *controller) GetManagerEvents(c *gin.Context) {
	managerID, _, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	events, err := ctrl.service.GetManagerEvents(managerID)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Events retrieved successfully", events, nil)
}

func (ctrl *controller) AddTicketType(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	managerID, isAdmin, ok := requestUser(c)
	if !ok {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	ticketType, err := ctrl.service.AddTicketType(eventID, managerID, isAdmin, req)
	if err != nil {
		response.RespondJSON(c, statusForEventError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusCreated, "Ticket type created successfully", ticketType, nil)
}

func (ctrl *controller) GetAvailability(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	availability, err := ctrl.service.GetAvailability(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, statusForEventError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, http.StatusOK, "Availability retrieved successfully", availability, nil)
}
