package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/events"
	"starevents/internal/shared/utils/response"
)

type Controller interface {
	GetRevenueReport(c *gin.Context)
	GetEventSalesReport(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetRevenueReport(c *gin.Context) {
	report, err := ctrl.service.GetRevenueReport(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, "Failed to build revenue report", nil, err.Error())
		return
	}

	response.RespondJSON(c, http.StatusOK, "Revenue report generated", report, nil)
}

func (ctrl *controller) GetEventSalesReport(c *gin.Context) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	userID, err := uuid.Parse(userIDValue.(string))
	if err != nil {
		response.RespondJSON(c, http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	role, _ := c.Get("user_role")

	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	report, err := ctrl.service.GetEventSalesReport(c.Request.Context(), userID, role == "ADMIN", eventID)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(c, http.StatusNotFound, "Event not found", nil, err.Error())
		case errors.Is(err, events.ErrNotEventOwner):
			response.RespondJSON(c, http.StatusForbidden, "You do not manage this event", nil, err.Error())
		default:
			response.RespondJSON(c, http.StatusInternalServerError, "Failed to build sales report", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, http.StatusOK, "Sales report generated", report, nil)
}
