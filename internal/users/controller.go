package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starevents/internal/shared/utils/response"
)

type Controller interface {
	ListUsers(c *gin.Context)
	ChangeRole(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondJSON(c, http.StatusInternalServerError, "Failed to list users", nil, err.Error())
		return
	}

	response.RespondJSON(c, http.StatusOK, "Users retrieved successfully", result, nil)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (ctrl *controller) ChangeRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.ChangeRole(c.Request.Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			response.RespondJSON(c, http.StatusBadRequest, "Invalid role", nil, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, http.StatusNotFound, "User not found", nil, err.Error())
		default:
			response.RespondJSON(c, http.StatusInternalServerError, "Failed to change role", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, http.StatusOK, "Role updated successfully", nil, nil)
}
