package response

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes the standard response envelope.
func RespondJSON(c *gin.Context, status int, message string, data interface{}, err interface{}) {
	success := status >= 200 && status < 300
	c.JSON(status, StandardApiResponse{
		Success: success,
		Message: message,
		Data:    data,
		Error:   err,
	})
}
