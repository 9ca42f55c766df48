package events

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse published events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)
		publicEvents.GET("/:eventId", controller.GetEvent)
		publicEvents.GET("/:eventId/availability", controller.GetAvailability)
	}

	// Manager routes - event managers and admins manage their own events
	managerEvents := router.Group("/manager/events")
	managerEvents.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		managerEvents.POST("", controller.CreateEvent)
		managerEvents.GET("", controller.GetManagerEvents)
		managerEvents.PUT("/:eventId", controller.UpdateEvent)
		managerEvents.DELETE("/:eventId", controller.DeleteEvent)
		managerEvents.POST("/:eventId/ticket-types", controller.AddTicketType)
	}
}
