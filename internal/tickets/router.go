package tickets

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller) {
	ticketRoutes := router.Group("/tickets")
	ticketRoutes.Use(middleware.JWTAuth())
	{
		ticketRoutes.GET("", controller.GetMyTickets)
		ticketRoutes.GET("/booking/:bookingId", controller.GetBookingTickets)
	}

	// Gate endpoints, used by staff scanners at venue entry
	gateRoutes := router.Group("/tickets")
	gateRoutes.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		gateRoutes.GET("/event/:eventId", controller.GetEventTickets)
		gateRoutes.POST("/validate", controller.ValidateTicket)
		gateRoutes.POST("/:ticketNumber/use", controller.UseTicket)
	}

	adminRoutes := router.Group("/tickets")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.POST("/:ticketNumber/cancel", controller.CancelTicket)
		adminRoutes.POST("/:ticketNumber/expire", controller.ExpireTicket)
	}
}
