package bookings

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	bookingRoutes := router.Group("/bookings")
	bookingRoutes.Use(middleware.JWTAuth())
	{
		bookingRoutes.POST("", controller.CreateBooking)
		bookingRoutes.GET("", controller.GetMyBookings)
		bookingRoutes.GET("/:bookingId", controller.GetBooking)
		bookingRoutes.POST("/:bookingId/cancel", controller.CancelBooking)
	}

	managerRoutes := router.Group("/manager/events")
	managerRoutes.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		managerRoutes.GET("/:eventId/bookings", controller.GetEventBookings)
	}
}
