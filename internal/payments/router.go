package payments

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller Controller) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Use(middleware.JWTAuth())
	{
		paymentRoutes.POST("/checkout/:bookingId", controller.Checkout)
		paymentRoutes.POST("/confirm/:bookingId", controller.ConfirmPayment)
		paymentRoutes.POST("/fail/:bookingId", controller.FailPayment)
		paymentRoutes.GET("/booking/:bookingId", controller.GetBookingPayments)
	}
}
