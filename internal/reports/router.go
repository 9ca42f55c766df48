package reports

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReportRoutes(router *gin.RouterGroup, controller Controller) {
	adminRoutes := router.Group("/admin/reports")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.GET("/revenue", controller.GetRevenueReport)
	}

	managerRoutes := router.Group("/manager/events")
	managerRoutes.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		managerRoutes.GET("/:eventId/report", controller.GetEventSalesReport)
	}
}
