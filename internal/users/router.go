package users

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(router *gin.RouterGroup, controller Controller) {
	adminRoutes := router.Group("/admin/users")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.GET("", controller.ListUsers)
		adminRoutes.PUT("/:userId/role", controller.ChangeRole)
	}
}
