package auth

import (
	"starevents/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", controller.Register)
		authRoutes.POST("/login", controller.Login)
		authRoutes.POST("/refresh", controller.RefreshToken)

		protected := authRoutes.Group("")
		protected.Use(middleware.JWTAuth())
		{
			protected.PUT("/change-password", controller.ChangePassword)
			protected.GET("/me", controller.GetMe)
		}
	}
}
