package routes

import (
	"net/http"

	"eduhealth_backend/internal/handlers"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	userRepo repositories.UserRepository,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
		appHandlers.CourseHandler.RegisterRoutes(api, userRepo)
		appHandlers.WellnessHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api, userRepo)
	}

	logger.Info("HTTP routes registered", "base_path", "/api/v1")
}
