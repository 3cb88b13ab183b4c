package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/handlers"
	"github.com/novaminer/clicker-backend/internal/middleware"
)

// HandlerDependencies groups the handlers wired by main
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	MineHandler       *handlers.MineHandler
	MiningPlanHandler *handlers.MiningPlanHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)
		public.POST("/user", deps.UserHandler.GetOrCreate)
		public.POST("/mine", deps.MineHandler.Mine)
		public.POST("/mining-plans/purchase", deps.MiningPlanHandler.Purchase)
	}

	// Admin routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		admin.POST("/mining-plans/confirm", deps.MiningPlanHandler.Confirm)
		admin.GET("/mining-plans/pending", deps.MiningPlanHandler.GetPending)
		admin.GET("/mining-plans/user/:telegramId", deps.MiningPlanHandler.GetByUser)
	}

	return router
}
