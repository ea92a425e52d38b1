package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/stockkeep/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("", handler.CreateProduct)
			products.GET("/:id", handler.GetProduct)
			products.DELETE("/:id", handler.DeleteProduct)
			products.POST("/:id/sell", handler.SellProduct)
			products.POST("/:id/restock", handler.RestockProduct)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.GET("/value", handler.TotalValue)
			inventory.POST("/sweep", handler.SweepExpired)
			inventory.POST("/save", handler.SaveInventory)
			inventory.POST("/load", handler.LoadInventory)
		}
	}

	return router
}
