package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriview/backend/config"
)

// SetupRouter creates and configures the Gin router. metricsHandler is
// mounted on /metrics when non-nil.
func SetupRouter(cfg *config.Config, handler *Handler, metricsHandler http.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/foods", handler.ListFoods)

		// Nutrition endpoints
		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/search", handler.SearchNutrition)
			nutrition.POST("/predict", handler.PredictNutrition)
		}

		v1.GET("/images/:name", handler.GetImage)
		v1.POST("/recommendations", handler.Recommend)
		v1.POST("/pages/inspect", handler.InspectPage)
	}

	return router
}
