package http

import (
	"net/http"

	"github.com/expirylens/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router.
// metricsHandler may be nil, in which case /metrics is not mounted.
func SetupRouter(cfg *config.Config, handler *Handler, metricsHandler http.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

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
		expiry := v1.Group("/expiry")
		{
			expiry.POST("/detect", handler.DetectExpiry)
			expiry.POST("/detect-image", handler.DetectExpiryImage)
		}
	}

	return router
}
