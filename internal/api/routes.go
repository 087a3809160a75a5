package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/handler"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/metrics"
)

// Handlers groups everything SetupRoutes wires.
type Handlers struct {
	Health      *handler.HealthHandler
	Environment *handler.EnvironmentHandler
	Drift       *handler.DriftHandler
	Metrics     *metrics.Metrics
}

// SetupRoutes configures all routes.
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.HealthCheck)
	router.HEAD("/health", h.Health.Head)
	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	router.GET("/environment", h.Environment.GetJSON)
	router.GET("/environment.ts", h.Environment.GetTypeScript)

	v1 := router.Group("/api/v1")
	v1.POST("/environment/validate", h.Environment.ValidateDocument)
	v1.GET("/auth/authorize-url", h.Environment.GetAuthorizeURL)
	v1.GET("/drift", h.Drift.Check)
}
