// Package handler holds the gin handlers of the environment service.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Production bool   `json:"production"`
	Template   bool   `json:"template"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	service string
	version string
	started time.Time
	store   *environment.Store
}

// NewHealthHandler creates a HealthHandler. The service is healthy once the
// environment has loaded.
func NewHealthHandler(service, version string, store *environment.Store) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
		store:   store,
	}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Version: h.version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	}

	env, err := h.store.Get()
	if err != nil {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Production = env.Production
	resp.Template = env.IsTemplate()
	c.JSON(http.StatusOK, resp)
}

// Head handles HEAD /health for load balancers.
func (h *HealthHandler) Head(c *gin.Context) {
	if _, err := h.store.Get(); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
