package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/drift"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
)

// DriftHandler reports disagreements between the record and the API settings.
type DriftHandler struct {
	store   *environment.Store
	backend drift.Backend
}

// NewDriftHandler creates a DriftHandler.
func NewDriftHandler(store *environment.Store, backend drift.Backend) *DriftHandler {
	return &DriftHandler{store: store, backend: backend}
}

// DriftResponse is the body of GET /api/v1/drift.
type DriftResponse struct {
	Consistent bool            `json:"consistent"`
	Findings   []drift.Finding `json:"findings"`
}

// Check handles GET /api/v1/drift.
func (h *DriftHandler) Check(c *gin.Context) {
	env, err := h.store.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "environment not available"})
		return
	}

	findings := drift.Check(env, h.backend)
	if findings == nil {
		findings = []drift.Finding{}
	}

	c.JSON(http.StatusOK, DriftResponse{
		Consistent: len(findings) == 0,
		Findings:   findings,
	})
}
