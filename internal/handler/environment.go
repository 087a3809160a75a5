package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/auth0"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/logger"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/metrics"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/render"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/validation"
)

const (
	typeScriptContentType = "application/typescript; charset=utf-8"
	// maxDocumentBytes caps submitted environment documents.
	maxDocumentBytes = 64 << 10
)

// EnvironmentHandler serves the loaded environment record.
type EnvironmentHandler struct {
	store   *environment.Store
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewEnvironmentHandler creates an EnvironmentHandler reading from store.
func NewEnvironmentHandler(store *environment.Store, m *metrics.Metrics, log logger.Logger) *EnvironmentHandler {
	return &EnvironmentHandler{store: store, metrics: m, log: log}
}

// AuthorizeURLResponse is the body of GET /api/v1/auth/authorize-url.
type AuthorizeURLResponse struct {
	URL string `json:"url"`
}

// GetJSON handles GET /environment.
func (h *EnvironmentHandler) GetJSON(c *gin.Context) {
	env, ok := h.current(c)
	if !ok {
		return
	}
	h.metrics.EnvironmentServed.WithLabelValues(string(render.FormatJSON)).Inc()
	c.JSON(http.StatusOK, env)
}

// GetTypeScript handles GET /environment.ts.
func (h *EnvironmentHandler) GetTypeScript(c *gin.Context) {
	env, ok := h.current(c)
	if !ok {
		return
	}

	body, err := render.TypeScript(env)
	if err != nil {
		h.log.Error("Failed to render environment.ts", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render environment"})
		return
	}

	h.metrics.EnvironmentServed.WithLabelValues(string(render.FormatTypeScript)).Inc()
	c.Data(http.StatusOK, typeScriptContentType, body)
}

// GetAuthorizeURL handles GET /api/v1/auth/authorize-url?callback_path=/tabs.
func (h *EnvironmentHandler) GetAuthorizeURL(c *gin.Context) {
	env, ok := h.current(c)
	if !ok {
		return
	}

	link, err := auth0.NewTenant(env.Auth0).AuthorizeURL(c.Query("callback_path"))
	if errors.Is(err, auth0.ErrInvalidCallbackPath) {
		h.metrics.AuthorizeURLs.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.metrics.AuthorizeURLs.WithLabelValues("error").Inc()
		h.log.Error("Failed to build authorize URL", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build authorize url"})
		return
	}

	h.metrics.AuthorizeURLs.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, AuthorizeURLResponse{URL: link})
}

// ValidationResponse is the body of POST /api/v1/environment/validate.
type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Stage  string   `json:"stage,omitempty"`
	Errors []string `json:"errors"`
}

// ValidateDocument handles POST /api/v1/environment/validate. It checks a
// front-end environment document's shape, then its values, and answers 422
// with every problem found.
func (h *EnvironmentHandler) ValidateDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentBytes)
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	env, err := environment.Decode(body)
	if err != nil {
		h.reject(c, "schema", schemaProblems(err))
		return
	}
	if err := env.Validate(); err != nil {
		h.reject(c, "values", valueProblems(err))
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{Valid: true, Errors: []string{}})
}

func (h *EnvironmentHandler) reject(c *gin.Context, stage string, problems []string) {
	h.metrics.ValidationFailures.WithLabelValues(stage).Inc()
	c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Stage: stage, Errors: problems})
}

func schemaProblems(err error) []string {
	var schemaErr *environment.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Problems
	}
	return []string{err.Error()}
}

func valueProblems(err error) []string {
	fields := validation.Fields(err)
	if len(fields) == 0 {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(fields))
	for _, fe := range fields {
		problems = append(problems, fe.Error())
	}
	return problems
}

func (h *EnvironmentHandler) current(c *gin.Context) (environment.Environment, bool) {
	env, err := h.store.Get()
	if err == nil {
		return env, true
	}

	logger.FromContext(c.Request.Context()).Error("Environment unavailable", logger.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "environment not available"})
	return environment.Environment{}, false
}
