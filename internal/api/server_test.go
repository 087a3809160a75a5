package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/config"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/drift"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/handler"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/logger"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, origins []string) *Server {
	t.Helper()

	store, err := environment.NewStaticStore(environment.Template())
	require.NoError(t, err)

	cfg := &config.Config{
		Service: config.ServiceConfig{
			Name:        "coffee-shop-env",
			Port:        0,
			CORSOrigins: origins,
		},
		Environment: environment.Template(),
	}

	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewNop()
	return NewServer(cfg, Handlers{
		Health:      handler.NewHealthHandler(cfg.Service.Name, "test", store),
		Environment: handler.NewEnvironmentHandler(store, m, log),
		Drift:       handler.NewDriftHandler(store, drift.Backend{}),
		Metrics:     m,
	}, log)
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t, []string{"http://localhost:8100"})

	for _, target := range []string{"/health", "/environment", "/environment.ts", "/api/v1/auth/authorize-url", "/api/v1/drift", "/metrics"} {
		w := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, target, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code, target)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/environment/validate", strings.NewReader(`{}`))
	w := serve(t, srv.Handler(), req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	generated := w.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set(requestIDHeader, "upstream-abc")
	w = serve(t, srv.Handler(), req)
	assert.Equal(t, "upstream-abc", w.Header().Get(requestIDHeader))
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t, []string{"http://localhost:8100"})

	preflight := httptest.NewRequest(http.MethodOptions, "/environment", http.NoBody)
	preflight.Header.Set("Origin", "http://localhost:8100")
	w := serve(t, srv.Handler(), preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8100", w.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/environment", http.NoBody)
	other.Header.Set("Origin", "http://evil.example")
	w = serve(t, srv.Handler(), other)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("Origin", "http://anything.example")
	w := serve(t, r, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(recoveryMiddleware(logger.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(t, r, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}
