package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/auth"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/handler"
)

func testRouter() (*auth.JWTService, http.Handler) {
	cfg := &config.Config{}
	cfg.App.Name = "cartzilla-orders"
	cfg.App.Env = "test"
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "cartzilla",
		Expiration: time.Hour,
	})
	engine := New(cfg, zap.NewNop(), jwtService, Handlers{
		Order:    handler.NewOrderHandler(nil, nil, nil),
		Document: handler.NewDocumentHandler(nil),
	})
	return jwtService, engine
}

func TestHealthEndpointIsPublic(t *testing.T) {
	_, r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cartzilla-orders")
}

func TestOrderRoutesRequireAuth(t *testing.T) {
	_, r := testRouter()

	paths := []string{
		"/api/v1/order/track/00000000-0000-0000-0000-000000000001",
		"/api/v1/order/get/00000000-0000-0000-0000-000000000001",
		"/api/v1/order/store/00000000-0000-0000-0000-000000000001/pending-payments",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRequestIDEchoedOnResponses(t *testing.T) {
	_, r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-router-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-router-1", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	_, r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/order/create", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
