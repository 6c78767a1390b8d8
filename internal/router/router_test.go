package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saulo-duarte/chronos-habits/internal/router"
	"github.com/stretchr/testify/assert"
)

func TestPublicEndpoints(t *testing.T) {
	h := router.New(router.RouterConfig{})

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := router.New(router.RouterConfig{})

	paths := []struct{ method, path string }{
		{http.MethodGet, "/habits"},
		{http.MethodGet, "/habits/today"},
		{http.MethodPut, "/sub-habits/5d5c9ab8-2f0d-4d3f-9b1a-6f1f5b9e2d10/completions/2026-01-12"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/weekly-reviews"},
		{http.MethodPost, "/habits/5d5c9ab8-2f0d-4d3f-9b1a-6f1f5b9e2d10/suggestions"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
