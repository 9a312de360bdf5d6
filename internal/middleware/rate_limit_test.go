package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(t.Context(), RateLimitConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		Enabled:           true,
	})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/universes/preview", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1001").Code)
	limited := hit("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1000").Code, "other clients keep their own bucket")
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(t.Context(), RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(t.Context(), RateLimitConfig{RequestsPerSecond: 10, BurstSize: 1})
	rl.getLimiter("10.0.0.1").Allow()
	rl.getLimiter("10.0.0.2")

	rl.prune(time.Now().Add(time.Hour))
	assert.Empty(t, rl.clients)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.0.2.1", getClientIP(req, false))
	assert.Equal(t, "203.0.113.7", getClientIP(req, true))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(req, true))
}
