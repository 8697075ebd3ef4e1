package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newFixedStore(rps float64, burst int, now *time.Time) *visitorStore {
	s := newVisitorStore(RateLimitConfig{RPS: rps, Burst: burst, TTL: time.Minute})
	s.nowFunc = func() time.Time { return *now }
	return s
}

func serveFrom(h http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = remote
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit_BurstThen429(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := rateLimitWithStore(newFixedStore(1, 3, &now), false, discardLogger())(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"), "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeErrorCode(t, rr.Body))
}

func TestRateLimit_RefillsOverTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := rateLimitWithStore(newFixedStore(1, 1, &now), false, discardLogger())(okHandler)

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:1"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))
}

func TestRateLimit_IndependentClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := rateLimitWithStore(newFixedStore(1, 1, &now), false, discardLogger())(okHandler)

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:1"))
}

func TestClientIP_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")

	assert.Equal(t, "203.0.113.7", clientIP(req, true))
	assert.Equal(t, "10.0.0.1", clientIP(req, false))
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newFixedStore(1, 1, &now)

	s.allow("a")
	now = now.Add(30 * time.Second)
	s.allow("b")
	now = now.Add(45 * time.Second)
	s.cleanup()

	assert.Equal(t, 1, s.len())
}

func TestRateLimit_CleanupStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	h := RateLimit(ctx, RateLimitConfig{RPS: 5, Burst: 5, TTL: 10 * time.Millisecond}, discardLogger())(okHandler)
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))

	cancel()
}
