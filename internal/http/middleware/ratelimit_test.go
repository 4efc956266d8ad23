package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/postwind/postwind/pkg/logger"
	"github.com/postwind/postwind/pkg/ratelimiter"
)

func newRateLimitTestHandler(t *testing.T) (*ratelimiter.RateLimiter, http.Handler) {
	t.Helper()
	limiter := ratelimiter.NewRateLimiter()
	t.Cleanup(limiter.Stop)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m := NewRateLimitMiddleware(limiter, logger.NewTestLogger(t))
	return limiter, m.Limit("newsletter.subscribe", next)
}

func TestLimitThrottlesPerClient(t *testing.T) {
	limiter, handler := newRateLimitTestHandler(t)
	limiter.SetPolicy("newsletter.subscribe", 2, time.Minute)

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.7:40001"))
	assert.Equal(t, http.StatusOK, do("203.0.113.7:40002"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.7:40003"))

	// Another client IP has its own budget.
	assert.Equal(t, http.StatusOK, do("203.0.113.8:40001"))
}

func TestLimitUsesForwardedForFirstHop(t *testing.T) {
	limiter, handler := newRateLimitTestHandler(t)
	limiter.SetPolicy("newsletter.subscribe", 1, time.Minute)

	do := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", nil)
		req.RemoteAddr = "10.0.0.1:40001"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("198.51.100.4, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("198.51.100.4, 10.0.0.2"))
	assert.Equal(t, http.StatusOK, do("198.51.100.5, 10.0.0.1"))
}

func TestLimitFailsClosedWithoutPolicy(t *testing.T) {
	_, handler := newRateLimitTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", nil)
	req.RemoteAddr = "203.0.113.7:40001"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Too many requests"}`, rec.Body.String())
}
