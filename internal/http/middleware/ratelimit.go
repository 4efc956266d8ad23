package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/postwind/postwind/pkg/logger"
	"github.com/postwind/postwind/pkg/ratelimiter"
)

// RateLimitMiddleware throttles the public endpoints per client IP,
// one namespace per endpoint family.
type RateLimitMiddleware struct {
	limiter *ratelimiter.RateLimiter
	logger  logger.Logger
}

func NewRateLimitMiddleware(limiter *ratelimiter.RateLimiter, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  log,
	}
}

// Limit wraps a handler with the given namespace's policy. Requests over
// the limit get 429.
func (m *RateLimitMiddleware) Limit(namespace string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !m.limiter.Allow(namespace, key) {
			m.logger.WithFields(map[string]interface{}{
				"namespace": namespace,
				"client":    key,
			}).Warn("Rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"Too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
