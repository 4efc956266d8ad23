package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

type contextKey string

// AuthUserKey holds the *domain.AdminUser for cookie-authenticated
// requests; API-key requests carry no user.
const AuthUserKey contextKey = "auth_user"

// SessionCookieName is the admin session cookie.
const SessionCookieName = "session"

// AuthServiceInterface is the slice of the auth service the middleware
// needs.
type AuthServiceInterface interface {
	ValidateAPIKey(key string) bool
	ValidateSession(ctx context.Context, token string) (*domain.AdminUser, error)
}

// AuthMiddleware guards the admin API. Two mechanisms are checked in
// order: a bearer API key compared in constant time, then the session
// cookie resolved against the admin sessions table.
type AuthMiddleware struct {
	authService AuthServiceInterface
	logger      logger.Logger
}

func NewAuthMiddleware(authService AuthServiceInterface, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      log,
	}
}

// RequireAuth wraps a handler with admin authentication.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && m.authService.ValidateAPIKey(parts[1]) {
				next.ServeHTTP(w, r)
				return
			}
			writeUnauthorized(w)
			return
		}

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeUnauthorized(w)
			return
		}

		user, err := m.authService.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			var notFound *domain.ErrSessionNotFound
			if !errors.As(err, &notFound) {
				m.logger.WithField("error", err.Error()).Error("Session validation failed")
			}
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), AuthUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticatedUser returns the session user attached by RequireAuth,
// or nil for API-key requests.
func AuthenticatedUser(ctx context.Context) *domain.AdminUser {
	user, _ := ctx.Value(AuthUserKey).(*domain.AdminUser)
	return user
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"Unauthorized"}`))
}
