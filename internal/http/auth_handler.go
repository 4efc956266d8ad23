package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/http/middleware"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type AuthHandler struct {
	service      *service.AuthService
	secureCookie bool
	logger       logger.Logger
}

func NewAuthHandler(service *service.AuthService, secureCookie bool, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterRoutes wires the login and logout endpoints. Login is public;
// logout only needs the cookie it is about to delete.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, rateLimit func(namespace string, next http.Handler) http.Handler) {
	mux.Handle("POST /api/auth/login", rateLimit("auth.login", http.HandlerFunc(h.handleLogin)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.handleLogout))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteJSONError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to log in")
		WriteJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   domain.SessionTTLSeconds,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expires_at": session.ExpiresAt,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.WithField("error", err.Error()).Error("Failed to delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}
