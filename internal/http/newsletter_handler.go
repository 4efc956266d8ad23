package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

// NewsletterHandler serves the public signup, confirmation and
// unsubscribe endpoints. Confirmation and unsubscribe end in redirects
// to the site's result pages rather than JSON.
type NewsletterHandler struct {
	subscriberService  *service.SubscriberService
	unsubscribeService *service.UnsubscribeService
	siteURL            string
	logger             logger.Logger
}

func NewNewsletterHandler(
	subscriberService *service.SubscriberService,
	unsubscribeService *service.UnsubscribeService,
	siteURL string,
	logger logger.Logger,
) *NewsletterHandler {
	return &NewsletterHandler{
		subscriberService:  subscriberService,
		unsubscribeService: unsubscribeService,
		siteURL:            siteURL,
		logger:             logger,
	}
}

func (h *NewsletterHandler) RegisterRoutes(mux *http.ServeMux, rateLimit func(namespace string, next http.Handler) http.Handler) {
	mux.Handle("POST /api/newsletter/subscribe", rateLimit("newsletter.subscribe", http.HandlerFunc(h.handleSubscribe)))
	mux.Handle("GET /api/newsletter/confirm", rateLimit("newsletter.confirm", http.HandlerFunc(h.handleConfirm)))
	mux.Handle("GET /api/newsletter/unsubscribe/{token}", rateLimit("newsletter.unsubscribe", http.HandlerFunc(h.handleUnsubscribe)))
}

func (h *NewsletterHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.subscriberService.Signup(r.Context(), req.Email, req.Name); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Signup rejected")
		WriteJSONError(w, "Unable to subscribe with that address", http.StatusBadRequest)
		return
	}
	// The response is identical for new and already-known addresses.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Check your inbox to confirm your subscription",
	})
}

func (h *NewsletterHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if _, err := h.subscriberService.Confirm(r.Context(), token); err != nil {
		if !errors.Is(err, service.ErrInvalidConfirmToken) {
			h.logger.WithField("error", err.Error()).Error("Failed to confirm subscription")
		}
		http.Redirect(w, r, h.siteURL+"/newsletter/confirmed?status=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, h.siteURL+"/newsletter/confirmed?status=success", http.StatusFound)
}

func (h *NewsletterHandler) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	outcome := h.unsubscribeService.Unsubscribe(r.Context(), r.PathValue("token"))

	target := h.siteURL + "/newsletter/unsubscribed?status=" + string(outcome)
	if outcome == service.UnsubscribeOutcomeInfo {
		target += "&message=" + url.QueryEscape("Already unsubscribed")
	}
	http.Redirect(w, r, target, http.StatusFound)
}
