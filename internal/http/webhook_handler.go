package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

// webhookMaxBody caps the provider event payload size.
const webhookMaxBody = 1 << 20

// WebhookHandler ingests provider delivery events. Every request is
// signature-checked before the body is even parsed.
type WebhookHandler struct {
	service *service.DeliveryEventService
	secret  []byte
	logger  logger.Logger
}

func NewWebhookHandler(service *service.DeliveryEventService, secret []byte, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /api/webhooks/email", http.HandlerFunc(h.handleEvent))
}

func (h *WebhookHandler) handleEvent(w http.ResponseWriter, r *http.Request) {
	if len(h.secret) == 0 {
		h.logger.Error("Webhook secret not configured, rejecting event")
		WriteJSONError(w, "Webhook not configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookMaxBody))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := domain.VerifyWebhookSignature(
		body,
		h.secret,
		webhookHeader(r, "svix-id"),
		webhookHeader(r, "svix-timestamp"),
		webhookHeader(r, "svix-signature"),
	); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Webhook signature rejected")
		WriteJSONError(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var payload domain.EmailWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.HandleEvent(r.Context(), &payload); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"type":  string(payload.Type),
			"error": err.Error(),
		}).Error("Failed to handle webhook event")
		WriteJSONError(w, "Failed to handle event", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}

// webhookHeader reads an svix-* header, falling back to the bare
// standard-webhooks webhook-* name some senders use.
func webhookHeader(r *http.Request, name string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return r.Header.Get("webhook-" + name[len("svix-"):])
}
