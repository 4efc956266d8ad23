package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asaskevich/govalidator"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

// TemplateHandlerConfig carries the sender identity for test sends.
type TemplateHandlerConfig struct {
	FromName  string
	FromEmail string
	ReplyTo   string
	SiteURL   string
}

type TemplateHandler struct {
	service        *service.TemplateService
	brandRepo      domain.BrandSettingsRepository
	providerClient domain.ProviderClient
	cfg            TemplateHandlerConfig
	logger         logger.Logger
}

func NewTemplateHandler(
	service *service.TemplateService,
	brandRepo domain.BrandSettingsRepository,
	providerClient domain.ProviderClient,
	cfg TemplateHandlerConfig,
	logger logger.Logger,
) *TemplateHandler {
	return &TemplateHandler{
		service:        service,
		brandRepo:      brandRepo,
		providerClient: providerClient,
		cfg:            cfg,
		logger:         logger,
	}
}

func (h *TemplateHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/templates", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/templates/preview", requireAuth(http.HandlerFunc(h.handlePreview)))
	mux.Handle("POST /api/templates/test-send", requireAuth(http.HandlerFunc(h.handleTestSend)))
}

type renderRequest struct {
	TemplateID string `json:"template_id"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	To         string `json:"to,omitempty"`
}

func (h *TemplateHandler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListTemplates())
}

// handlePreview renders without short-link allocation: no campaign or
// step id is passed, so no short codes are persisted for previews.
func (h *TemplateHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	html, err := h.render(r, req)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"html": html})
}

func (h *TemplateHandler) handleTestSend(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !govalidator.IsEmail(req.To) {
		WriteJSONError(w, "Valid to address is required", http.StatusBadRequest)
		return
	}

	html, err := h.render(r, req)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	messageID, err := h.providerClient.Send(r.Context(), domain.EmailMessage{
		From:    fmt.Sprintf("%s <%s>", h.cfg.FromName, h.cfg.FromEmail),
		To:      req.To,
		ReplyTo: h.cfg.ReplyTo,
		Subject: "[Test] " + req.Subject,
		HTML:    html,
	})
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to send test email")
		WriteJSONError(w, "Failed to send test email", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message_id": messageID})
}

func (h *TemplateHandler) render(r *http.Request, req renderRequest) (string, error) {
	brand, err := h.brandRepo.Get(r.Context())
	if err != nil {
		return "", fmt.Errorf("failed to load brand settings: %w", err)
	}
	return h.service.Render(r.Context(), domain.RenderInput{
		TemplateID:     req.TemplateID,
		Subject:        req.Subject,
		Content:        req.Content,
		Brand:          brand,
		SubscriberName: "Preview Reader",
		UnsubscribeURL: h.cfg.SiteURL + "/api/newsletter/unsubscribe/preview",
		SiteURL:        h.cfg.SiteURL,
	})
}
