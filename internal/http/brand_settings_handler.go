package http

import (
	"encoding/json"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type BrandSettingsHandler struct {
	service *service.BrandSettingsService
	logger  logger.Logger
}

func NewBrandSettingsHandler(service *service.BrandSettingsService, logger logger.Logger) *BrandSettingsHandler {
	return &BrandSettingsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BrandSettingsHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/brand-settings", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/brand-settings", requireAuth(http.HandlerFunc(h.handleUpdate)))
}

func (h *BrandSettingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get brand settings")
		WriteJSONError(w, "Failed to get brand settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *BrandSettingsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var settings domain.BrandSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), &settings); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, &settings)
}
