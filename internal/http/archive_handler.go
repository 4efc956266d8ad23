package http

import (
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

// ArchiveHandler serves the public newsletter archive. It only exposes
// sent campaigns flagged as published.
type ArchiveHandler struct {
	service *service.CampaignService
	logger  logger.Logger
}

func NewArchiveHandler(service *service.CampaignService, logger logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ArchiveHandler) RegisterRoutes(mux *http.ServeMux, rateLimit func(namespace string, next http.Handler) http.Handler) {
	mux.Handle("GET /api/archive", rateLimit("archive", http.HandlerFunc(h.handleList)))
	mux.Handle("GET /api/archive/{slug}", rateLimit("archive", http.HandlerFunc(h.handleGet)))
}

func (h *ArchiveHandler) handleList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListArchive(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list archive")
		WriteJSONError(w, "Failed to list archive", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *ArchiveHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.service.GetArchiveBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		var notFound *domain.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Issue not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get archive issue")
		WriteJSONError(w, "Failed to get archive issue", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
