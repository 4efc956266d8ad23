package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type CampaignHandler struct {
	service *service.CampaignService
	logger  logger.Logger
}

func NewCampaignHandler(service *service.CampaignService, logger logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CampaignHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/campaigns", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/campaigns", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/campaigns/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/campaigns/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/campaigns/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("GET /api/campaigns/{id}/tracking", requireAuth(http.HandlerFunc(h.handleTracking)))
}

func (h *CampaignHandler) handleList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list campaigns")
		WriteJSONError(w, "Failed to list campaigns", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var campaign domain.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Create(r.Context(), &campaign); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, &campaign)
}

func (h *CampaignHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeCampaignError(w, err, "Failed to get campaign")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var campaign domain.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	campaign.ID = r.PathValue("id")

	if err := h.service.Update(r.Context(), &campaign); err != nil {
		var notFound *domain.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, &campaign)
}

func (h *CampaignHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		var notFound *domain.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *CampaignHandler) handleTracking(w http.ResponseWriter, r *http.Request) {
	tracking, err := h.service.GetTracking(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeCampaignError(w, err, "Failed to get campaign tracking")
		return
	}
	writeJSON(w, http.StatusOK, tracking)
}

func (h *CampaignHandler) writeCampaignError(w http.ResponseWriter, err error, msg string) {
	var notFound *domain.ErrCampaignNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, "Campaign not found", http.StatusNotFound)
		return
	}
	h.logger.WithField("error", err.Error()).Error(msg)
	WriteJSONError(w, msg, http.StatusInternalServerError)
}
