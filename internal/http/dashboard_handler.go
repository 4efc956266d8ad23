package http

import (
	"net/http"

	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type DashboardHandler struct {
	service *service.AnalyticsService
	logger  logger.Logger
}

func NewDashboardHandler(service *service.AnalyticsService, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/dashboard", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("GET /api/analytics/overview", requireAuth(http.HandlerFunc(h.handleOverview)))
}

func (h *DashboardHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build dashboard")
		WriteJSONError(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.GetOverview(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build analytics overview")
		WriteJSONError(w, "Failed to build analytics overview", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
