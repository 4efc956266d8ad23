package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

// importMaxMemory bounds the in-memory part of a multipart CSV upload.
const importMaxMemory = 10 << 20

type SubscriberHandler struct {
	service *service.SubscriberService
	logger  logger.Logger
}

func NewSubscriberHandler(service *service.SubscriberService, logger logger.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		service: service,
		logger:  logger,
	}
}

func (h *SubscriberHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/subscribers", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /api/subscribers/export", requireAuth(http.HandlerFunc(h.handleExport)))
	mux.Handle("POST /api/subscribers/import", requireAuth(http.HandlerFunc(h.handleImport)))
	mux.Handle("GET /api/subscribers/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/subscribers/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
}

func (h *SubscriberHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := domain.SubscriberListParams{
		Status: domain.SubscriberStatus(query.Get("status")),
		ListID: query.Get("contact_list_id"),
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, "Invalid offset", http.StatusBadRequest)
			return
		}
		params.Offset = offset
	}

	subscribers, total, err := h.service.List(r.Context(), params)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribers": subscribers,
		"total":       total,
	})
}

func (h *SubscriberHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	subscriber, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeSubscriberError(w, err, "Failed to get subscriber")
		return
	}
	writeJSON(w, http.StatusOK, subscriber)
}

func (h *SubscriberHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   *string                 `json:"name"`
		Status domain.SubscriberStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	subscriber, err := h.service.Update(r.Context(), r.PathValue("id"), req.Name, req.Status)
	if err != nil {
		var notFound *domain.ErrSubscriberNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Subscriber not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, subscriber)
}

func (h *SubscriberHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(importMaxMemory); err != nil {
		WriteJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.service.ImportCSV(r.Context(), file)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SubscriberHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := domain.SubscriberStatus(query.Get("status"))
	listID := query.Get("contact_list_id")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscribers.csv"`)

	if err := h.service.ExportCSV(r.Context(), w, status, listID); err != nil {
		// Headers may already be out; log and abort the stream.
		h.logger.WithField("error", err.Error()).Error("Failed to export subscribers")
	}
}

func (h *SubscriberHandler) writeSubscriberError(w http.ResponseWriter, err error, msg string) {
	var notFound *domain.ErrSubscriberNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, "Subscriber not found", http.StatusNotFound)
		return
	}
	h.logger.WithField("error", err.Error()).Error(msg)
	WriteJSONError(w, msg, http.StatusInternalServerError)
}
