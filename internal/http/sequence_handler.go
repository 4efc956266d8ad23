package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type SequenceHandler struct {
	service *service.SequenceService
	logger  logger.Logger
}

func NewSequenceHandler(service *service.SequenceService, logger logger.Logger) *SequenceHandler {
	return &SequenceHandler{
		service: service,
		logger:  logger,
	}
}

// sequenceRequest is the admin payload: header fields plus the full
// replacement step set. A nil steps array leaves the steps untouched.
type sequenceRequest struct {
	domain.Sequence
	Steps []*domain.SequenceStep `json:"steps"`
}

func (h *SequenceHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/sequences", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/sequences", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/sequences/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/sequences/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/sequences/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /api/sequences/{id}/enroll", requireAuth(http.HandlerFunc(h.handleEnroll)))
	mux.Handle("GET /api/sequences/{id}/subscribers", requireAuth(http.HandlerFunc(h.handleListEnrollments)))
	mux.Handle("GET /api/subscribers/{id}/sequences", requireAuth(http.HandlerFunc(h.handleSubscriberSequences)))
}

func (h *SequenceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	sequences, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list sequences")
		WriteJSONError(w, "Failed to list sequences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sequences)
}

func (h *SequenceHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Create(r.Context(), &req.Sequence, req.Steps); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, &req.Sequence)
}

func (h *SequenceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sequence, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeSequenceError(w, err, "Failed to get sequence")
		return
	}
	steps, err := h.service.ListSteps(r.Context(), id)
	if err != nil {
		h.writeSequenceError(w, err, "Failed to list sequence steps")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sequence": sequence,
		"steps":    steps,
	})
}

func (h *SequenceHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Sequence.ID = r.PathValue("id")

	if err := h.service.Update(r.Context(), &req.Sequence, req.Steps); err != nil {
		var notFound *domain.ErrSequenceNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Sequence not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, &req.Sequence)
}

func (h *SequenceHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeSequenceError(w, err, "Failed to delete sequence")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *SequenceHandler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubscriberID string `json:"subscriber_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SubscriberID == "" {
		WriteJSONError(w, "subscriber_id is required", http.StatusBadRequest)
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), r.PathValue("id"), req.SubscriberID)
	if err != nil {
		if service.IsAlreadyEnrolled(err) {
			WriteJSONError(w, "Subscriber is already enrolled", http.StatusBadRequest)
			return
		}
		var seqNotFound *domain.ErrSequenceNotFound
		var subNotFound *domain.ErrSubscriberNotFound
		if errors.As(err, &seqNotFound) || errors.As(err, &subNotFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

func (h *SequenceHandler) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.ListEnrollments(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeSequenceError(w, err, "Failed to list enrollments")
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

func (h *SequenceHandler) handleSubscriberSequences(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.ListSubscriberEnrollments(r.Context(), r.PathValue("id"))
	if err != nil {
		var notFound *domain.ErrSubscriberNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Subscriber not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to list subscriber enrollments")
		WriteJSONError(w, "Failed to list subscriber enrollments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

func (h *SequenceHandler) writeSequenceError(w http.ResponseWriter, err error, msg string) {
	var notFound *domain.ErrSequenceNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, "Sequence not found", http.StatusNotFound)
		return
	}
	h.logger.WithField("error", err.Error()).Error(msg)
	WriteJSONError(w, msg, http.StatusInternalServerError)
}
