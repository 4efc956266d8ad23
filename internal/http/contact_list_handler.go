package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

type ContactListHandler struct {
	service *service.ContactListService
	logger  logger.Logger
}

func NewContactListHandler(service *service.ContactListService, logger logger.Logger) *ContactListHandler {
	return &ContactListHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ContactListHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/contact-lists", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/contact-lists", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/contact-lists/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/contact-lists/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/contact-lists/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("GET /api/contact-lists/{id}/members", requireAuth(http.HandlerFunc(h.handleListMembers)))
	mux.Handle("POST /api/contact-lists/{id}/members", requireAuth(http.HandlerFunc(h.handleAddMember)))
	mux.Handle("DELETE /api/contact-lists/{id}/members/{subscriberId}", requireAuth(http.HandlerFunc(h.handleRemoveMember)))
}

func (h *ContactListHandler) handleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list contact lists")
		WriteJSONError(w, "Failed to list contact lists", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ContactListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var list domain.ContactList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Create(r.Context(), &list); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, &list)
}

func (h *ContactListHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeListError(w, err, "Failed to get contact list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ContactListHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var list domain.ContactList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	list.ID = r.PathValue("id")

	if err := h.service.Update(r.Context(), &list); err != nil {
		var notFound *domain.ErrContactListNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Contact list not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, &list)
}

func (h *ContactListHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeListError(w, err, "Failed to delete contact list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *ContactListHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeListError(w, err, "Failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ContactListHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.AddMember(r.Context(), r.PathValue("id"), req.SubscriberID); err != nil {
		h.writeListError(w, err, "Failed to add member")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"added": true})
}

func (h *ContactListHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("subscriberId")); err != nil {
		h.writeListError(w, err, "Failed to remove member")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": true})
}

func (h *ContactListHandler) writeListError(w http.ResponseWriter, err error, msg string) {
	var notFound *domain.ErrContactListNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, "Contact list not found", http.StatusNotFound)
		return
	}
	h.logger.WithField("error", err.Error()).Error(msg)
	WriteJSONError(w, msg, http.StatusInternalServerError)
}
