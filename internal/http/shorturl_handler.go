package http

import (
	"errors"
	"net/http"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// ShortURLHandler redirects short codes embedded in sent emails to their
// original destinations. Click attribution comes from the provider's
// webhook events, not from this redirect.
type ShortURLHandler struct {
	shortURLRepo domain.ShortURLRepository
	logger       logger.Logger
}

func NewShortURLHandler(shortURLRepo domain.ShortURLRepository, logger logger.Logger) *ShortURLHandler {
	return &ShortURLHandler{
		shortURLRepo: shortURLRepo,
		logger:       logger,
	}
}

func (h *ShortURLHandler) RegisterRoutes(mux *http.ServeMux, rateLimit func(namespace string, next http.Handler) http.Handler) {
	mux.Handle("GET /r/{code}", rateLimit("shorturl", http.HandlerFunc(h.handleRedirect)))
}

func (h *ShortURLHandler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	shortURL, err := h.shortURLRepo.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		var notFound *domain.ErrShortURLNotFound
		if errors.As(err, &notFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to resolve short code")
		WriteJSONError(w, "Failed to resolve short code", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, shortURL.OriginalURL, http.StatusFound)
}
