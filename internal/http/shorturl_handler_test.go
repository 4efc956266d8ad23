package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func newShortURLTestMux(t *testing.T) (*http.ServeMux, *mocks.MockShortURLRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	shortURLRepo := mocks.NewMockShortURLRepository(ctrl)
	mux := http.NewServeMux()
	NewShortURLHandler(shortURLRepo, logger.NewTestLogger(t)).RegisterRoutes(mux, passLimit)
	return mux, shortURLRepo
}

func TestShortURLHandlerRedirects(t *testing.T) {
	mux, shortURLRepo := newShortURLTestMux(t)

	shortURLRepo.EXPECT().
		GetByCode(gomock.Any(), "abc123").
		Return(&domain.ShortURL{ShortCode: "abc123", OriginalURL: "https://example.com/article"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/r/abc123", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/article", rec.Header().Get("Location"))
}

func TestShortURLHandlerUnknownCode(t *testing.T) {
	mux, shortURLRepo := newShortURLTestMux(t)

	shortURLRepo.EXPECT().
		GetByCode(gomock.Any(), "nope").
		Return(nil, &domain.ErrShortURLNotFound{Message: "short url not found"})

	req := httptest.NewRequest(http.MethodGet, "/r/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
