package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/pkg/logger"
)

func newUnsubscribeTestMux(t *testing.T) (*http.ServeMux, *mocks.MockSubscriberRepository, *mocks.MockProviderClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	unsubscribeService := service.NewUnsubscribeService(subscriberRepo, provider, "seg-1", logger.NewTestLogger(t))

	mux := http.NewServeMux()
	NewNewsletterHandler(nil, unsubscribeService, "https://postwind.test", logger.NewTestLogger(t)).
		RegisterRoutes(mux, passLimit)
	return mux, subscriberRepo, provider
}

func TestNewsletterHandlerUnsubscribeSuccessRedirect(t *testing.T) {
	mux, subscriberRepo, provider := newUnsubscribeTestMux(t)

	subscriberRepo.EXPECT().
		GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}, nil)
	subscriberRepo.EXPECT().MarkUnsubscribed(gomock.Any(), "sub-1", gomock.Any()).Return(nil)
	provider.EXPECT().UnsubscribeContact(gomock.Any(), "seg-1", "a@example.com").Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/newsletter/unsubscribe/tok-1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://postwind.test/newsletter/unsubscribed?status=success", rec.Header().Get("Location"))
}

func TestNewsletterHandlerUnsubscribeAlreadyDoneRedirect(t *testing.T) {
	mux, subscriberRepo, _ := newUnsubscribeTestMux(t)

	subscriberRepo.EXPECT().
		GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusUnsubscribed}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/newsletter/unsubscribe/tok-1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		"https://postwind.test/newsletter/unsubscribed?status=info&message=Already+unsubscribed",
		rec.Header().Get("Location"))
}

func TestNewsletterHandlerUnsubscribeUnknownTokenRedirect(t *testing.T) {
	mux, subscriberRepo, _ := newUnsubscribeTestMux(t)

	subscriberRepo.EXPECT().
		GetByUnsubscribeToken(gomock.Any(), "bogus").
		Return(nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"})

	req := httptest.NewRequest(http.MethodGet, "/api/newsletter/unsubscribe/bogus", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://postwind.test/newsletter/unsubscribed?status=error", rec.Header().Get("Location"))
}

func TestNewsletterHandlerSubscribeRejectsInvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mux := http.NewServeMux()
	NewNewsletterHandler(nil, nil, "https://postwind.test", logger.NewTestLogger(t)).
		RegisterRoutes(mux, passLimit)

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
