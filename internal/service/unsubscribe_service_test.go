package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func TestUnsubscribeSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	s := NewUnsubscribeService(subscriberRepo, provider, "seg-default", logger.NewTestLogger(t))

	subscriberRepo.EXPECT().GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}, nil)
	subscriberRepo.EXPECT().MarkUnsubscribed(gomock.Any(), "sub-1", gomock.Any()).Return(nil)
	provider.EXPECT().UnsubscribeContact(gomock.Any(), "seg-default", "a@example.com").Return(nil)

	assert.Equal(t, UnsubscribeOutcomeSuccess, s.Unsubscribe(context.Background(), "tok-1"))
}

func TestUnsubscribeAlreadyUnsubscribedIsInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	s := NewUnsubscribeService(subscriberRepo, provider, "seg-default", logger.NewTestLogger(t))

	// A second click on the same link must not hit the store or the
	// provider again.
	subscriberRepo.EXPECT().GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusUnsubscribed}, nil)

	assert.Equal(t, UnsubscribeOutcomeInfo, s.Unsubscribe(context.Background(), "tok-1"))
}

func TestUnsubscribeUnknownToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	s := NewUnsubscribeService(subscriberRepo, provider, "seg-default", logger.NewTestLogger(t))

	subscriberRepo.EXPECT().GetByUnsubscribeToken(gomock.Any(), "bogus").
		Return(nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"})

	assert.Equal(t, UnsubscribeOutcomeError, s.Unsubscribe(context.Background(), "bogus"))
}

func TestUnsubscribeEmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewUnsubscribeService(mocks.NewMockSubscriberRepository(ctrl), mocks.NewMockProviderClient(ctrl), "seg-default", logger.NewTestLogger(t))

	assert.Equal(t, UnsubscribeOutcomeError, s.Unsubscribe(context.Background(), ""))
}

func TestUnsubscribeProviderSyncFailureStillSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	s := NewUnsubscribeService(subscriberRepo, provider, "seg-default", logger.NewTestLogger(t))

	subscriberRepo.EXPECT().GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}, nil)
	subscriberRepo.EXPECT().MarkUnsubscribed(gomock.Any(), "sub-1", gomock.Any()).Return(nil)
	provider.EXPECT().UnsubscribeContact(gomock.Any(), "seg-default", "a@example.com").Return(assert.AnError)

	// The store write is authoritative.
	assert.Equal(t, UnsubscribeOutcomeSuccess, s.Unsubscribe(context.Background(), "tok-1"))
}

func TestUnsubscribeStoreWriteFailureIsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	provider := mocks.NewMockProviderClient(ctrl)
	s := NewUnsubscribeService(subscriberRepo, provider, "seg-default", logger.NewTestLogger(t))

	subscriberRepo.EXPECT().GetByUnsubscribeToken(gomock.Any(), "tok-1").
		Return(&domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}, nil)
	subscriberRepo.EXPECT().MarkUnsubscribed(gomock.Any(), "sub-1", gomock.Any()).Return(assert.AnError)

	assert.Equal(t, UnsubscribeOutcomeError, s.Unsubscribe(context.Background(), "tok-1"))
}
