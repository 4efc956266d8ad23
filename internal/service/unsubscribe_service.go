package service

import (
	"context"
	"errors"
	"time"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// UnsubscribeOutcome tells the public handler which redirect to issue.
type UnsubscribeOutcome string

const (
	UnsubscribeOutcomeError   UnsubscribeOutcome = "error"
	UnsubscribeOutcomeInfo    UnsubscribeOutcome = "info"
	UnsubscribeOutcomeSuccess UnsubscribeOutcome = "success"
)

// UnsubscribeService executes the unsubscribe pipeline: token lookup,
// authoritative store write, best-effort provider sync.
type UnsubscribeService struct {
	subscriberRepo   domain.SubscriberRepository
	providerClient   domain.ProviderClient
	defaultSegmentID string
	logger           logger.Logger
}

func NewUnsubscribeService(
	subscriberRepo domain.SubscriberRepository,
	providerClient domain.ProviderClient,
	defaultSegmentID string,
	log logger.Logger,
) *UnsubscribeService {
	return &UnsubscribeService{
		subscriberRepo:   subscriberRepo,
		providerClient:   providerClient,
		defaultSegmentID: defaultSegmentID,
		logger:           log,
	}
}

// Unsubscribe resolves the token and flips the subscriber to
// unsubscribed. The store write is authoritative; the provider call that
// follows is best-effort and only logged on failure.
func (s *UnsubscribeService) Unsubscribe(ctx context.Context, token string) UnsubscribeOutcome {
	if token == "" {
		return UnsubscribeOutcomeError
	}

	subscriber, err := s.subscriberRepo.GetByUnsubscribeToken(ctx, token)
	if err != nil {
		var notFound *domain.ErrSubscriberNotFound
		if !errors.As(err, &notFound) {
			s.logger.WithField("error", err.Error()).Error("Failed to look up unsubscribe token")
		}
		return UnsubscribeOutcomeError
	}

	if subscriber.Status == domain.SubscriberStatusUnsubscribed {
		return UnsubscribeOutcomeInfo
	}

	now := time.Now().Unix()
	if err := s.subscriberRepo.MarkUnsubscribed(ctx, subscriber.ID, now); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"subscriber_id": subscriber.ID,
			"error":         err.Error(),
		}).Error("Failed to mark subscriber unsubscribed")
		return UnsubscribeOutcomeError
	}

	if err := s.providerClient.UnsubscribeContact(ctx, s.defaultSegmentID, subscriber.Email); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"subscriber_id": subscriber.ID,
			"error":         err.Error(),
		}).Warn("Provider unsubscribe sync failed, store already updated")
	}

	return UnsubscribeOutcomeSuccess
}
