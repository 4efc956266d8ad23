package delivery

import (
	"context"
	"time"

	"github.com/postwind/postwind/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// stubSender records requests and returns a configurable result.
type stubSender struct {
	requests []SendRequest
	result   *SendResult
	err      error
}

func (s *stubSender) Send(_ context.Context, req SendRequest) (*SendResult, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &SendResult{Recipients: len(req.Targets)}, nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func activeSubscriber(id, email string) *domain.Subscriber {
	return &domain.Subscriber{
		ID:               id,
		Email:            email,
		Status:           domain.SubscriberStatusActive,
		UnsubscribeToken: "tok-" + id,
		CreatedAt:        1700000000,
	}
}
