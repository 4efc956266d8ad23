package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_subscriber_repository.go -package mocks github.com/postwind/postwind/internal/domain SubscriberRepository

// SubscriberStatus represents the consent state of a subscriber
type SubscriberStatus string

const (
	SubscriberStatusPending      SubscriberStatus = "pending"
	SubscriberStatusActive       SubscriberStatus = "active"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Subscriber is a recipient in the canonical subscriber database.
// Emails are stored lowercased; the unsubscribe token is an unguessable
// value stable for the subscriber's lifetime.
type Subscriber struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Name             *string          `json:"name,omitempty"`
	Status           SubscriberStatus `json:"status"`
	UnsubscribeToken string           `json:"-"`
	SubscribedAt     *int64           `json:"subscribed_at,omitempty"`
	UnsubscribedAt   *int64           `json:"unsubscribed_at,omitempty"`
	CreatedAt        int64            `json:"created_at"`
}

// Validate normalises the email and checks field constraints.
func (s *Subscriber) Validate() error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	if !govalidator.IsEmail(s.Email) {
		return fmt.Errorf("invalid email format: %s", s.Email)
	}
	if !govalidator.IsIn(string(s.Status),
		string(SubscriberStatusPending),
		string(SubscriberStatusActive),
		string(SubscriberStatusUnsubscribed)) {
		return fmt.Errorf("invalid subscriber status: %s", s.Status)
	}
	return nil
}

// DisplayName returns the subscriber's name or the empty string.
func (s *Subscriber) DisplayName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// SplitName splits a full name on the first whitespace run into first and
// last parts. A single-word name yields an empty last part.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// JoinName joins first and last name parts with a single space.
func JoinName(first, last string) string {
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return first + " " + last
}

// SubscriberListParams filters admin subscriber listings.
type SubscriberListParams struct {
	Status SubscriberStatus
	ListID string
	Limit  int
	Offset int
}

func (p *SubscriberListParams) Validate() error {
	if p.Status != "" && !govalidator.IsIn(string(p.Status),
		string(SubscriberStatusPending),
		string(SubscriberStatusActive),
		string(SubscriberStatusUnsubscribed)) {
		return fmt.Errorf("invalid subscriber status: %s", p.Status)
	}
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("limit and offset cannot be negative")
	}
	if p.Limit == 0 || p.Limit > 500 {
		p.Limit = 100
	}
	return nil
}

// SubscriberRepository defines persistence for subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *Subscriber) error

	GetByID(ctx context.Context, id string) (*Subscriber, error)

	GetByEmail(ctx context.Context, email string) (*Subscriber, error)

	GetByUnsubscribeToken(ctx context.Context, token string) (*Subscriber, error)

	Update(ctx context.Context, subscriber *Subscriber) error

	List(ctx context.Context, params SubscriberListParams) ([]*Subscriber, int, error)

	// ListTargets returns the active subscribers a campaign addresses:
	// members of the list when contactListID is set, the whole active
	// audience otherwise. Unsubscribed and pending subscribers are
	// structurally unreachable through this query.
	ListTargets(ctx context.Context, contactListID *string) ([]*Subscriber, error)

	// MarkUnsubscribed flips the subscriber to unsubscribed and stamps
	// unsubscribed_at. This is the authoritative consent write.
	MarkUnsubscribed(ctx context.Context, id string, now int64) error
}
