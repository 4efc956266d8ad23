package domain

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -destination mocks/mock_contact_list_repository.go -package mocks github.com/postwind/postwind/internal/domain ContactListRepository

// ContactList is a named grouping of subscribers a campaign can target.
// ProviderSegmentID is the lazily-created provider-side segment backing
// broadcast sends to this list.
type ContactList struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	ProviderSegmentID *string `json:"provider_segment_id,omitempty"`
	CreatedAt         int64   `json:"created_at"`
	UpdatedAt         int64   `json:"updated_at"`
}

func (l *ContactList) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return fmt.Errorf("list name is required")
	}
	if len(l.Name) > 255 {
		return fmt.Errorf("list name cannot exceed 255 characters")
	}
	return nil
}

// ListMembership joins a subscriber to a contact list. Unique on
// (list_id, subscriber_id).
type ListMembership struct {
	ListID       string `json:"list_id"`
	SubscriberID string `json:"subscriber_id"`
	AddedAt      int64  `json:"added_at"`
}

// ContactListRepository defines persistence for contact lists and their
// memberships.
type ContactListRepository interface {
	Create(ctx context.Context, list *ContactList) error

	GetByID(ctx context.Context, id string) (*ContactList, error)

	List(ctx context.Context) ([]*ContactList, error)

	Update(ctx context.Context, list *ContactList) error

	Delete(ctx context.Context, id string) error

	// SetProviderSegmentID records the provider segment backing the list
	// once it has been created on the provider side.
	SetProviderSegmentID(ctx context.Context, listID, segmentID string) error

	// AddMember inserts a membership; duplicates are idempotent no-ops.
	AddMember(ctx context.Context, listID, subscriberID string, now int64) error

	RemoveMember(ctx context.Context, listID, subscriberID string) error

	// ListMembers returns the subscribers on a list regardless of status.
	ListMembers(ctx context.Context, listID string) ([]*Subscriber, error)
}
