package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// ContactListService manages contact lists and their provider-side
// segments. Segments are created lazily: the first broadcast send to a
// list triggers EnsureSegment.
type ContactListService struct {
	contactListRepo domain.ContactListRepository
	providerClient  domain.ProviderClient
	logger          logger.Logger
}

func NewContactListService(
	contactListRepo domain.ContactListRepository,
	providerClient domain.ProviderClient,
	log logger.Logger,
) *ContactListService {
	return &ContactListService{
		contactListRepo: contactListRepo,
		providerClient:  providerClient,
		logger:          log,
	}
}

func (s *ContactListService) Create(ctx context.Context, list *domain.ContactList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	now := time.Now().Unix()
	list.ID = uuid.New().String()
	list.CreatedAt = now
	list.UpdatedAt = now
	return s.contactListRepo.Create(ctx, list)
}

func (s *ContactListService) GetByID(ctx context.Context, id string) (*domain.ContactList, error) {
	return s.contactListRepo.GetByID(ctx, id)
}

func (s *ContactListService) List(ctx context.Context) ([]*domain.ContactList, error) {
	return s.contactListRepo.List(ctx)
}

func (s *ContactListService) Update(ctx context.Context, list *domain.ContactList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	existing, err := s.contactListRepo.GetByID(ctx, list.ID)
	if err != nil {
		return err
	}
	list.ProviderSegmentID = existing.ProviderSegmentID
	list.CreatedAt = existing.CreatedAt
	list.UpdatedAt = time.Now().Unix()
	return s.contactListRepo.Update(ctx, list)
}

// Delete removes the list and best-effort deletes its provider segment.
func (s *ContactListService) Delete(ctx context.Context, id string) error {
	list, err := s.contactListRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contactListRepo.Delete(ctx, id); err != nil {
		return err
	}
	if list.ProviderSegmentID != nil {
		if err := s.providerClient.DeleteSegment(ctx, *list.ProviderSegmentID); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"list_id": id,
				"error":   err.Error(),
			}).Warn("Failed to delete provider segment for removed list")
		}
	}
	return nil
}

// EnsureSegment returns the provider segment id backing the list,
// creating it on the provider on first use.
func (s *ContactListService) EnsureSegment(ctx context.Context, listID string) (string, error) {
	list, err := s.contactListRepo.GetByID(ctx, listID)
	if err != nil {
		return "", err
	}
	if list.ProviderSegmentID != nil && *list.ProviderSegmentID != "" {
		return *list.ProviderSegmentID, nil
	}

	segmentID, err := s.providerClient.CreateSegment(ctx, list.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create provider segment: %w", err)
	}
	if err := s.contactListRepo.SetProviderSegmentID(ctx, listID, segmentID); err != nil {
		return "", fmt.Errorf("failed to record provider segment id: %w", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"list_id":    listID,
		"segment_id": segmentID,
	}).Info("Created provider segment for contact list")
	return segmentID, nil
}

func (s *ContactListService) AddMember(ctx context.Context, listID, subscriberID string) error {
	if _, err := s.contactListRepo.GetByID(ctx, listID); err != nil {
		return err
	}
	return s.contactListRepo.AddMember(ctx, listID, subscriberID, time.Now().Unix())
}

func (s *ContactListService) RemoveMember(ctx context.Context, listID, subscriberID string) error {
	return s.contactListRepo.RemoveMember(ctx, listID, subscriberID)
}

func (s *ContactListService) ListMembers(ctx context.Context, listID string) ([]*domain.Subscriber, error) {
	if _, err := s.contactListRepo.GetByID(ctx, listID); err != nil {
		return nil, err
	}
	return s.contactListRepo.ListMembers(ctx, listID)
}
