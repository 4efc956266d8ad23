package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// SegmentResolver resolves a contact list to its provider segment,
// creating the segment lazily on first use.
type SegmentResolver interface {
	EnsureSegment(ctx context.Context, listID string) (string, error)
}

// BroadcastSender dispatches through the provider's broadcast API: one
// rendered HTML for the whole segment, with provider-side expansion of
// the per-recipient unsubscribe placeholder. One delivery log is written
// per successfully-contacted subscriber, all sharing the broadcast id;
// webhook correlation later narrows by recipient email.
type BroadcastSender struct {
	renderer        domain.TemplateRenderer
	brandRepo       domain.BrandSettingsRepository
	deliveryLogRepo domain.DeliveryLogRepository
	providerClient  domain.ProviderClient
	segments        SegmentResolver
	clock           Clock
	cfg             SenderConfig
	logger          logger.Logger
}

func NewBroadcastSender(
	renderer domain.TemplateRenderer,
	brandRepo domain.BrandSettingsRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	providerClient domain.ProviderClient,
	segments SegmentResolver,
	clock Clock,
	cfg SenderConfig,
	log logger.Logger,
) *BroadcastSender {
	return &BroadcastSender{
		renderer:        renderer,
		brandRepo:       brandRepo,
		deliveryLogRepo: deliveryLogRepo,
		providerClient:  providerClient,
		segments:        segments,
		clock:           clock,
		cfg:             cfg,
		logger:          log,
	}
}

func (s *BroadcastSender) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if len(req.Targets) == 0 {
		return &SendResult{}, nil
	}

	segmentID, err := s.resolveSegment(ctx, req.ContactListID)
	if err != nil {
		return nil, err
	}

	// Sequential contact calls; the provider client paces requests so
	// the segment API's rate limit is honoured.
	contacted := make([]*domain.Subscriber, 0, len(req.Targets))
	for _, target := range req.Targets {
		contact, err := s.providerClient.EnsureContact(ctx, segmentID, target.Email, target.DisplayName())
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"email": target.Email,
				"error": err.Error(),
			}).Warn("Failed to ensure provider contact, skipping recipient")
			continue
		}
		if contact.Existed && contact.ContactID == "" && req.SequenceID != nil {
			// Sequence sends address a single recipient; without a contact
			// id segment membership cannot be guaranteed, so the step fails
			// and is retried on a later tick.
			return nil, fmt.Errorf("provider returned existing contact without id for %s", target.Email)
		}
		if !contact.Existed && contact.ContactID != "" {
			if err := s.providerClient.AddContactToSegment(ctx, segmentID, contact.ContactID); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"email": target.Email,
					"error": err.Error(),
				}).Warn("Failed to add contact to segment, skipping recipient")
				continue
			}
		}
		contacted = append(contacted, target)
	}
	if len(contacted) == 0 {
		return nil, fmt.Errorf("no recipient could be contacted for segment %s", segmentID)
	}

	brand, err := s.brandRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand settings: %w", err)
	}

	html, err := s.renderer.Render(ctx, domain.RenderInput{
		TemplateID:     req.TemplateID,
		Subject:        req.Subject,
		Content:        req.Content,
		Brand:          brand,
		UnsubscribeURL: domain.BroadcastUnsubscribePlaceholder,
		SiteURL:        s.cfg.SiteURL,
		CampaignID:     req.CampaignID,
		SequenceStepID: req.SequenceStepID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render broadcast: %w", err)
	}

	fromName := s.cfg.FromName
	if req.FromName != "" {
		fromName = req.FromName
	}
	broadcastID, err := s.providerClient.CreateBroadcast(ctx, segmentID, fromName, s.cfg.FromEmail, s.cfg.replyTo(req.ReplyTo), req.Subject, html)
	if err != nil {
		return nil, err
	}
	if err := s.providerClient.SendBroadcast(ctx, broadcastID); err != nil {
		return nil, err
	}

	// The broadcast is on its way; log writes are best-effort and must
	// never trigger a resend.
	now := s.clock.Now().Unix()
	for _, target := range contacted {
		subject := req.Subject
		messageID := broadcastID
		logRow := &domain.DeliveryLog{
			ID:                uuid.New().String(),
			CampaignID:        req.CampaignID,
			SequenceID:        req.SequenceID,
			SequenceStepID:    req.SequenceStepID,
			SubscriberID:      target.ID,
			Email:             target.Email,
			EmailSubject:      &subject,
			ABVariant:         req.ABVariant,
			Status:            domain.DeliveryStatusSent,
			ProviderMessageID: &messageID,
			SentAt:            &now,
			CreatedAt:         now,
		}
		if err := s.deliveryLogRepo.Create(ctx, logRow); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"subscriber_id": target.ID,
				"broadcast_id":  broadcastID,
				"error":         err.Error(),
			}).Error("Broadcast sent but delivery log write failed, NOT resending")
		}
	}

	return &SendResult{Recipients: len(contacted)}, nil
}

// resolveSegment picks the target segment: the campaign's list segment
// (created lazily) when a list is set, otherwise the deployment default.
func (s *BroadcastSender) resolveSegment(ctx context.Context, contactListID *string) (string, error) {
	if contactListID != nil && *contactListID != "" {
		segmentID, err := s.segments.EnsureSegment(ctx, *contactListID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve list segment: %w", err)
		}
		return segmentID, nil
	}
	if s.cfg.DefaultSegmentID == "" {
		return "", fmt.Errorf("no provider segment available: campaign has no list and no default segment is configured")
	}
	return s.cfg.DefaultSegmentID, nil
}

var _ Sender = (*BroadcastSender)(nil)
