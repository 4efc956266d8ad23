package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// TransactionalSender dispatches one personalised email per target
// through the provider's batch endpoint and records one delivery log
// per recipient with the per-recipient provider message id.
type TransactionalSender struct {
	renderer        domain.TemplateRenderer
	brandRepo       domain.BrandSettingsRepository
	deliveryLogRepo domain.DeliveryLogRepository
	providerClient  domain.ProviderClient
	clock           Clock
	cfg             SenderConfig
	logger          logger.Logger
}

func NewTransactionalSender(
	renderer domain.TemplateRenderer,
	brandRepo domain.BrandSettingsRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	providerClient domain.ProviderClient,
	clock Clock,
	cfg SenderConfig,
	log logger.Logger,
) *TransactionalSender {
	return &TransactionalSender{
		renderer:        renderer,
		brandRepo:       brandRepo,
		deliveryLogRepo: deliveryLogRepo,
		providerClient:  providerClient,
		clock:           clock,
		cfg:             cfg,
		logger:          log,
	}
}

func (s *TransactionalSender) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if len(req.Targets) == 0 {
		return &SendResult{}, nil
	}

	brand, err := s.brandRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand settings: %w", err)
	}

	messages := make([]domain.EmailMessage, 0, len(req.Targets))
	for _, target := range req.Targets {
		html, err := s.renderer.Render(ctx, domain.RenderInput{
			TemplateID:     req.TemplateID,
			Subject:        req.Subject,
			Content:        req.Content,
			Brand:          brand,
			SubscriberName: target.DisplayName(),
			UnsubscribeURL: s.cfg.unsubscribeURL(target.UnsubscribeToken),
			SiteURL:        s.cfg.SiteURL,
			CampaignID:     req.CampaignID,
			SequenceStepID: req.SequenceStepID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render email for %s: %w", target.Email, err)
		}
		messages = append(messages, domain.EmailMessage{
			From:    s.cfg.fromAddress(req.FromName),
			To:      target.Email,
			ReplyTo: s.cfg.replyTo(req.ReplyTo),
			Subject: req.Subject,
			HTML:    html,
		})
	}

	ids, err := s.providerClient.SendBatch(ctx, messages)
	if err != nil {
		return nil, err
	}

	// The send has been acknowledged; log writes from here on are
	// best-effort and must never trigger a resend.
	now := s.clock.Now().Unix()
	for i, target := range req.Targets {
		messageID := ids[i]
		subject := req.Subject
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
				"subscriber_id":       target.ID,
				"provider_message_id": messageID,
				"error":               err.Error(),
			}).Error("Send acknowledged but delivery log write failed, NOT resending")
		}
	}

	return &SendResult{Recipients: len(ids)}, nil
}

var _ Sender = (*TransactionalSender)(nil)
