package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// DeliveryEventService folds provider webhook events into delivery logs,
// applying the status chain rules: the cursor only advances, failures
// never downgrade recorded successes, and success events never overwrite
// a recorded failure.
type DeliveryEventService struct {
	deliveryLogRepo domain.DeliveryLogRepository
	logger          logger.Logger
}

func NewDeliveryEventService(deliveryLogRepo domain.DeliveryLogRepository, log logger.Logger) *DeliveryEventService {
	return &DeliveryEventService{
		deliveryLogRepo: deliveryLogRepo,
		logger:          log,
	}
}

// HandleEvent processes one webhook payload. Events that cannot be
// correlated to a delivery log are dropped with a warning: the provider
// retries webhooks, and a log row that never existed will not appear.
func (s *DeliveryEventService) HandleEvent(ctx context.Context, payload *domain.EmailWebhookPayload) error {
	newStatus, err := payload.DeliveryStatus()
	if err != nil {
		return err
	}

	log, err := s.correlate(ctx, payload)
	if err != nil {
		var notFound *domain.ErrDeliveryLogNotFound
		if errors.As(err, &notFound) {
			s.logger.WithFields(map[string]interface{}{
				"provider_message_id": payload.Data.EmailID,
				"event":               string(payload.Type),
			}).Warn("Webhook event did not match any delivery log")
			return nil
		}
		return fmt.Errorf("failed to correlate webhook event: %w", err)
	}

	occurred := payload.OccurredAt(time.Now())

	if payload.Type == domain.EmailEventClicked && payload.Data.Click != nil {
		inserted, err := s.deliveryLogRepo.InsertClickEvent(ctx, &domain.ClickEvent{
			ID:            uuid.New().String(),
			DeliveryLogID: log.ID,
			SubscriberID:  log.SubscriberID,
			ClickedURL:    payload.Data.Click.Link,
			ClickedAt:     occurred,
		})
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"delivery_log_id": log.ID,
				"error":           err.Error(),
			}).Error("Failed to record click event")
		} else if !inserted {
			s.logger.WithField("delivery_log_id", log.ID).Debug("Duplicate click within dedup window, skipped")
		}
	}

	if newStatus.IsFailure() {
		log.Status = newStatus
		if msg := payload.ErrorMessage(); msg != nil {
			log.ErrorMessage = msg
		}
		if err := s.deliveryLogRepo.Update(ctx, log); err != nil {
			return fmt.Errorf("failed to update delivery log: %w", err)
		}
		return nil
	}

	if !log.Status.IsFailure() && log.Status.Rank() >= newStatus.Rank() {
		s.logger.WithFields(map[string]interface{}{
			"delivery_log_id": log.ID,
			"current_status":  string(log.Status),
			"event_status":    string(newStatus),
		}).Debug("Skipped non-advancing webhook event")
		return nil
	}

	// A success event after a recorded failure keeps the failure status
	// but still records its timestamps.
	if !log.Status.IsFailure() {
		log.Status = newStatus
	}
	switch newStatus {
	case domain.DeliveryStatusDelivered:
		if log.DeliveredAt == nil {
			log.DeliveredAt = &occurred
		}
	case domain.DeliveryStatusOpened:
		if log.OpenedAt == nil {
			log.OpenedAt = &occurred
		}
		if log.DeliveredAt == nil {
			log.DeliveredAt = &occurred
		}
	case domain.DeliveryStatusClicked:
		if log.ClickedAt == nil {
			log.ClickedAt = &occurred
		}
		if log.OpenedAt == nil {
			log.OpenedAt = &occurred
		}
		if log.DeliveredAt == nil {
			log.DeliveredAt = &occurred
		}
	}

	if err := s.deliveryLogRepo.Update(ctx, log); err != nil {
		return fmt.Errorf("failed to update delivery log: %w", err)
	}
	return nil
}

// correlate resolves the event to a delivery log. Transactional sends
// carry a unique provider message id; broadcast sends share one id
// across recipients, so the recipient email narrows the lookup first and
// the bare id is the fallback.
func (s *DeliveryEventService) correlate(ctx context.Context, payload *domain.EmailWebhookPayload) (*domain.DeliveryLog, error) {
	email := payload.RecipientEmail()
	if email != "" {
		log, err := s.deliveryLogRepo.GetByProviderMessageID(ctx, payload.Data.EmailID, email)
		if err == nil {
			return log, nil
		}
		var notFound *domain.ErrDeliveryLogNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return s.deliveryLogRepo.GetByProviderMessageID(ctx, payload.Data.EmailID, "")
}
