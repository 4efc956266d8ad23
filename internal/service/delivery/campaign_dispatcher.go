package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// CampaignDispatcher sends due non-A/B scheduled campaigns. One-shot
// campaigns become sent (or failed, terminally); recurring campaigns
// stay scheduled with their scheduled_at advanced.
type CampaignDispatcher struct {
	campaignRepo   domain.CampaignRepository
	subscriberRepo domain.SubscriberRepository
	sender         Sender
	clock          Clock
	loc            *time.Location
	logger         logger.Logger
}

func NewCampaignDispatcher(
	campaignRepo domain.CampaignRepository,
	subscriberRepo domain.SubscriberRepository,
	sender Sender,
	clock Clock,
	regionalOffsetMinutes int,
	log logger.Logger,
) *CampaignDispatcher {
	return &CampaignDispatcher{
		campaignRepo:   campaignRepo,
		subscriberRepo: subscriberRepo,
		sender:         sender,
		clock:          clock,
		loc:            time.FixedZone("regional", regionalOffsetMinutes*60),
		logger:         log,
	}
}

// ProcessDue dispatches every due scheduled campaign in ascending
// scheduled_at order. A failed campaign is marked failed and the tick
// continues with the next one.
func (d *CampaignDispatcher) ProcessDue(ctx context.Context) error {
	now := d.clock.Now()
	campaigns, err := d.campaignRepo.ListDueScheduled(ctx, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to list due campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		if err := d.dispatch(ctx, campaign, now); err != nil {
			d.logger.WithFields(map[string]interface{}{
				"campaign_id": campaign.ID,
				"error":       err.Error(),
			}).Error("Campaign dispatch failed")
			d.markFailed(ctx, campaign, now)
		}
	}
	return nil
}

func (d *CampaignDispatcher) dispatch(ctx context.Context, campaign *domain.Campaign, now time.Time) error {
	targets, err := d.subscriberRepo.ListTargets(ctx, campaign.ContactListID)
	if err != nil {
		return fmt.Errorf("failed to resolve campaign targets: %w", err)
	}
	if len(targets) == 0 {
		return fmt.Errorf("campaign has no active recipients")
	}

	templateID := ""
	if campaign.TemplateID != nil {
		templateID = *campaign.TemplateID
	}
	replyTo := ""
	if campaign.ReplyTo != nil {
		replyTo = *campaign.ReplyTo
	}

	result, err := d.sender.Send(ctx, SendRequest{
		CampaignID:    &campaign.ID,
		ContactListID: campaign.ContactListID,
		TemplateID:    templateID,
		Subject:       campaign.Subject,
		Content:       campaign.Content,
		ReplyTo:       replyTo,
		Targets:       targets,
	})
	if err != nil {
		return err
	}

	nowUnix := now.Unix()
	if campaign.ScheduleType != domain.ScheduleTypeNone {
		next, err := NextRun(campaign.ScheduleType, campaign.ScheduleConfig, now, d.loc)
		if err != nil {
			return fmt.Errorf("failed to compute next run: %w", err)
		}
		campaign.LastSentAt = &nowUnix
		campaign.ScheduledAt = &next
	} else {
		campaign.Status = domain.CampaignStatusSent
		campaign.SentAt = &nowUnix
		campaign.RecipientCount = &result.Recipients
	}
	campaign.UpdatedAt = nowUnix
	if err := d.campaignRepo.Update(ctx, campaign); err != nil {
		return fmt.Errorf("failed to record campaign send: %w", err)
	}

	d.logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"recipients":  result.Recipients,
		"recurring":   campaign.ScheduleType != domain.ScheduleTypeNone,
	}).Info("Dispatched campaign")
	return nil
}

func (d *CampaignDispatcher) markFailed(ctx context.Context, campaign *domain.Campaign, now time.Time) {
	campaign.Status = domain.CampaignStatusFailed
	campaign.UpdatedAt = now.Unix()
	if err := d.campaignRepo.Update(ctx, campaign); err != nil {
		d.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"error":       err.Error(),
		}).Error("Failed to mark campaign failed")
	}
}
