package delivery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// Winner scoring weights: clicks carry more intent than opens.
const (
	openRateWeight  = 0.4
	clickRateWeight = 0.6
)

// ABOrchestrator runs the two A/B phases. The test phase partitions the
// audience into disjoint A, B and remainder groups, sends both variants
// and persists the remainder; the winner phase scores the variants from
// delivery logs and sends the winning variant to the stored remainder.
type ABOrchestrator struct {
	campaignRepo    domain.CampaignRepository
	subscriberRepo  domain.SubscriberRepository
	deliveryLogRepo domain.DeliveryLogRepository
	sender          Sender
	clock           Clock
	logger          logger.Logger
}

func NewABOrchestrator(
	campaignRepo domain.CampaignRepository,
	subscriberRepo domain.SubscriberRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	sender Sender,
	clock Clock,
	log logger.Logger,
) *ABOrchestrator {
	return &ABOrchestrator{
		campaignRepo:    campaignRepo,
		subscriberRepo:  subscriberRepo,
		deliveryLogRepo: deliveryLogRepo,
		sender:          sender,
		clock:           clock,
		logger:          log,
	}
}

// ProcessTestPhase sends the variants for every campaign whose test
// window has opened (scheduled_at − ab_wait_hours ≤ now).
func (o *ABOrchestrator) ProcessTestPhase(ctx context.Context) error {
	now := o.clock.Now()
	campaigns, err := o.campaignRepo.ListDueABTestPhase(ctx, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to list due A/B test campaigns: %w", err)
	}
	for _, campaign := range campaigns {
		if err := o.runTestPhase(ctx, campaign, now); err != nil {
			o.logger.WithFields(map[string]interface{}{
				"campaign_id": campaign.ID,
				"error":       err.Error(),
			}).Error("A/B test phase failed")
			o.markFailed(ctx, campaign, now)
		}
	}
	return nil
}

func (o *ABOrchestrator) runTestPhase(ctx context.Context, campaign *domain.Campaign, now time.Time) error {
	targets, err := o.subscriberRepo.ListTargets(ctx, campaign.ContactListID)
	if err != nil {
		return fmt.Errorf("failed to resolve campaign targets: %w", err)
	}

	groupA, groupB, remainder, err := partition(targets)
	if err != nil {
		return err
	}

	remainderIDs := make([]string, len(remainder))
	for i, sub := range remainder {
		remainderIDs[i] = sub.ID
	}
	if err := o.campaignRepo.SaveABRemainder(ctx, campaign.ID, remainderIDs, now.Unix()); err != nil {
		return fmt.Errorf("failed to persist A/B remainder: %w", err)
	}

	variantA := domain.ABVariantA
	if _, err := o.sender.Send(ctx, o.variantRequest(campaign, &variantA, groupA)); err != nil {
		return fmt.Errorf("variant A send failed: %w", err)
	}
	variantB := domain.ABVariantB
	if _, err := o.sender.Send(ctx, o.variantRequest(campaign, &variantB, groupB)); err != nil {
		// Variant A is already out; retrying the whole phase would double
		// send, so the campaign fails here.
		return fmt.Errorf("variant B send failed: %w", err)
	}

	nowUnix := now.Unix()
	campaign.ABTestSentAt = &nowUnix
	campaign.UpdatedAt = nowUnix
	if err := o.campaignRepo.Update(ctx, campaign); err != nil {
		return fmt.Errorf("failed to record A/B test send: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"group_a":     len(groupA),
		"group_b":     len(groupB),
		"remainder":   len(remainder),
	}).Info("Dispatched A/B test phase")
	return nil
}

// ProcessWinnerPhase finishes every campaign whose wait window has
// elapsed: scores the variants, sends the winner to the remainder and
// closes the campaign.
func (o *ABOrchestrator) ProcessWinnerPhase(ctx context.Context) error {
	now := o.clock.Now()
	campaigns, err := o.campaignRepo.ListDueABWinnerPhase(ctx, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to list due A/B winner campaigns: %w", err)
	}
	for _, campaign := range campaigns {
		if err := o.runWinnerPhase(ctx, campaign, now); err != nil {
			o.logger.WithFields(map[string]interface{}{
				"campaign_id": campaign.ID,
				"error":       err.Error(),
			}).Error("A/B winner phase failed")
			o.markFailed(ctx, campaign, now)
		}
	}
	return nil
}

func (o *ABOrchestrator) runWinnerPhase(ctx context.Context, campaign *domain.Campaign, now time.Time) error {
	statsA, err := o.deliveryLogRepo.GetCampaignVariantStats(ctx, campaign.ID, domain.ABVariantA)
	if err != nil {
		return fmt.Errorf("failed to load variant A stats: %w", err)
	}
	statsB, err := o.deliveryLogRepo.GetCampaignVariantStats(ctx, campaign.ID, domain.ABVariantB)
	if err != nil {
		return fmt.Errorf("failed to load variant B stats: %w", err)
	}

	winner := PickWinner(statsA, statsB)

	remainderIDs, err := o.campaignRepo.GetABRemainder(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to load A/B remainder: %w", err)
	}

	// Consent is re-checked at dispatch time: anyone who unsubscribed
	// during the wait window drops out of the remainder here.
	targets := make([]*domain.Subscriber, 0, len(remainderIDs))
	for _, id := range remainderIDs {
		sub, err := o.subscriberRepo.GetByID(ctx, id)
		if err != nil {
			var notFound *domain.ErrSubscriberNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return fmt.Errorf("failed to load remainder subscriber: %w", err)
		}
		if sub.Status == domain.SubscriberStatusActive {
			targets = append(targets, sub)
		}
	}

	if len(targets) > 0 {
		if _, err := o.sender.Send(ctx, o.variantRequest(campaign, &winner, targets)); err != nil {
			return fmt.Errorf("winner send failed: %w", err)
		}
	}

	recipientCount, err := o.deliveryLogRepo.CountCampaignSent(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to count campaign recipients: %w", err)
	}

	nowUnix := now.Unix()
	campaign.Status = domain.CampaignStatusSent
	campaign.ABWinner = &winner
	campaign.SentAt = &nowUnix
	campaign.RecipientCount = &recipientCount
	campaign.UpdatedAt = nowUnix
	if err := o.campaignRepo.Update(ctx, campaign); err != nil {
		return fmt.Errorf("failed to close A/B campaign: %w", err)
	}

	if err := o.campaignRepo.DeleteABRemainder(ctx, campaign.ID); err != nil {
		o.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"error":       err.Error(),
		}).Warn("Failed to delete stored A/B remainder")
	}

	o.logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"winner":      string(winner),
		"recipients":  recipientCount,
	}).Info("Dispatched A/B winner phase")
	return nil
}

// variantRequest builds the send request for one variant: variant B
// carries its own subject and from-name when set, A and the winner of a
// tie use the campaign originals.
func (o *ABOrchestrator) variantRequest(campaign *domain.Campaign, variant *domain.ABVariant, targets []*domain.Subscriber) SendRequest {
	subject := campaign.Subject
	fromName := ""
	if *variant == domain.ABVariantB {
		if campaign.ABSubjectB != nil && *campaign.ABSubjectB != "" {
			subject = *campaign.ABSubjectB
		}
		if campaign.ABFromNameB != nil {
			fromName = *campaign.ABFromNameB
		}
	}
	templateID := ""
	if campaign.TemplateID != nil {
		templateID = *campaign.TemplateID
	}
	replyTo := ""
	if campaign.ReplyTo != nil {
		replyTo = *campaign.ReplyTo
	}
	return SendRequest{
		CampaignID:    &campaign.ID,
		ContactListID: campaign.ContactListID,
		TemplateID:    templateID,
		Subject:       subject,
		Content:       campaign.Content,
		FromName:      fromName,
		ReplyTo:       replyTo,
		ABVariant:     variant,
		Targets:       targets,
	}
}

func (o *ABOrchestrator) markFailed(ctx context.Context, campaign *domain.Campaign, now time.Time) {
	campaign.Status = domain.CampaignStatusFailed
	campaign.UpdatedAt = now.Unix()
	if err := o.campaignRepo.Update(ctx, campaign); err != nil {
		o.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"error":       err.Error(),
		}).Error("Failed to mark A/B campaign failed")
	}
}

// testFraction returns the share of the audience used for the test
// pool. Smaller audiences test a larger share so each arm still sees a
// meaningful sample.
func testFraction(n int) float64 {
	switch {
	case n < 50:
		return 0.4
	case n < 200:
		return 0.3
	case n < 1000:
		return 0.2
	}
	return 0.1
}

// partition splits the audience into disjoint A, B and remainder
// groups. The pool size is clipped so that the remainder is never
// empty; fewer than three subscribers cannot be partitioned.
func partition(targets []*domain.Subscriber) (groupA, groupB, remainder []*domain.Subscriber, err error) {
	n := len(targets)
	if n < 3 {
		return nil, nil, nil, fmt.Errorf("audience of %d is too small for an A/B test", n)
	}

	pool := int(float64(n) * testFraction(n))
	if pool < 2 {
		pool = 2
	}
	if pool > n-1 {
		pool = n - 1
	}

	shuffled := make([]*domain.Subscriber, n)
	copy(shuffled, targets)
	rand.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	sizeA := pool / 2
	if sizeA == 0 {
		sizeA = 1
	}
	return shuffled[:sizeA], shuffled[sizeA:pool], shuffled[pool:], nil
}

// PickWinner scores the two variants on weighted open and click rates.
// Ties, including the no-signal case, go to A.
func PickWinner(statsA, statsB *domain.DeliveryStats) domain.ABVariant {
	if variantScore(statsB) > variantScore(statsA) {
		return domain.ABVariantB
	}
	return domain.ABVariantA
}

func variantScore(stats *domain.DeliveryStats) float64 {
	if stats.TotalSent == 0 {
		return 0
	}
	sent := float64(stats.TotalSent)
	openRate := float64(stats.TotalOpened) / sent
	clickRate := float64(stats.TotalClicked) / sent
	return openRate*openRateWeight + clickRate*clickRateWeight
}
