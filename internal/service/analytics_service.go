package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// recentCampaignsLimit bounds the dashboard campaign list.
const recentCampaignsLimit = 10

// Dashboard is the admin landing payload: audience counts, global
// delivery outcomes and the most recent campaigns.
type Dashboard struct {
	TotalSubscribers        int                   `json:"total_subscribers"`
	ActiveSubscribers       int                   `json:"active_subscribers"`
	PendingSubscribers      int                   `json:"pending_subscribers"`
	UnsubscribedSubscribers int                   `json:"unsubscribed_subscribers"`
	Stats                   *domain.DeliveryStats `json:"stats"`
	OpenRate                int                   `json:"open_rate"`
	ClickRate               int                   `json:"click_rate"`
	RecentCampaigns         []*domain.Campaign    `json:"recent_campaigns"`
}

// AnalyticsService assembles the dashboard and the cross-campaign
// overview, fanning independent queries out concurrently.
type AnalyticsService struct {
	subscriberRepo  domain.SubscriberRepository
	campaignRepo    domain.CampaignRepository
	deliveryLogRepo domain.DeliveryLogRepository
	logger          logger.Logger
}

func NewAnalyticsService(
	subscriberRepo domain.SubscriberRepository,
	campaignRepo domain.CampaignRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	log logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		subscriberRepo:  subscriberRepo,
		campaignRepo:    campaignRepo,
		deliveryLogRepo: deliveryLogRepo,
		logger:          log,
	}
}

func (s *AnalyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.countSubscribers(gctx, "")
		dashboard.TotalSubscribers = total
		return err
	})
	g.Go(func() error {
		active, err := s.countSubscribers(gctx, domain.SubscriberStatusActive)
		dashboard.ActiveSubscribers = active
		return err
	})
	g.Go(func() error {
		pending, err := s.countSubscribers(gctx, domain.SubscriberStatusPending)
		dashboard.PendingSubscribers = pending
		return err
	})
	g.Go(func() error {
		unsubscribed, err := s.countSubscribers(gctx, domain.SubscriberStatusUnsubscribed)
		dashboard.UnsubscribedSubscribers = unsubscribed
		return err
	})
	g.Go(func() error {
		stats, err := s.deliveryLogRepo.GetGlobalStats(gctx)
		if err != nil {
			return fmt.Errorf("failed to load global stats: %w", err)
		}
		dashboard.Stats = stats
		return nil
	})
	g.Go(func() error {
		campaigns, err := s.campaignRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list campaigns: %w", err)
		}
		if len(campaigns) > recentCampaignsLimit {
			campaigns = campaigns[:recentCampaignsLimit]
		}
		dashboard.RecentCampaigns = campaigns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard.OpenRate = dashboard.Stats.OpenRate()
	dashboard.ClickRate = dashboard.Stats.ClickRate()
	return dashboard, nil
}

// CampaignPerformance is one row of the overview series: a sent
// campaign with its delivery outcomes and rates.
type CampaignPerformance struct {
	CampaignID     string                `json:"campaign_id"`
	Subject        string                `json:"subject"`
	SentAt         *int64                `json:"sent_at,omitempty"`
	RecipientCount *int                  `json:"recipient_count,omitempty"`
	Stats          *domain.DeliveryStats `json:"stats"`
	OpenRate       int                   `json:"open_rate"`
	ClickRate      int                   `json:"click_rate"`
}

// AnalyticsOverview is the cross-campaign analytics payload: global
// delivery outcomes plus a per-campaign rate series.
type AnalyticsOverview struct {
	Stats     *domain.DeliveryStats  `json:"stats"`
	OpenRate  int                    `json:"open_rate"`
	ClickRate int                    `json:"click_rate"`
	Campaigns []*CampaignPerformance `json:"campaigns"`
}

func (s *AnalyticsService) GetOverview(ctx context.Context) (*AnalyticsOverview, error) {
	overview := &AnalyticsOverview{Campaigns: []*CampaignPerformance{}}
	var campaigns []*domain.Campaign

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.deliveryLogRepo.GetGlobalStats(gctx)
		if err != nil {
			return fmt.Errorf("failed to load global stats: %w", err)
		}
		overview.Stats = stats
		return nil
	})
	g.Go(func() error {
		all, err := s.campaignRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list campaigns: %w", err)
		}
		campaigns = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview.OpenRate = overview.Stats.OpenRate()
	overview.ClickRate = overview.Stats.ClickRate()

	for _, campaign := range campaigns {
		// Drafts and never-sent scheduled campaigns have no outcomes to
		// report.
		if campaign.SentAt == nil && campaign.LastSentAt == nil {
			continue
		}
		stats, err := s.deliveryLogRepo.GetCampaignStats(ctx, campaign.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for campaign %s: %w", campaign.ID, err)
		}
		overview.Campaigns = append(overview.Campaigns, &CampaignPerformance{
			CampaignID:     campaign.ID,
			Subject:        campaign.Subject,
			SentAt:         campaign.SentAt,
			RecipientCount: campaign.RecipientCount,
			Stats:          stats,
			OpenRate:       stats.OpenRate(),
			ClickRate:      stats.ClickRate(),
		})
	}
	return overview, nil
}

func (s *AnalyticsService) countSubscribers(ctx context.Context, status domain.SubscriberStatus) (int, error) {
	params := domain.SubscriberListParams{Status: status, Limit: 1}
	if err := params.Validate(); err != nil {
		return 0, err
	}
	_, total, err := s.subscriberRepo.List(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return total, nil
}
