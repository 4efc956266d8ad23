package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// excerptMaxRunes bounds the auto-derived archive excerpt.
const excerptMaxRunes = 200

// CampaignTracking is the per-campaign analytics payload, including the
// per-variant split for A/B campaigns and the tracked links.
type CampaignTracking struct {
	Campaign  *domain.Campaign      `json:"campaign"`
	Stats     *domain.DeliveryStats `json:"stats"`
	VariantA  *domain.DeliveryStats `json:"variant_a,omitempty"`
	VariantB  *domain.DeliveryStats `json:"variant_b,omitempty"`
	OpenRate  int                   `json:"open_rate"`
	ClickRate int                   `json:"click_rate"`
	Links     []*domain.ShortURL    `json:"links"`
}

// CampaignService owns admin campaign CRUD and the tracking/archive
// read models. Sent campaigns are immutable.
type CampaignService struct {
	campaignRepo    domain.CampaignRepository
	deliveryLogRepo domain.DeliveryLogRepository
	shortURLRepo    domain.ShortURLRepository
	logger          logger.Logger
}

func NewCampaignService(
	campaignRepo domain.CampaignRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	shortURLRepo domain.ShortURLRepository,
	log logger.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:    campaignRepo,
		deliveryLogRepo: deliveryLogRepo,
		shortURLRepo:    shortURLRepo,
		logger:          log,
	}
}

func (s *CampaignService) Create(ctx context.Context, campaign *domain.Campaign) error {
	if campaign.Status == "" {
		campaign.Status = domain.CampaignStatusDraft
	}
	if err := campaign.Validate(); err != nil {
		return err
	}
	now := time.Now().Unix()
	campaign.ID = uuid.New().String()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	s.deriveExcerpt(campaign)
	return s.campaignRepo.Create(ctx, campaign)
}

func (s *CampaignService) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

func (s *CampaignService) List(ctx context.Context) ([]*domain.Campaign, error) {
	return s.campaignRepo.List(ctx)
}

// Update applies admin edits. A campaign that has left the mutable
// states (draft, scheduled) rejects edits.
func (s *CampaignService) Update(ctx context.Context, campaign *domain.Campaign) error {
	existing, err := s.campaignRepo.GetByID(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if !existing.IsMutable() {
		return fmt.Errorf("campaign %s is %s and can no longer be edited", campaign.ID, existing.Status)
	}
	if err := campaign.Validate(); err != nil {
		return err
	}

	// Dispatch bookkeeping is owned by the scheduler, not the admin API.
	campaign.SentAt = existing.SentAt
	campaign.LastSentAt = existing.LastSentAt
	campaign.RecipientCount = existing.RecipientCount
	campaign.ABTestSentAt = existing.ABTestSentAt
	campaign.ABWinner = existing.ABWinner
	campaign.CreatedAt = existing.CreatedAt
	campaign.UpdatedAt = time.Now().Unix()
	s.deriveExcerpt(campaign)
	return s.campaignRepo.Update(ctx, campaign)
}

// Delete removes a campaign. Only drafts may be deleted; scheduled
// campaigns must be unscheduled first and sent history is permanent.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if campaign.Status != domain.CampaignStatusDraft {
		return fmt.Errorf("only draft campaigns can be deleted, campaign %s is %s", id, campaign.Status)
	}
	return s.campaignRepo.Delete(ctx, id)
}

// GetTracking assembles the per-campaign analytics view.
func (s *CampaignService) GetTracking(ctx context.Context, id string) (*CampaignTracking, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.deliveryLogRepo.GetCampaignStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign stats: %w", err)
	}

	links, err := s.shortURLRepo.ListByCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked links: %w", err)
	}

	tracking := &CampaignTracking{
		Campaign:  campaign,
		Stats:     stats,
		OpenRate:  stats.OpenRate(),
		ClickRate: stats.ClickRate(),
		Links:     links,
	}

	if campaign.ABTestEnabled {
		variantA, err := s.deliveryLogRepo.GetCampaignVariantStats(ctx, id, domain.ABVariantA)
		if err != nil {
			return nil, fmt.Errorf("failed to load variant A stats: %w", err)
		}
		variantB, err := s.deliveryLogRepo.GetCampaignVariantStats(ctx, id, domain.ABVariantB)
		if err != nil {
			return nil, fmt.Errorf("failed to load variant B stats: %w", err)
		}
		tracking.VariantA = variantA
		tracking.VariantB = variantB
	}
	return tracking, nil
}

// ListArchive returns sent, published campaigns for the public archive.
func (s *CampaignService) ListArchive(ctx context.Context) ([]*domain.Campaign, error) {
	return s.campaignRepo.ListArchive(ctx)
}

func (s *CampaignService) GetArchiveBySlug(ctx context.Context, slug string) (*domain.Campaign, error) {
	return s.campaignRepo.GetArchiveBySlug(ctx, slug)
}

// deriveExcerpt fills in a missing archive excerpt from the campaign
// content when the campaign is published.
func (s *CampaignService) deriveExcerpt(campaign *domain.Campaign) {
	if !campaign.IsPublished {
		return
	}
	if campaign.Excerpt != nil && strings.TrimSpace(*campaign.Excerpt) != "" {
		return
	}
	excerpt := extractExcerpt(campaign.Content)
	if excerpt != "" {
		campaign.Excerpt = &excerpt
	}
}

// extractExcerpt reduces HTML to its first excerptMaxRunes runes of
// text. Non-HTML content passes through unchanged apart from the cut.
func extractExcerpt(content string) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > excerptMaxRunes {
		return string(runes[:excerptMaxRunes])
	}
	return text
}
