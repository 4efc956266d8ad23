package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/postwind/postwind/internal/domain"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new PostgreSQL campaign repository
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &campaignRepository{db: db}
}

const campaignSelectFields = `id, subject, content, status, scheduled_at, schedule_type, schedule_config,
	last_sent_at, sent_at, recipient_count, contact_list_id, template_id, reply_to,
	slug, is_published, excerpt,
	ab_test_enabled, ab_subject_b, ab_from_name_b, ab_wait_hours, ab_test_sent_at, ab_winner,
	created_at, updated_at`

func scanCampaign(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Campaign, error) {
	var (
		c      domain.Campaign
		config domain.ScheduleConfig
		hasCfg sql.NullString
	)
	err := scanner.Scan(
		&c.ID,
		&c.Subject,
		&c.Content,
		&c.Status,
		&c.ScheduledAt,
		&c.ScheduleType,
		&hasCfg,
		&c.LastSentAt,
		&c.SentAt,
		&c.RecipientCount,
		&c.ContactListID,
		&c.TemplateID,
		&c.ReplyTo,
		&c.Slug,
		&c.IsPublished,
		&c.Excerpt,
		&c.ABTestEnabled,
		&c.ABSubjectB,
		&c.ABFromNameB,
		&c.ABWaitHours,
		&c.ABTestSentAt,
		&c.ABWinner,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if hasCfg.Valid && hasCfg.String != "" {
		if err := config.Scan([]byte(hasCfg.String)); err != nil {
			return nil, fmt.Errorf("failed to decode schedule config: %w", err)
		}
		c.ScheduleConfig = &config
	}
	return &c, nil
}

// scheduleConfigValue returns the JSONB parameter for a campaign write.
func scheduleConfigValue(c *domain.Campaign) (interface{}, error) {
	if c.ScheduleConfig == nil {
		return nil, nil
	}
	return c.ScheduleConfig.Value()
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	cfg, err := scheduleConfigValue(campaign)
	if err != nil {
		return fmt.Errorf("failed to encode schedule config: %w", err)
	}

	query := `
		INSERT INTO campaigns (
			id, subject, content, status, scheduled_at, schedule_type, schedule_config,
			last_sent_at, sent_at, recipient_count, contact_list_id, template_id, reply_to,
			slug, is_published, excerpt,
			ab_test_enabled, ab_subject_b, ab_from_name_b, ab_wait_hours, ab_test_sent_at, ab_winner,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`
	_, err = r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.Subject,
		campaign.Content,
		campaign.Status,
		campaign.ScheduledAt,
		campaign.ScheduleType,
		cfg,
		campaign.LastSentAt,
		campaign.SentAt,
		campaign.RecipientCount,
		campaign.ContactListID,
		campaign.TemplateID,
		campaign.ReplyTo,
		campaign.Slug,
		campaign.IsPublished,
		campaign.Excerpt,
		campaign.ABTestEnabled,
		campaign.ABSubjectB,
		campaign.ABFromNameB,
		campaign.ABWaitHours,
		campaign.ABTestSentAt,
		campaign.ABWinner,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignSelectFields)

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (r *campaignRepository) List(ctx context.Context) ([]*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns ORDER BY created_at DESC`, campaignSelectFields)
	return r.queryCampaigns(ctx, query)
}

func (r *campaignRepository) queryCampaigns(ctx context.Context, query string, args ...interface{}) ([]*domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	cfg, err := scheduleConfigValue(campaign)
	if err != nil {
		return fmt.Errorf("failed to encode schedule config: %w", err)
	}

	query := `
		UPDATE campaigns
		SET subject = $1, content = $2, status = $3, scheduled_at = $4, schedule_type = $5,
			schedule_config = $6, last_sent_at = $7, sent_at = $8, recipient_count = $9,
			contact_list_id = $10, template_id = $11, reply_to = $12,
			slug = $13, is_published = $14, excerpt = $15,
			ab_test_enabled = $16, ab_subject_b = $17, ab_from_name_b = $18,
			ab_wait_hours = $19, ab_test_sent_at = $20, ab_winner = $21,
			updated_at = $22
		WHERE id = $23
	`
	result, err := r.db.ExecContext(ctx, query,
		campaign.Subject,
		campaign.Content,
		campaign.Status,
		campaign.ScheduledAt,
		campaign.ScheduleType,
		cfg,
		campaign.LastSentAt,
		campaign.SentAt,
		campaign.RecipientCount,
		campaign.ContactListID,
		campaign.TemplateID,
		campaign.ReplyTo,
		campaign.Slug,
		campaign.IsPublished,
		campaign.Excerpt,
		campaign.ABTestEnabled,
		campaign.ABSubjectB,
		campaign.ABFromNameB,
		campaign.ABWaitHours,
		campaign.ABTestSentAt,
		campaign.ABWinner,
		campaign.UpdatedAt,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	return nil
}

func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	return nil
}

func (r *campaignRepository) ListDueScheduled(ctx context.Context, now int64) ([]*domain.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE status = 'scheduled'
		  AND ab_test_enabled = FALSE
		  AND scheduled_at IS NOT NULL
		  AND scheduled_at <= $1
		ORDER BY scheduled_at
	`, campaignSelectFields)
	return r.queryCampaigns(ctx, query, now)
}

func (r *campaignRepository) ListDueABTestPhase(ctx context.Context, now int64) ([]*domain.Campaign, error) {
	// The test phase fires ab_wait_hours before the scheduled time so the
	// winner phase can land on schedule.
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE status = 'scheduled'
		  AND ab_test_enabled = TRUE
		  AND ab_test_sent_at IS NULL
		  AND scheduled_at IS NOT NULL
		  AND scheduled_at - ab_wait_hours * 3600 <= $1
		ORDER BY scheduled_at
	`, campaignSelectFields)
	return r.queryCampaigns(ctx, query, now)
}

func (r *campaignRepository) ListDueABWinnerPhase(ctx context.Context, now int64) ([]*domain.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE status = 'scheduled'
		  AND ab_test_enabled = TRUE
		  AND ab_test_sent_at IS NOT NULL
		  AND scheduled_at IS NOT NULL
		  AND scheduled_at <= $1
		ORDER BY scheduled_at
	`, campaignSelectFields)
	return r.queryCampaigns(ctx, query, now)
}

func (r *campaignRepository) SaveABRemainder(ctx context.Context, campaignID string, subscriberIDs []string, now int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ab_test_remainders WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("failed to clear previous remainder: %w", err)
	}

	for _, subscriberID := range subscriberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ab_test_remainders (campaign_id, subscriber_id, created_at) VALUES ($1, $2, $3)`,
			campaignID, subscriberID, now); err != nil {
			return fmt.Errorf("failed to save remainder subscriber: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit remainder: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetABRemainder(ctx context.Context, campaignID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subscriber_id FROM ab_test_remainders WHERE campaign_id = $1 ORDER BY subscriber_id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get remainder: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan remainder row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating remainder rows: %w", err)
	}
	return ids, nil
}

func (r *campaignRepository) DeleteABRemainder(ctx context.Context, campaignID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ab_test_remainders WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete remainder: %w", err)
	}
	return nil
}

func (r *campaignRepository) ListArchive(ctx context.Context) ([]*domain.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE status = 'sent' AND is_published = TRUE AND slug IS NOT NULL
		ORDER BY sent_at DESC
	`, campaignSelectFields)
	return r.queryCampaigns(ctx, query)
}

func (r *campaignRepository) GetArchiveBySlug(ctx context.Context, slug string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE slug = $1 AND status = 'sent' AND is_published = TRUE
	`, campaignSelectFields)

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive campaign: %w", err)
	}
	return campaign, nil
}
