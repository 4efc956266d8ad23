package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/postwind/postwind/internal/domain"
)

type deliveryLogRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewDeliveryLogRepository creates a new PostgreSQL delivery log repository
func NewDeliveryLogRepository(db *sql.DB) domain.DeliveryLogRepository {
	return &deliveryLogRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var deliveryLogColumns = []string{
	"id", "campaign_id", "sequence_id", "sequence_step_id", "subscriber_id",
	"email", "email_subject", "ab_variant", "status", "provider_message_id",
	"sent_at", "delivered_at", "opened_at", "clicked_at", "error_message", "created_at",
}

func scanDeliveryLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.DeliveryLog, error) {
	var l domain.DeliveryLog
	err := scanner.Scan(
		&l.ID,
		&l.CampaignID,
		&l.SequenceID,
		&l.SequenceStepID,
		&l.SubscriberID,
		&l.Email,
		&l.EmailSubject,
		&l.ABVariant,
		&l.Status,
		&l.ProviderMessageID,
		&l.SentAt,
		&l.DeliveredAt,
		&l.OpenedAt,
		&l.ClickedAt,
		&l.ErrorMessage,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *deliveryLogRepository) Create(ctx context.Context, log *domain.DeliveryLog) error {
	query, args, err := r.sb.Insert("delivery_logs").
		Columns(deliveryLogColumns...).
		Values(
			log.ID, log.CampaignID, log.SequenceID, log.SequenceStepID, log.SubscriberID,
			log.Email, log.EmailSubject, log.ABVariant, log.Status, log.ProviderMessageID,
			log.SentAt, log.DeliveredAt, log.OpenedAt, log.ClickedAt, log.ErrorMessage, log.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create delivery log: %w", err)
	}
	return nil
}

func (r *deliveryLogRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryLog, error) {
	query, args, err := r.sb.Select(deliveryLogColumns...).
		From("delivery_logs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	log, err := scanDeliveryLog(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log: %w", err)
	}
	return log, nil
}

func (r *deliveryLogRepository) GetByProviderMessageID(ctx context.Context, providerMessageID, email string) (*domain.DeliveryLog, error) {
	builder := r.sb.Select(deliveryLogColumns...).
		From("delivery_logs").
		Where(sq.Eq{"provider_message_id": providerMessageID})
	if email != "" {
		builder = builder.Where(sq.Eq{"email": email})
	}
	query, args, err := builder.OrderBy("created_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	log, err := scanDeliveryLog(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log by provider message id: %w", err)
	}
	return log, nil
}

func (r *deliveryLogRepository) GetLatestSequenceLog(ctx context.Context, subscriberID, sequenceID, stepID string) (*domain.DeliveryLog, error) {
	query, args, err := r.sb.Select(deliveryLogColumns...).
		From("delivery_logs").
		Where(sq.Eq{
			"subscriber_id":    subscriberID,
			"sequence_id":      sequenceID,
			"sequence_step_id": stepID,
		}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	log, err := scanDeliveryLog(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sequence log: %w", err)
	}
	return log, nil
}

func (r *deliveryLogRepository) Update(ctx context.Context, log *domain.DeliveryLog) error {
	query, args, err := r.sb.Update("delivery_logs").
		Set("status", log.Status).
		Set("provider_message_id", log.ProviderMessageID).
		Set("sent_at", log.SentAt).
		Set("delivered_at", log.DeliveredAt).
		Set("opened_at", log.OpenedAt).
		Set("clicked_at", log.ClickedAt).
		Set("error_message", log.ErrorMessage).
		Where(sq.Eq{"id": log.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update delivery log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"}
	}
	return nil
}

func (r *deliveryLogRepository) List(ctx context.Context, params domain.DeliveryListParams) ([]*domain.DeliveryLog, int, error) {
	filters := sq.Eq{}
	if params.CampaignID != "" {
		filters["campaign_id"] = params.CampaignID
	}
	if params.SequenceID != "" {
		filters["sequence_id"] = params.SequenceID
	}
	if params.SubscriberID != "" {
		filters["subscriber_id"] = params.SubscriberID
	}
	if params.Status != "" {
		filters["status"] = params.Status
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").
		From("delivery_logs").
		Where(filters).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count delivery logs: %w", err)
	}

	query, args, err := r.sb.Select(deliveryLogColumns...).
		From("delivery_logs").
		Where(filters).
		OrderBy("created_at DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list delivery logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.DeliveryLog
	for rows.Next() {
		log, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating delivery log rows: %w", err)
	}
	return logs, total, nil
}

func (r *deliveryLogRepository) InsertClickEvent(ctx context.Context, event *domain.ClickEvent) (bool, error) {
	// A repeated click on the same link of the same message within the
	// dedup window is a no-op.
	query := `
		INSERT INTO click_events (id, delivery_log_id, subscriber_id, clicked_url, clicked_at)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM click_events
			WHERE delivery_log_id = $2 AND clicked_url = $4 AND clicked_at > $5 - $6
		)
	`
	result, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.DeliveryLogID,
		event.SubscriberID,
		event.ClickedURL,
		event.ClickedAt,
		int64(domain.ClickDedupWindowSeconds),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert click event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// statsColumns counts from the timestamp columns rather than the status
// cursor, so delivered includes every row delivered or beyond.
var statsColumns = []string{
	"COUNT(sent_at)",
	"COUNT(delivered_at)",
	"COUNT(opened_at)",
	"COUNT(clicked_at)",
	"COUNT(*) FILTER (WHERE status = 'bounced')",
	"COUNT(*) FILTER (WHERE status = 'failed')",
}

func (r *deliveryLogRepository) queryStats(ctx context.Context, where interface{}) (*domain.DeliveryStats, error) {
	builder := r.sb.Select(statsColumns...).From("delivery_logs")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	var stats domain.DeliveryStats
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalSent,
		&stats.TotalDelivered,
		&stats.TotalOpened,
		&stats.TotalClicked,
		&stats.TotalBounced,
		&stats.TotalFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery stats: %w", err)
	}
	return &stats, nil
}

func (r *deliveryLogRepository) GetCampaignStats(ctx context.Context, campaignID string) (*domain.DeliveryStats, error) {
	return r.queryStats(ctx, sq.Eq{"campaign_id": campaignID})
}

func (r *deliveryLogRepository) GetCampaignVariantStats(ctx context.Context, campaignID string, variant domain.ABVariant) (*domain.DeliveryStats, error) {
	return r.queryStats(ctx, sq.Eq{"campaign_id": campaignID, "ab_variant": variant})
}

func (r *deliveryLogRepository) GetGlobalStats(ctx context.Context) (*domain.DeliveryStats, error) {
	return r.queryStats(ctx, nil)
}

func (r *deliveryLogRepository) CountCampaignSent(ctx context.Context, campaignID string) (int, error) {
	query, args, err := r.sb.Select("COUNT(sent_at)").
		From("delivery_logs").
		Where(sq.Eq{"campaign_id": campaignID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sent logs: %w", err)
	}
	return count, nil
}
