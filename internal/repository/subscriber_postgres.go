package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/postwind/postwind/internal/domain"
)

type subscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new PostgreSQL subscriber repository
func NewSubscriberRepository(db *sql.DB) domain.SubscriberRepository {
	return &subscriberRepository{db: db}
}

const subscriberSelectFields = `id, email, name, status, unsubscribe_token, subscribed_at, unsubscribed_at, created_at`

func scanSubscriber(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := scanner.Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.Status,
		&s.UnsubscribeToken,
		&s.SubscribedAt,
		&s.UnsubscribedAt,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, email, name, status, unsubscribe_token, subscribed_at, unsubscribed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		subscriber.ID,
		subscriber.Email,
		subscriber.Name,
		subscriber.Status,
		subscriber.UnsubscribeToken,
		subscriber.SubscribedAt,
		subscriber.UnsubscribedAt,
		subscriber.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

func (r *subscriberRepository) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscribers WHERE id = $1`, subscriberSelectFields)

	subscriber, err := scanSubscriber(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return subscriber, nil
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscribers WHERE email = $1`, subscriberSelectFields)

	subscriber, err := scanSubscriber(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}
	return subscriber, nil
}

func (r *subscriberRepository) GetByUnsubscribeToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscribers WHERE unsubscribe_token = $1`, subscriberSelectFields)

	subscriber, err := scanSubscriber(r.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber by token: %w", err)
	}
	return subscriber, nil
}

func (r *subscriberRepository) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		UPDATE subscribers
		SET email = $1, name = $2, status = $3, subscribed_at = $4, unsubscribed_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		subscriber.Email,
		subscriber.Name,
		subscriber.Status,
		subscriber.SubscribedAt,
		subscriber.UnsubscribedAt,
		subscriber.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrSubscriberNotFound{Message: "subscriber not found"}
	}
	return nil
}

func (r *subscriberRepository) List(ctx context.Context, params domain.SubscriberListParams) ([]*domain.Subscriber, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.ListID != "" {
		args = append(args, params.ListID)
		where = append(where, fmt.Sprintf(
			"id IN (SELECT subscriber_id FROM list_members WHERE list_id = $%d)", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM subscribers` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM subscribers%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		subscriberSelectFields, whereClause, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating subscriber rows: %w", err)
	}
	return subscribers, total, nil
}

func (r *subscriberRepository) ListTargets(ctx context.Context, contactListID *string) ([]*domain.Subscriber, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if contactListID != nil {
		query := fmt.Sprintf(`
			SELECT %s FROM subscribers s
			JOIN list_members lm ON lm.subscriber_id = s.id
			WHERE lm.list_id = $1 AND s.status = 'active'
			ORDER BY s.created_at
		`, prefixFields("s.", subscriberSelectFields))
		rows, err = r.db.QueryContext(ctx, query, *contactListID)
	} else {
		query := fmt.Sprintf(`
			SELECT %s FROM subscribers
			WHERE status = 'active'
			ORDER BY created_at
		`, subscriberSelectFields)
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list target subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriber rows: %w", err)
	}
	return subscribers, nil
}

func (r *subscriberRepository) MarkUnsubscribed(ctx context.Context, id string, now int64) error {
	query := `
		UPDATE subscribers
		SET status = 'unsubscribed', unsubscribed_at = $1
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark subscriber unsubscribed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrSubscriberNotFound{Message: "subscriber not found"}
	}
	return nil
}

// prefixFields prefixes each comma-separated column with a table alias.
func prefixFields(prefix, fields string) string {
	cols := strings.Split(fields, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
