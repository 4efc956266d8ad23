package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/postwind/postwind/internal/domain"
)

type shortURLRepository struct {
	db *sql.DB
}

// NewShortURLRepository creates a new PostgreSQL short URL repository
func NewShortURLRepository(db *sql.DB) domain.ShortURLRepository {
	return &shortURLRepository{db: db}
}

const shortURLSelectFields = `id, short_code, original_url, position, campaign_id, sequence_step_id, created_at`

func scanShortURL(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.ShortURL, error) {
	var u domain.ShortURL
	err := scanner.Scan(
		&u.ID,
		&u.ShortCode,
		&u.OriginalURL,
		&u.Position,
		&u.CampaignID,
		&u.SequenceStepID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *shortURLRepository) Create(ctx context.Context, shortURL *domain.ShortURL) error {
	query := `
		INSERT INTO short_urls (id, short_code, original_url, position, campaign_id, sequence_step_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		shortURL.ID,
		shortURL.ShortCode,
		shortURL.OriginalURL,
		shortURL.Position,
		shortURL.CampaignID,
		shortURL.SequenceStepID,
		shortURL.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Returned untouched so the caller can retry with a new code.
			return err
		}
		return fmt.Errorf("failed to create short URL: %w", err)
	}
	return nil
}

func (r *shortURLRepository) GetByCode(ctx context.Context, code string) (*domain.ShortURL, error) {
	query := fmt.Sprintf(`SELECT %s FROM short_urls WHERE short_code = $1`, shortURLSelectFields)

	shortURL, err := scanShortURL(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrShortURLNotFound{Message: "short URL not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get short URL: %w", err)
	}
	return shortURL, nil
}

func (r *shortURLRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.ShortURL, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM short_urls WHERE campaign_id = $1 ORDER BY position`, shortURLSelectFields)

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list short URLs: %w", err)
	}
	defer rows.Close()

	var urls []*domain.ShortURL
	for rows.Next() {
		shortURL, err := scanShortURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan short URL: %w", err)
		}
		urls = append(urls, shortURL)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short URL rows: %w", err)
	}
	return urls, nil
}
