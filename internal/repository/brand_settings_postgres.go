package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/postwind/postwind/internal/domain"
)

type brandSettingsRepository struct {
	db *sql.DB
}

// NewBrandSettingsRepository creates a new PostgreSQL brand settings repository
func NewBrandSettingsRepository(db *sql.DB) domain.BrandSettingsRepository {
	return &brandSettingsRepository{db: db}
}

func (r *brandSettingsRepository) Get(ctx context.Context) (*domain.BrandSettings, error) {
	query := `
		SELECT primary_color, secondary_color, logo_url, footer_text, email_signature, default_template_id, updated_at
		FROM brand_settings WHERE id = 1
	`
	var s domain.BrandSettings
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.PrimaryColor,
		&s.SecondaryColor,
		&s.LogoURL,
		&s.FooterText,
		&s.EmailSignature,
		&s.DefaultTemplateID,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.DefaultBrandSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand settings: %w", err)
	}
	return &s, nil
}

func (r *brandSettingsRepository) Save(ctx context.Context, settings *domain.BrandSettings) error {
	query := `
		INSERT INTO brand_settings (id, primary_color, secondary_color, logo_url, footer_text, email_signature, default_template_id, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			logo_url = EXCLUDED.logo_url,
			footer_text = EXCLUDED.footer_text,
			email_signature = EXCLUDED.email_signature,
			default_template_id = EXCLUDED.default_template_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		settings.PrimaryColor,
		settings.SecondaryColor,
		settings.LogoURL,
		settings.FooterText,
		settings.EmailSignature,
		settings.DefaultTemplateID,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save brand settings: %w", err)
	}
	return nil
}
