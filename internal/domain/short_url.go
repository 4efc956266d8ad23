package domain

import (
	"context"
	"fmt"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_short_url_repository.go -package mocks github.com/postwind/postwind/internal/domain ShortURLRepository

// ShortCodeLength is the length of generated short codes.
const ShortCodeLength = 8

// ShortCodeMaxAttempts bounds collision retries during allocation.
const ShortCodeMaxAttempts = 3

// ShortURL maps an 8-character alphanumeric code to a tracked link.
// Position is the 1-based order of the link within its source content.
type ShortURL struct {
	ID             string  `json:"id"`
	ShortCode      string  `json:"short_code"`
	OriginalURL    string  `json:"original_url"`
	Position       int     `json:"position"`
	CampaignID     *string `json:"campaign_id,omitempty"`
	SequenceStepID *string `json:"sequence_step_id,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}

func (u *ShortURL) Validate() error {
	if len(u.ShortCode) != ShortCodeLength {
		return fmt.Errorf("short code must be %d characters", ShortCodeLength)
	}
	if !govalidator.IsURL(u.OriginalURL) {
		return fmt.Errorf("invalid original URL: %s", u.OriginalURL)
	}
	if u.Position < 1 {
		return fmt.Errorf("position must be >= 1")
	}
	return nil
}

// ShortURLRepository defines persistence for short links.
type ShortURLRepository interface {
	// Create inserts a short URL; a unique violation on short_code is
	// returned as-is so the caller can retry with a fresh code.
	Create(ctx context.Context, shortURL *ShortURL) error

	GetByCode(ctx context.Context, code string) (*ShortURL, error)

	ListByCampaign(ctx context.Context, campaignID string) ([]*ShortURL, error)
}
