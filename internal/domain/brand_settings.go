package domain

import (
	"context"
	"fmt"
	"regexp"
)

//go:generate mockgen -destination mocks/mock_brand_settings_repository.go -package mocks github.com/postwind/postwind/internal/domain BrandSettingsRepository

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// BrandSettings is the singleton visual identity applied by the template
// renderer: colours, logo, footer and signature.
type BrandSettings struct {
	PrimaryColor      string  `json:"primary_color"`
	SecondaryColor    string  `json:"secondary_color"`
	LogoURL           *string `json:"logo_url,omitempty"`
	FooterText        string  `json:"footer_text"`
	EmailSignature    *string `json:"email_signature,omitempty"`
	DefaultTemplateID string  `json:"default_template_id"`
	UpdatedAt         int64   `json:"updated_at"`
}

// DefaultBrandSettings returns the settings used before any are saved.
func DefaultBrandSettings() *BrandSettings {
	return &BrandSettings{
		PrimaryColor:      "#1a73e8",
		SecondaryColor:    "#f5f5f5",
		FooterText:        "You received this email because you subscribed to our newsletter.",
		DefaultTemplateID: TemplateSimple,
	}
}

func (b *BrandSettings) Validate() error {
	if !hexColorRe.MatchString(b.PrimaryColor) {
		return fmt.Errorf("invalid primary color: %s", b.PrimaryColor)
	}
	if !hexColorRe.MatchString(b.SecondaryColor) {
		return fmt.Errorf("invalid secondary color: %s", b.SecondaryColor)
	}
	if b.DefaultTemplateID != "" && !IsKnownTemplate(b.DefaultTemplateID) {
		return fmt.Errorf("unknown template id: %s", b.DefaultTemplateID)
	}
	return nil
}

// BrandSettingsRepository persists the singleton brand settings row.
type BrandSettingsRepository interface {
	// Get returns the stored settings, or the defaults when none exist.
	Get(ctx context.Context) (*BrandSettings, error)

	Save(ctx context.Context, settings *BrandSettings) error
}
