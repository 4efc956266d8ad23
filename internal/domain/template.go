package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_template_renderer.go -package mocks github.com/postwind/postwind/internal/domain TemplateRenderer

// Template preset identifiers. Presets are data: a layout document
// parameterised by brand settings, not user-editable templates.
const (
	TemplateSimple     = "simple"
	TemplateNewsletter = "newsletter"
	TemplateMinimal    = "minimal"
)

// IsKnownTemplate reports whether id names a preset.
func IsKnownTemplate(id string) bool {
	switch id {
	case TemplateSimple, TemplateNewsletter, TemplateMinimal:
		return true
	}
	return false
}

// TemplateInfo describes a preset for the admin template listing.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BroadcastUnsubscribePlaceholder is passed as the unsubscribe URL for
// broadcast renders; the provider expands it per recipient.
const BroadcastUnsubscribePlaceholder = "{{{RESEND_UNSUBSCRIBE_URL}}}"

// RenderInput carries everything a render needs. When CampaignID or
// SequenceStepID is set, anchors in the content are rewritten to short
// links attributed to that source.
type RenderInput struct {
	TemplateID     string
	Subject        string
	Content        string
	Brand          *BrandSettings
	SubscriberName string
	UnsubscribeURL string
	SiteURL        string
	CampaignID     *string
	SequenceStepID *string
}

/// TemplateRenderer renders an email body through the full pipeline:
// variable substitution, linkification, short-link rewriting, paragraph
// normalisation and preset wrapping. Rendering is deterministic for
// equal inputs apart from freshly allocated short codes.
type TemplateRenderer interface {
	Render(ctx context.Context, input RenderInput) (string, error)
}
