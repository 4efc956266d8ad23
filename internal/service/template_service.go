package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/osteele/liquid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/crypto"
	"github.com/postwind/postwind/pkg/logger"
)

// TemplateService renders email bodies through the full pipeline:
// variable substitution, linkification, short-link rewriting, paragraph
// normalisation and preset layout wrapping.
type TemplateService struct {
	shortURLRepo domain.ShortURLRepository
	logger       logger.Logger
	shortBaseURL string

	engine  *liquid.Engine
	presets map[string]*liquid.Template
}

// NewTemplateService creates the renderer. shortBaseURL is the public
// base for short links, e.g. "https://example.com/r".
func NewTemplateService(shortURLRepo domain.ShortURLRepository, shortBaseURL string, log logger.Logger) (*TemplateService, error) {
	engine := liquid.NewEngine()
	presets := make(map[string]*liquid.Template, len(presetLayouts))
	for id, layout := range presetLayouts {
		tpl, err := engine.ParseString(layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s layout: %w", id, err)
		}
		presets[id] = tpl
	}
	return &TemplateService{
		shortURLRepo: shortURLRepo,
		logger:       log,
		shortBaseURL: strings.TrimSuffix(shortBaseURL, "/"),
		engine:       engine,
		presets:      presets,
	}, nil
}

// ListTemplates returns the preset catalogue for the admin UI.
func (s *TemplateService) ListTemplates() []domain.TemplateInfo {
	return []domain.TemplateInfo{
		{ID: domain.TemplateSimple, Name: "Simple", Description: "Single-column layout with a subject header"},
		{ID: domain.TemplateNewsletter, Name: "Newsletter", Description: "Header banner, content body and branded footer"},
		{ID: domain.TemplateMinimal, Name: "Minimal", Description: "Plain content with a small footer"},
	}
}

// Render runs the pipeline and returns a complete HTML document.
func (s *TemplateService) Render(ctx context.Context, input domain.RenderInput) (string, error) {
	if input.Brand == nil {
		input.Brand = domain.DefaultBrandSettings()
	}

	content := replaceVariables(input.Content, input.SubscriberName, input.UnsubscribeURL)
	content = ensureParagraphs(content)
	content = linkify(content)

	if input.CampaignID != nil || input.SequenceStepID != nil {
		rewritten, err := s.rewriteShortLinks(ctx, content, input)
		if err != nil {
			return "", err
		}
		content = rewritten
	}

	content = strings.ReplaceAll(content, "<p></p>", "<p><br></p>")

	return s.wrapPreset(input, content)
}

// replaceVariables substitutes the recognised content tokens. Plain
// string replacement keeps arbitrary user content with stray braces
// intact.
func replaceVariables(content, subscriberName, unsubscribeURL string) string {
	content = strings.ReplaceAll(content, "{{name}}", subscriberName)
	content = strings.ReplaceAll(content, "{{subscriber.name}}", subscriberName)
	content = strings.ReplaceAll(content, "{{unsubscribe_url}}", unsubscribeURL)
	return content
}

var htmlTagRe = regexp.MustCompile(`<(p|div|br|h[1-6]|ul|ol|li|table|img|a|blockquote)[\s>/]`)

// ensureParagraphs wraps plain-text content in paragraph tags. Content
// that already carries block-level HTML passes through untouched.
func ensureParagraphs(content string) string {
	if htmlTagRe.MatchString(content) {
		return content
	}
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			b.WriteString("<p></p>")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(block, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

var (
	anchorRe   = regexp.MustCompile(`(?s)<a\s[^>]*>.*?</a>`)
	hrefAttrRe = regexp.MustCompile(`(href|src)="[^"]*"`)
	bareURLRe  = regexp.MustCompile(`https?://[^\s<>"]+`)
	youtubeRe  = regexp.MustCompile(`^https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([A-Za-z0-9_-]{6,})`)
)

// linkify turns bare URLs into anchors and YouTube links into clickable
// thumbnails. Existing anchors and attribute values are masked out first
// since the regexp engine has no lookbehind.
func linkify(content string) string {
	var masked []string
	mask := func(match string) string {
		masked = append(masked, match)
		return fmt.Sprintf("\x00MASK%d\x00", len(masked)-1)
	}
	content = anchorRe.ReplaceAllStringFunc(content, mask)
	content = hrefAttrRe.ReplaceAllStringFunc(content, mask)

	content = bareURLRe.ReplaceAllStringFunc(content, func(rawURL string) string {
		// Trailing punctuation belongs to the prose, not the URL.
		trimmed := strings.TrimRight(rawURL, ".,;:!?)")
		tail := rawURL[len(trimmed):]

		if m := youtubeRe.FindStringSubmatch(trimmed); m != nil {
			videoID := m[1]
			return fmt.Sprintf(
				`<a href="%s"><img src="https://img.youtube.com/vi/%s/maxresdefault.jpg" alt="Video" style="max-width:100%%;border-radius:4px;"></a>%s`,
				trimmed, videoID, tail)
		}
		return fmt.Sprintf(`<a href="%s">%s</a>%s`, trimmed, trimmed, tail)
	})

	for i := len(masked) - 1; i >= 0; i-- {
		content = strings.Replace(content, fmt.Sprintf("\x00MASK%d\x00", i), masked[i], 1)
	}
	return content
}

var anchorHrefRe = regexp.MustCompile(`<a\s[^>]*href="([^"]+)"`)

// rewriteShortLinks replaces each tracked anchor URL with a freshly
// allocated short link. Identical hrefs are counted per occurrence so
// two equal links get two distinct codes.
func (s *TemplateService) rewriteShortLinks(ctx context.Context, content string, input domain.RenderInput) (string, error) {
	matches := anchorHrefRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	position := 0
	for _, match := range matches {
		originalURL := match[1]
		if skipShortening(originalURL, input.UnsubscribeURL) {
			continue
		}
		position++

		shortURL, err := s.allocateShortURL(ctx, originalURL, position, input)
		if err != nil {
			return "", err
		}

		// Each rewrite consumes the earliest remaining occurrence, so a
		// duplicated href gets a distinct code per occurrence.
		replacement := s.shortBaseURL + "/" + shortURL.ShortCode
		content = replaceNthOccurrence(content,
			`href="`+originalURL+`"`, `href="`+replacement+`"`, 0)
	}
	return content, nil
}

func skipShortening(rawURL, unsubscribeURL string) bool {
	if strings.HasPrefix(rawURL, "mailto:") || strings.HasPrefix(rawURL, "tel:") {
		return true
	}
	if unsubscribeURL != "" && rawURL == unsubscribeURL {
		return true
	}
	if strings.Contains(rawURL, "/api/newsletter/unsubscribe/") {
		return true
	}
	if rawURL == domain.BroadcastUnsubscribePlaceholder {
		return true
	}
	return false
}

// allocateShortURL persists a short link, retrying on code collisions.
func (s *TemplateService) allocateShortURL(ctx context.Context, originalURL string, position int, input domain.RenderInput) (*domain.ShortURL, error) {
	var lastErr error
	for attempt := 0; attempt < domain.ShortCodeMaxAttempts; attempt++ {
		code, err := crypto.GenerateShortCode(domain.ShortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}
		shortURL := &domain.ShortURL{
			ID:             uuid.New().String(),
			ShortCode:      code,
			OriginalURL:    originalURL,
			Position:       position,
			CampaignID:     input.CampaignID,
			SequenceStepID: input.SequenceStepID,
			CreatedAt:      time.Now().Unix(),
		}
		if err := s.shortURLRepo.Create(ctx, shortURL); err != nil {
			lastErr = err
			continue
		}
		return shortURL, nil
	}
	return nil, fmt.Errorf("failed to allocate short code after %d attempts: %w",
		domain.ShortCodeMaxAttempts, lastErr)
}

// replaceNthOccurrence replaces the zero-based nth occurrence of old.
func replaceNthOccurrence(s, old, new string, n int) string {
	offset := 0
	for i := 0; ; i++ {
		idx := strings.Index(s[offset:], old)
		if idx < 0 {
			return s
		}
		idx += offset
		if i == n {
			return s[:idx] + new + s[idx+len(old):]
		}
		offset = idx + len(old)
	}
}

func (s *TemplateService) wrapPreset(input domain.RenderInput, content string) (string, error) {
	templateID := input.TemplateID
	if !domain.IsKnownTemplate(templateID) {
		templateID = input.Brand.DefaultTemplateID
	}
	if !domain.IsKnownTemplate(templateID) {
		templateID = domain.TemplateSimple
	}

	signature := ""
	if input.Brand.EmailSignature != nil {
		signature = *input.Brand.EmailSignature
	}
	logoURL := ""
	if input.Brand.LogoURL != nil {
		logoURL = *input.Brand.LogoURL
	}

	bindings := liquid.Bindings{
		"subject":         input.Subject,
		"content":         content,
		"primary_color":   input.Brand.PrimaryColor,
		"secondary_color": input.Brand.SecondaryColor,
		"logo_url":        logoURL,
		"footer_text":     input.Brand.FooterText,
		"signature":       signature,
		"unsubscribe_url": input.UnsubscribeURL,
		"site_url":        input.SiteURL,
		"year":            time.Now().UTC().Year(),
	}

	html, err := s.presets[templateID].RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("failed to render %s layout: %w", templateID, err)
	}
	return html, nil
}

var _ domain.TemplateRenderer = (*TemplateService)(nil)

// Preset layouts are liquid documents parameterised by brand settings.
// Content is injected as a variable, so user braces never reach the
// layout parser.
var presetLayouts = map[string]string{
	domain.TemplateSimple: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:{{ secondary_color }};font-family:-apple-system,'Helvetica Neue',Arial,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px 12px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;width:100%;background-color:#ffffff;border-radius:8px;">
<tr><td style="padding:32px 32px 8px;">
{% if logo_url != "" %}<img src="{{ logo_url }}" alt="" style="max-height:48px;margin-bottom:16px;">{% endif %}
<h1 style="margin:0 0 16px;font-size:22px;color:{{ primary_color }};">{{ subject }}</h1>
</td></tr>
<tr><td style="padding:0 32px 24px;font-size:15px;line-height:1.7;color:#333333;">{{ content }}
{% if signature != "" %}<p style="color:#666666;">{{ signature }}</p>{% endif %}
</td></tr>
<tr><td style="padding:16px 32px 32px;border-top:1px solid #eeeeee;font-size:12px;color:#999999;">
<p style="margin:0 0 8px;">{{ footer_text }}</p>
{% if unsubscribe_url != "" %}<p style="margin:0;"><a href="{{ unsubscribe_url }}" style="color:#999999;">Unsubscribe</a></p>{% endif %}
</td></tr>
</table>
</td></tr></table>
</body>
</html>`,

	domain.TemplateNewsletter: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:{{ secondary_color }};font-family:-apple-system,'Helvetica Neue',Arial,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px 12px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;width:100%;background-color:#ffffff;border-radius:8px;overflow:hidden;">
<tr><td style="background-color:{{ primary_color }};padding:28px 32px;" align="center">
{% if logo_url != "" %}<img src="{{ logo_url }}" alt="" style="max-height:48px;margin-bottom:12px;">{% endif %}
<h1 style="margin:0;font-size:24px;color:#ffffff;">{{ subject }}</h1>
</td></tr>
<tr><td style="padding:28px 32px;font-size:15px;line-height:1.7;color:#333333;">{{ content }}
{% if signature != "" %}<p style="color:#666666;">{{ signature }}</p>{% endif %}
</td></tr>
<tr><td style="background-color:{{ secondary_color }};padding:20px 32px;font-size:12px;color:#999999;" align="center">
<p style="margin:0 0 8px;">{{ footer_text }}</p>
{% if site_url != "" %}<p style="margin:0 0 8px;"><a href="{{ site_url }}" style="color:{{ primary_color }};">{{ site_url }}</a></p>{% endif %}
{% if unsubscribe_url != "" %}<p style="margin:0;"><a href="{{ unsubscribe_url }}" style="color:#999999;">Unsubscribe</a></p>{% endif %}
</td></tr>
</table>
</td></tr></table>
</body>
</html>`,

	domain.TemplateMinimal: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:32px 16px;background-color:#ffffff;font-family:Georgia,'Times New Roman',serif;">
<table role="presentation" width="560" cellpadding="0" cellspacing="0" align="center" style="max-width:560px;width:100%;">
<tr><td style="font-size:16px;line-height:1.8;color:#222222;">{{ content }}
{% if signature != "" %}<p style="color:#555555;">{{ signature }}</p>{% endif %}
</td></tr>
<tr><td style="padding-top:32px;font-size:12px;color:#aaaaaa;">
<p style="margin:0 0 6px;">{{ footer_text }}</p>
{% if unsubscribe_url != "" %}<p style="margin:0;"><a href="{{ unsubscribe_url }}" style="color:#aaaaaa;">Unsubscribe</a></p>{% endif %}
</td></tr>
</table>
</body>
</html>`,
}
