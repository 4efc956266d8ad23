package delivery

import (
	"context"
	"fmt"

	"github.com/postwind/postwind/internal/domain"
)

// SendRequest is one dispatch of a rendered email to a set of targets.
// Exactly one of CampaignID or SequenceID is set; the delivery logs the
// sender writes inherit that attribution.
type SendRequest struct {
	CampaignID     *string
	SequenceID     *string
	SequenceStepID *string
	ContactListID  *string
	TemplateID     string
	Subject        string
	Content        string
	FromName       string
	ReplyTo        string
	ABVariant      *domain.ABVariant
	Targets        []*domain.Subscriber
}

// SendResult reports how many recipients the provider acknowledged.
type SendResult struct {
	Recipients int
}

// Sender is the dispatch strategy shared by the campaign dispatcher,
// the A/B orchestrator and the sequence processor. Implementations
// perform the provider calls and write the per-recipient delivery logs
// for successful sends; callers handle failure accounting.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
}

// SenderConfig carries the deployment identity shared by the sender
// strategies.
type SenderConfig struct {
	FromName         string
	FromEmail        string
	ReplyTo          string
	SiteURL          string
	DefaultSegmentID string
}

// fromAddress composes the RFC 5322 From value, honouring a per-send
// from-name override (A/B variant B).
func (c SenderConfig) fromAddress(override string) string {
	name := c.FromName
	if override != "" {
		name = override
	}
	if name == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", name, c.FromEmail)
}

// replyTo returns the per-send reply-to override or the deployment
// default.
func (c SenderConfig) replyTo(override string) string {
	if override != "" {
		return override
	}
	return c.ReplyTo
}

// unsubscribeURL builds the per-subscriber unsubscribe link.
func (c SenderConfig) unsubscribeURL(token string) string {
	return fmt.Sprintf("%s/api/newsletter/unsubscribe/%s", c.SiteURL, token)
}
