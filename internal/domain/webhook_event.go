package domain

import (
	"fmt"
	"net/http"
	"time"

	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// EmailEventType is the provider's webhook event discriminator.
type EmailEventType string

const (
	EmailEventDelivered EmailEventType = "email.delivered"
	EmailEventOpened    EmailEventType = "email.opened"
	EmailEventClicked   EmailEventType = "email.clicked"
	EmailEventBounced   EmailEventType = "email.bounced"
	EmailEventFailed    EmailEventType = "email.failed"
)

// EmailWebhookPayload is the JSON body of a provider webhook POST.
type EmailWebhookPayload struct {
	Type      EmailEventType   `json:"type"`
	CreatedAt string           `json:"created_at"`
	Data      EmailWebhookData `json:"data"`
}

// EmailWebhookData carries the per-recipient event detail.
type EmailWebhookData struct {
	EmailID string   `json:"email_id"`
	To      []string `json:"to"`
	Subject string   `json:"subject,omitempty"`
	Click   *struct {
		Link string `json:"link"`
	} `json:"click,omitempty"`
	Bounce *struct {
		Message string `json:"message"`
	} `json:"bounce,omitempty"`
	Failed *struct {
		Reason string `json:"reason"`
	} `json:"failed,omitempty"`
}

// DeliveryStatus maps the event type onto the delivery-log status it
// folds into.
func (p *EmailWebhookPayload) DeliveryStatus() (DeliveryStatus, error) {
	switch p.Type {
	case EmailEventDelivered:
		return DeliveryStatusDelivered, nil
	case EmailEventOpened:
		return DeliveryStatusOpened, nil
	case EmailEventClicked:
		return DeliveryStatusClicked, nil
	case EmailEventBounced:
		return DeliveryStatusBounced, nil
	case EmailEventFailed:
		return DeliveryStatusFailed, nil
	}
	return "", fmt.Errorf("unknown webhook event type: %s", p.Type)
}

// ErrorMessage returns the failure detail supplied by the event, if any.
func (p *EmailWebhookPayload) ErrorMessage() *string {
	if p.Data.Bounce != nil && p.Data.Bounce.Message != "" {
		return &p.Data.Bounce.Message
	}
	if p.Data.Failed != nil && p.Data.Failed.Reason != "" {
		return &p.Data.Failed.Reason
	}
	return nil
}

// RecipientEmail returns the first recipient of the event.
func (p *EmailWebhookPayload) RecipientEmail() string {
	if len(p.Data.To) == 0 {
		return ""
	}
	return p.Data.To[0]
}

// VerifyWebhookSignature checks a standard-webhooks signature against
// the raw request body. The secret is the decoded key material, not the
// whsec_-prefixed form.
func VerifyWebhookSignature(payload, secret []byte, idHeader, timestampHeader, signatureHeader string) error {
	wh, err := svix.NewWebhookRaw(secret)
	if err != nil {
		return fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	// The library expects the canonical standard-webhooks header names.
	headers := http.Header{}
	headers.Set("Webhook-Id", idHeader)
	headers.Set("Webhook-Timestamp", timestampHeader)
	headers.Set("Webhook-Signature", signatureHeader)

	if err := wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("signature validation failed: %w", err)
	}
	return nil
}

// OccurredAt parses the event timestamp, falling back to now when the
// provider omits or mangles it.
func (p *EmailWebhookPayload) OccurredAt(now time.Time) int64 {
	if p.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			return t.Unix()
		}
	}
	return now.Unix()
}
