package domain

import (
	"context"
	"fmt"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_delivery_log_repository.go -package mocks github.com/postwind/postwind/internal/domain DeliveryLogRepository

// DeliveryStatus is the cursor of a delivery log row. The success chain
// sent → delivered → opened → clicked only advances; bounced and failed
// sit outside the chain.
type DeliveryStatus string

const (
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusOpened    DeliveryStatus = "opened"
	DeliveryStatusClicked   DeliveryStatus = "clicked"
	DeliveryStatusBounced   DeliveryStatus = "bounced"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// Rank orders statuses along the success chain. Failure statuses rank -1
// so they never win an advance comparison against a success.
func (s DeliveryStatus) Rank() int {
	switch s {
	case DeliveryStatusSent:
		return 0
	case DeliveryStatusDelivered:
		return 1
	case DeliveryStatusOpened:
		return 2
	case DeliveryStatusClicked:
		return 3
	default:
		return -1
	}
}

// IsFailure reports whether the status is bounced or failed.
func (s DeliveryStatus) IsFailure() bool {
	return s == DeliveryStatusBounced || s == DeliveryStatusFailed
}

// DeliveryLog records one send attempt to one recipient and the webhook
// signals folded into it afterwards. Exactly one of CampaignID or
// SequenceID is set. Rows are never deleted.
type DeliveryLog struct {
	ID                string         `json:"id"`
	CampaignID        *string        `json:"campaign_id,omitempty"`
	SequenceID        *string        `json:"sequence_id,omitempty"`
	SequenceStepID    *string        `json:"sequence_step_id,omitempty"`
	SubscriberID      string         `json:"subscriber_id"`
	Email             string         `json:"email"`
	EmailSubject      *string        `json:"email_subject,omitempty"`
	ABVariant         *ABVariant     `json:"ab_variant,omitempty"`
	Status            DeliveryStatus `json:"status"`
	ProviderMessageID *string        `json:"provider_message_id,omitempty"`
	SentAt            *int64         `json:"sent_at,omitempty"`
	DeliveredAt       *int64         `json:"delivered_at,omitempty"`
	OpenedAt          *int64         `json:"opened_at,omitempty"`
	ClickedAt         *int64         `json:"clicked_at,omitempty"`
	ErrorMessage      *string        `json:"error_message,omitempty"`
	CreatedAt         int64          `json:"created_at"`
}

func (l *DeliveryLog) Validate() error {
	if (l.CampaignID == nil) == (l.SequenceID == nil) {
		return fmt.Errorf("exactly one of campaign_id or sequence_id must be set")
	}
	if l.SubscriberID == "" {
		return fmt.Errorf("subscriber_id is required")
	}
	if !govalidator.IsEmail(l.Email) {
		return fmt.Errorf("invalid email: %s", l.Email)
	}
	if l.Status.Rank() == -1 && !l.Status.IsFailure() {
		return fmt.Errorf("invalid delivery status: %s", l.Status)
	}
	return nil
}

// ClickEvent is one recorded click on a tracked link, deduplicated over a
// 60 second window per (delivery_log_id, clicked_url).
type ClickEvent struct {
	ID            string `json:"id"`
	DeliveryLogID string `json:"delivery_log_id"`
	SubscriberID  string `json:"subscriber_id"`
	ClickedURL    string `json:"clicked_url"`
	ClickedAt     int64  `json:"clicked_at"`
}

// ClickDedupWindowSeconds is the window within which a repeated click on
// the same link of the same message is a no-op.
const ClickDedupWindowSeconds = 60

// DeliveryStats aggregates outcomes for a campaign or the dashboard.
// Counts use the timestamp columns, not the status cursor, so that
// "delivered" includes every row delivered or beyond.
type DeliveryStats struct {
	TotalSent      int `json:"total_sent"`
	TotalDelivered int `json:"total_delivered"`
	TotalOpened    int `json:"total_opened"`
	TotalClicked   int `json:"total_clicked"`
	TotalBounced   int `json:"total_bounced"`
	TotalFailed    int `json:"total_failed"`
}

// OpenRate returns opens per delivered, in percent.
func (s *DeliveryStats) OpenRate() int {
	if s.TotalDelivered == 0 {
		return 0
	}
	return s.TotalOpened * 100 / s.TotalDelivered
}

// ClickRate returns clicks per delivered, in percent.
func (s *DeliveryStats) ClickRate() int {
	if s.TotalDelivered == 0 {
		return 0
	}
	return s.TotalClicked * 100 / s.TotalDelivered
}

// DeliveryListParams filters delivery log listings.
type DeliveryListParams struct {
	CampaignID   string
	SequenceID   string
	SubscriberID string
	Status       DeliveryStatus
	Limit        int
	Offset       int
}

func (p *DeliveryListParams) Validate() error {
	if p.Status != "" && !govalidator.IsIn(string(p.Status),
		string(DeliveryStatusSent),
		string(DeliveryStatusDelivered),
		string(DeliveryStatusOpened),
		string(DeliveryStatusClicked),
		string(DeliveryStatusBounced),
		string(DeliveryStatusFailed)) {
		return fmt.Errorf("invalid delivery status: %s", p.Status)
	}
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("limit and offset cannot be negative")
	}
	if p.Limit == 0 || p.Limit > 200 {
		p.Limit = 50
	}
	return nil
}

// DeliveryLogRepository defines persistence for delivery logs and click
// events.
type DeliveryLogRepository interface {
	Create(ctx context.Context, log *DeliveryLog) error

	GetByID(ctx context.Context, id string) (*DeliveryLog, error)

	// GetByProviderMessageID correlates a webhook to a log row. For
	// broadcast sends several rows share the provider id, so the recipient
	// email disambiguates; pass an empty email for unique transactional ids.
	GetByProviderMessageID(ctx context.Context, providerMessageID, email string) (*DeliveryLog, error)

	// GetLatestSequenceLog returns the most recent log for a given
	// (subscriber, sequence, step), or a typed not-found error.
	GetLatestSequenceLog(ctx context.Context, subscriberID, sequenceID, stepID string) (*DeliveryLog, error)

	// Update persists a full row; the status state machine runs in the
	// service before this is called.
	Update(ctx context.Context, log *DeliveryLog) error

	List(ctx context.Context, params DeliveryListParams) ([]*DeliveryLog, int, error)

	// InsertClickEvent writes a click unless another click on the same
	// (delivery_log_id, clicked_url) landed within the dedup window; it
	// reports whether a row was inserted.
	InsertClickEvent(ctx context.Context, event *ClickEvent) (bool, error)

	GetCampaignStats(ctx context.Context, campaignID string) (*DeliveryStats, error)

	// GetCampaignVariantStats aggregates one A/B arm of a campaign.
	GetCampaignVariantStats(ctx context.Context, campaignID string, variant ABVariant) (*DeliveryStats, error)

	GetGlobalStats(ctx context.Context) (*DeliveryStats, error)

	// CountCampaignSent counts rows with sent_at set for a campaign; used
	// for the recipient_count accounting at send completion.
	CountCampaignSent(ctx context.Context, campaignID string) (int, error)
}
