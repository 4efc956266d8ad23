package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_campaign_repository.go -package mocks github.com/postwind/postwind/internal/domain CampaignRepository

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSent      CampaignStatus = "sent"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// ScheduleType selects the recurrence of a campaign
type ScheduleType string

const (
	ScheduleTypeNone    ScheduleType = "none"
	ScheduleTypeDaily   ScheduleType = "daily"
	ScheduleTypeWeekly  ScheduleType = "weekly"
	ScheduleTypeMonthly ScheduleType = "monthly"
)

// ABVariant identifies one arm of an A/B test
type ABVariant string

const (
	ABVariantA ABVariant = "A"
	ABVariantB ABVariant = "B"
)

// ScheduleConfig parameterises recurring sends. DayOfWeek uses 0=Sunday
// and defaults to Monday for weekly schedules; DayOfMonth days past the
// end of a month clamp to the month's last day.
type ScheduleConfig struct {
	Hour       int  `json:"hour"`
	Minute     int  `json:"minute"`
	DayOfWeek  *int `json:"dayOfWeek,omitempty"`
	DayOfMonth *int `json:"dayOfMonth,omitempty"`
}

// Value implements the driver.Valuer interface for database storage
func (c ScheduleConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database retrieval
func (c *ScheduleConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ScheduleConfig", value)
	}
	return json.Unmarshal(bytes.Clone(b), c)
}

func (c *ScheduleConfig) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("schedule hour out of range: %d", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("schedule minute out of range: %d", c.Minute)
	}
	if c.DayOfWeek != nil && (*c.DayOfWeek < 0 || *c.DayOfWeek > 6) {
		return fmt.Errorf("schedule dayOfWeek out of range: %d", *c.DayOfWeek)
	}
	if c.DayOfMonth != nil && (*c.DayOfMonth < 1 || *c.DayOfMonth > 31) {
		return fmt.Errorf("schedule dayOfMonth out of range: %d", *c.DayOfMonth)
	}
	return nil
}

// Campaign is a one-shot, recurring, or A/B tested send to the full
// audience or a contact list. A sent campaign is immutable except for the
// delivery statistics aggregated against it.
type Campaign struct {
	ID             string          `json:"id"`
	Subject        string          `json:"subject"`
	Content        string          `json:"content"`
	Status         CampaignStatus  `json:"status"`
	ScheduledAt    *int64          `json:"scheduled_at,omitempty"`
	ScheduleType   ScheduleType    `json:"schedule_type"`
	ScheduleConfig *ScheduleConfig `json:"schedule_config,omitempty"`
	LastSentAt     *int64          `json:"last_sent_at,omitempty"`
	SentAt         *int64          `json:"sent_at,omitempty"`
	RecipientCount *int            `json:"recipient_count,omitempty"`
	ContactListID  *string         `json:"contact_list_id,omitempty"`
	TemplateID     *string         `json:"template_id,omitempty"`
	ReplyTo        *string         `json:"reply_to,omitempty"`
	Slug           *string         `json:"slug,omitempty"`
	IsPublished    bool            `json:"is_published"`
	Excerpt        *string         `json:"excerpt,omitempty"`

	ABTestEnabled bool       `json:"ab_test_enabled"`
	ABSubjectB    *string    `json:"ab_subject_b,omitempty"`
	ABFromNameB   *string    `json:"ab_from_name_b,omitempty"`
	ABWaitHours   int        `json:"ab_wait_hours"`
	ABTestSentAt  *int64     `json:"ab_test_sent_at,omitempty"`
	ABWinner      *ABVariant `json:"ab_winner,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

func (c *Campaign) Validate() error {
	c.Subject = strings.TrimSpace(c.Subject)
	if c.Subject == "" {
		return fmt.Errorf("campaign subject is required")
	}
	if !govalidator.IsIn(string(c.Status),
		string(CampaignStatusDraft),
		string(CampaignStatusScheduled),
		string(CampaignStatusSent),
		string(CampaignStatusFailed)) {
		return fmt.Errorf("invalid campaign status: %s", c.Status)
	}
	if c.ScheduleType == "" {
		c.ScheduleType = ScheduleTypeNone
	}
	if !govalidator.IsIn(string(c.ScheduleType),
		string(ScheduleTypeNone),
		string(ScheduleTypeDaily),
		string(ScheduleTypeWeekly),
		string(ScheduleTypeMonthly)) {
		return fmt.Errorf("invalid schedule type: %s", c.ScheduleType)
	}
	if c.ScheduleType != ScheduleTypeNone && c.ScheduledAt == nil {
		return fmt.Errorf("scheduled_at is required for recurring campaigns")
	}
	if c.ScheduleConfig != nil {
		if err := c.ScheduleConfig.Validate(); err != nil {
			return err
		}
	}
	if c.ABTestEnabled && c.ABWaitHours <= 0 {
		return fmt.Errorf("ab_wait_hours must be positive when A/B testing is enabled")
	}
	if c.ABWinner != nil && *c.ABWinner != ABVariantA && *c.ABWinner != ABVariantB {
		return fmt.Errorf("invalid A/B winner: %s", *c.ABWinner)
	}
	return nil
}

// IsMutable reports whether admin edits are still allowed.
func (c *Campaign) IsMutable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

// CampaignRepository defines persistence for campaigns, including the
// due-work queries the scheduler drives and the stored A/B remainder.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error

	GetByID(ctx context.Context, id string) (*Campaign, error)

	List(ctx context.Context) ([]*Campaign, error)

	Update(ctx context.Context, campaign *Campaign) error

	// Delete removes a campaign; only drafts cascade to delivery logs.
	Delete(ctx context.Context, id string) error

	// ListDueScheduled returns non-A/B campaigns with status=scheduled and
	// scheduled_at <= now, in ascending scheduled_at order.
	ListDueScheduled(ctx context.Context, now int64) ([]*Campaign, error)

	// ListDueABTestPhase returns A/B campaigns whose test phase is due:
	// ab_test_enabled, ab_test_sent_at IS NULL, status=scheduled and
	// scheduled_at - ab_wait_hours <= now.
	ListDueABTestPhase(ctx context.Context, now int64) ([]*Campaign, error)

	// ListDueABWinnerPhase returns A/B campaigns whose winner phase is due:
	// ab_test_sent_at IS NOT NULL, status=scheduled, scheduled_at <= now.
	ListDueABWinnerPhase(ctx context.Context, now int64) ([]*Campaign, error)

	// SaveABRemainder persists the remainder subscriber-id set between the
	// test and winner phases.
	SaveABRemainder(ctx context.Context, campaignID string, subscriberIDs []string, now int64) error

	GetABRemainder(ctx context.Context, campaignID string) ([]string, error)

	DeleteABRemainder(ctx context.Context, campaignID string) error

	// ListArchive returns sent, published campaigns for the public archive.
	ListArchive(ctx context.Context) ([]*Campaign, error)

	GetArchiveBySlug(ctx context.Context, slug string) (*Campaign, error)
}
