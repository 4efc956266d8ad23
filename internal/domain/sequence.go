package domain

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//go:generate mockgen -destination mocks/mock_sequence_repository.go -package mocks github.com/postwind/postwind/internal/domain SequenceRepository

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateTimeOfDay checks an "HH:MM" wall-clock time.
func ValidateTimeOfDay(value string) error {
	if !timeOfDayRe.MatchString(value) {
		return fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return nil
}

// ParseTimeOfDay returns the seconds-past-midnight offset of an "HH:MM"
// value. The value must already be validated.
func ParseTimeOfDay(value string) int64 {
	h, _ := strconv.Atoi(value[:2])
	m, _ := strconv.Atoi(value[3:])
	return int64(h)*3600 + int64(m)*60
}

// Sequence is a drip series dispatched per enrolled subscriber.
// DefaultSendTime is the wall-clock send time in the deployment's
// regional offset, used by day-anchored steps without their own time.
type Sequence struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	IsActive        bool    `json:"is_active"`
	DefaultSendTime string  `json:"default_send_time"`
	ReplyTo         *string `json:"reply_to,omitempty"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
}

func (s *Sequence) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("sequence name is required")
	}
	if s.DefaultSendTime == "" {
		s.DefaultSendTime = "10:00"
	}
	if err := ValidateTimeOfDay(s.DefaultSendTime); err != nil {
		return fmt.Errorf("invalid default_send_time: %w", err)
	}
	return nil
}

// SequenceStep is one step of a sequence. Exactly one scheduling mode
// applies per step: day-anchored (DelayMinutes nil) or minutes-from-base
// (DelayMinutes set, zero included).
type SequenceStep struct {
	ID           string  `json:"id"`
	SequenceID   string  `json:"sequence_id"`
	StepNumber   int     `json:"step_number"`
	DelayDays    int     `json:"delay_days"`
	DelayTime    *string `json:"delay_time,omitempty"`
	DelayMinutes *int    `json:"delay_minutes,omitempty"`
	Subject      string  `json:"subject"`
	Content      string  `json:"content"`
	TemplateID   *string `json:"template_id,omitempty"`
	IsEnabled    bool    `json:"is_enabled"`
	CreatedAt    int64   `json:"created_at"`
}

func (s *SequenceStep) Validate() error {
	if s.StepNumber < 1 {
		return fmt.Errorf("step_number must be >= 1")
	}
	if s.DelayDays < 0 {
		return fmt.Errorf("delay_days cannot be negative")
	}
	if s.DelayMinutes != nil && *s.DelayMinutes < 0 {
		return fmt.Errorf("delay_minutes cannot be negative")
	}
	if s.DelayTime != nil {
		if err := ValidateTimeOfDay(*s.DelayTime); err != nil {
			return fmt.Errorf("invalid delay_time: %w", err)
		}
	}
	if strings.TrimSpace(s.Subject) == "" {
		return fmt.Errorf("step subject is required")
	}
	return nil
}

// Enrollment records a subscriber's participation in a sequence.
// CurrentStep counts the steps already dispatched; CompletedAt is set
// exactly when CurrentStep reaches the count of enabled steps.
type Enrollment struct {
	ID           string `json:"id"`
	SubscriberID string `json:"subscriber_id"`
	SequenceID   string `json:"sequence_id"`
	CurrentStep  int    `json:"current_step"`
	StartedAt    int64  `json:"started_at"`
	CompletedAt  *int64 `json:"completed_at,omitempty"`
}

// DueCandidate is one row of the dispatch join: an active enrollment in
// an active sequence, with an active subscriber, and the enabled step
// whose step_number is current_step + 1.
type DueCandidate struct {
	Enrollment Enrollment
	Subscriber Subscriber
	Sequence   Sequence
	Step       SequenceStep
}

// SequenceRepository defines persistence for sequences, their steps and
// enrollments, including the atomic step replacement protocol.
type SequenceRepository interface {
	Create(ctx context.Context, sequence *Sequence) error

	GetByID(ctx context.Context, id string) (*Sequence, error)

	List(ctx context.Context) ([]*Sequence, error)

	ListActive(ctx context.Context) ([]*Sequence, error)

	Update(ctx context.Context, sequence *Sequence) error

	// Delete cascades to steps and enrollments.
	Delete(ctx context.Context, id string) error

	// ListSteps returns steps ordered by step_number. When enabledOnly is
	// set, disabled (historical) rows are excluded.
	ListSteps(ctx context.Context, sequenceID string, enabledOnly bool) ([]*SequenceStep, error)

	CountEnabledSteps(ctx context.Context, sequenceID string) (int, error)

	// InsertStepsDisabled writes the incoming replacement steps with
	// is_enabled=false. A partial failure orphans disabled rows only.
	InsertStepsDisabled(ctx context.Context, steps []*SequenceStep) error

	// SwapEnabledSteps atomically disables the sequence's current steps
	// and enables the rows named by newStepIDs, in one transaction.
	SwapEnabledSteps(ctx context.Context, sequenceID string, newStepIDs []string) error

	// CreateEnrollment inserts idempotently (ON CONFLICT DO NOTHING on the
	// (subscriber_id, sequence_id) key) and reports whether a row landed.
	CreateEnrollment(ctx context.Context, enrollment *Enrollment) (bool, error)

	GetEnrollment(ctx context.Context, subscriberID, sequenceID string) (*Enrollment, error)

	ListEnrollmentsBySequence(ctx context.Context, sequenceID string) ([]*Enrollment, error)

	ListEnrollmentsBySubscriber(ctx context.Context, subscriberID string) ([]*Enrollment, error)

	// AdvanceEnrollment moves the cursor to currentStep and stamps
	// completed_at when the sequence is finished.
	AdvanceEnrollment(ctx context.Context, enrollmentID string, currentStep int, completedAt *int64) error

	// ListDueCandidates performs the dispatch join: enrollments not yet
	// completed, active subscriber, active sequence, enabled next step.
	ListDueCandidates(ctx context.Context) ([]*DueCandidate, error)
}
