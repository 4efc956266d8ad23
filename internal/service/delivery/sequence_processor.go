package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// SequenceProcessor dispatches due sequence steps. Each tick it walks
// the candidate join (active enrollment, active subscriber, active
// sequence, enabled next step), computes each step's scheduled time and
// dispatches the ones that are due.
type SequenceProcessor struct {
	sequenceRepo    domain.SequenceRepository
	deliveryLogRepo domain.DeliveryLogRepository
	sender          Sender
	clock           Clock
	loc             *time.Location
	logger          logger.Logger
}

func NewSequenceProcessor(
	sequenceRepo domain.SequenceRepository,
	deliveryLogRepo domain.DeliveryLogRepository,
	sender Sender,
	clock Clock,
	regionalOffsetMinutes int,
	log logger.Logger,
) *SequenceProcessor {
	return &SequenceProcessor{
		sequenceRepo:    sequenceRepo,
		deliveryLogRepo: deliveryLogRepo,
		sender:          sender,
		clock:           clock,
		loc:             time.FixedZone("regional", regionalOffsetMinutes*60),
		logger:          log,
	}
}

// ProcessDue dispatches every candidate whose step is due. Per-candidate
// failures are isolated: the failed step gets a failed delivery log and
// is retried on a later tick.
func (p *SequenceProcessor) ProcessDue(ctx context.Context) error {
	now := p.clock.Now()
	candidates, err := p.sequenceRepo.ListDueCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sequence candidates: %w", err)
	}

	for _, c := range candidates {
		due, ok, err := p.scheduledTime(ctx, c)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"enrollment_id": c.Enrollment.ID,
				"error":         err.Error(),
			}).Error("Failed to compute step schedule")
			continue
		}
		if !ok || due > now.Unix() {
			continue
		}
		p.dispatch(ctx, c, now)
	}
	return nil
}

// scheduledTime computes when the candidate's step is due. The second
// return value is false when the step cannot be scheduled this tick
// (minutes mode with no previous sent log), which is a skip, not a
// failure.
func (p *SequenceProcessor) scheduledTime(ctx context.Context, c *domain.DueCandidate) (int64, bool, error) {
	step := c.Step

	if step.DelayMinutes == nil {
		// Day-anchored: midnight of the regional day delay_days after
		// enrollment, plus the step's wall-clock time.
		started := time.Unix(c.Enrollment.StartedAt, 0).In(p.loc)
		day := started.AddDate(0, 0, step.DelayDays)
		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, p.loc)
		hhmm := c.Sequence.DefaultSendTime
		if step.DelayTime != nil {
			hhmm = *step.DelayTime
		}
		return midnight.Unix() + domain.ParseTimeOfDay(hhmm), true, nil
	}

	// Minutes-from-base: step 1 counts from enrollment, later steps
	// from the previous step's send.
	base := c.Enrollment.StartedAt
	if step.StepNumber > 1 {
		prev, err := p.previousStep(ctx, c)
		if err != nil {
			return 0, false, err
		}
		if prev == nil {
			return 0, false, nil
		}
		log, err := p.deliveryLogRepo.GetLatestSequenceLog(ctx, c.Subscriber.ID, c.Sequence.ID, prev.ID)
		if err != nil {
			var notFound *domain.ErrDeliveryLogNotFound
			if errors.As(err, &notFound) {
				return 0, false, nil
			}
			return 0, false, err
		}
		if log.SentAt == nil {
			return 0, false, nil
		}
		base = *log.SentAt
	}
	return base + int64(*step.DelayMinutes)*60, true, nil
}

// previousStep finds the enabled step the enrollment cursor points at.
// After a step replacement the previous send may reference a retired
// step row; the candidate then skips until the schedule is re-anchored.
func (p *SequenceProcessor) previousStep(ctx context.Context, c *domain.DueCandidate) (*domain.SequenceStep, error) {
	steps, err := p.sequenceRepo.ListSteps(ctx, c.Sequence.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequence steps: %w", err)
	}
	for _, s := range steps {
		if s.StepNumber == c.Enrollment.CurrentStep {
			return s, nil
		}
	}
	return nil, nil
}

func (p *SequenceProcessor) dispatch(ctx context.Context, c *domain.DueCandidate, now time.Time) {
	step := c.Step
	templateID := ""
	if step.TemplateID != nil {
		templateID = *step.TemplateID
	}
	replyTo := ""
	if c.Sequence.ReplyTo != nil {
		replyTo = *c.Sequence.ReplyTo
	}

	_, err := p.sender.Send(ctx, SendRequest{
		SequenceID:     &c.Sequence.ID,
		SequenceStepID: &step.ID,
		TemplateID:     templateID,
		Subject:        step.Subject,
		Content:        step.Content,
		ReplyTo:        replyTo,
		Targets:        []*domain.Subscriber{&c.Subscriber},
	})
	if err != nil {
		p.recordFailure(ctx, c, err, now)
		return
	}

	enabledCount, err := p.sequenceRepo.CountEnabledSteps(ctx, c.Sequence.ID)
	if err != nil {
		p.logger.WithFields(map[string]interface{}{
			"enrollment_id": c.Enrollment.ID,
			"error":         err.Error(),
		}).Error("Step sent but enabled-step count failed, cursor not advanced")
		return
	}
	var completedAt *int64
	if step.StepNumber >= enabledCount {
		ts := now.Unix()
		completedAt = &ts
	}
	if err := p.sequenceRepo.AdvanceEnrollment(ctx, c.Enrollment.ID, step.StepNumber, completedAt); err != nil {
		// The send went out; advancing will be retried next tick, which
		// may resend. At-least-once is the accepted delivery model.
		p.logger.WithFields(map[string]interface{}{
			"enrollment_id": c.Enrollment.ID,
			"step_number":   step.StepNumber,
			"error":         err.Error(),
		}).Error("Step sent but cursor advance failed")
		return
	}

	p.logger.WithFields(map[string]interface{}{
		"sequence_id":   c.Sequence.ID,
		"subscriber_id": c.Subscriber.ID,
		"step_number":   step.StepNumber,
		"completed":     completedAt != nil,
	}).Info("Dispatched sequence step")
}

// recordFailure writes a failed delivery log without advancing the
// cursor; the step is retried on a later tick.
func (p *SequenceProcessor) recordFailure(ctx context.Context, c *domain.DueCandidate, sendErr error, now time.Time) {
	msg := sendErr.Error()
	subject := c.Step.Subject
	logRow := &domain.DeliveryLog{
		ID:             uuid.New().String(),
		SequenceID:     &c.Sequence.ID,
		SequenceStepID: &c.Step.ID,
		SubscriberID:   c.Subscriber.ID,
		Email:          c.Subscriber.Email,
		EmailSubject:   &subject,
		Status:         domain.DeliveryStatusFailed,
		ErrorMessage:   &msg,
		CreatedAt:      now.Unix(),
	}
	if err := p.deliveryLogRepo.Create(ctx, logRow); err != nil {
		p.logger.WithFields(map[string]interface{}{
			"enrollment_id": c.Enrollment.ID,
			"error":         err.Error(),
		}).Error("Failed to record failed sequence dispatch")
	}
	p.logger.WithFields(map[string]interface{}{
		"sequence_id":   c.Sequence.ID,
		"subscriber_id": c.Subscriber.ID,
		"step_number":   c.Step.StepNumber,
		"error":         msg,
	}).Warn("Sequence step dispatch failed, will retry")
}
