package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// SequenceService owns sequence CRUD, the atomic step replacement
// protocol, and the strict enrollment API.
type SequenceService struct {
	sequenceRepo   domain.SequenceRepository
	subscriberRepo domain.SubscriberRepository
	logger         logger.Logger
}

func NewSequenceService(
	sequenceRepo domain.SequenceRepository,
	subscriberRepo domain.SubscriberRepository,
	log logger.Logger,
) *SequenceService {
	return &SequenceService{
		sequenceRepo:   sequenceRepo,
		subscriberRepo: subscriberRepo,
		logger:         log,
	}
}

func (s *SequenceService) Create(ctx context.Context, sequence *domain.Sequence, steps []*domain.SequenceStep) error {
	if err := sequence.Validate(); err != nil {
		return err
	}
	now := time.Now().Unix()
	sequence.ID = uuid.New().String()
	sequence.CreatedAt = now
	sequence.UpdatedAt = now
	if err := s.sequenceRepo.Create(ctx, sequence); err != nil {
		return err
	}
	if len(steps) > 0 {
		if err := s.ReplaceSteps(ctx, sequence.ID, steps); err != nil {
			return err
		}
	}
	return nil
}

func (s *SequenceService) GetByID(ctx context.Context, id string) (*domain.Sequence, error) {
	return s.sequenceRepo.GetByID(ctx, id)
}

func (s *SequenceService) List(ctx context.Context) ([]*domain.Sequence, error) {
	return s.sequenceRepo.List(ctx)
}

func (s *SequenceService) ListSteps(ctx context.Context, sequenceID string) ([]*domain.SequenceStep, error) {
	if _, err := s.sequenceRepo.GetByID(ctx, sequenceID); err != nil {
		return nil, err
	}
	return s.sequenceRepo.ListSteps(ctx, sequenceID, true)
}

// Update edits the sequence header. Steps are replaced separately so a
// header edit can never half-apply a schedule change.
func (s *SequenceService) Update(ctx context.Context, sequence *domain.Sequence, steps []*domain.SequenceStep) error {
	existing, err := s.sequenceRepo.GetByID(ctx, sequence.ID)
	if err != nil {
		return err
	}
	if err := sequence.Validate(); err != nil {
		return err
	}
	sequence.CreatedAt = existing.CreatedAt
	sequence.UpdatedAt = time.Now().Unix()
	if err := s.sequenceRepo.Update(ctx, sequence); err != nil {
		return err
	}
	if steps != nil {
		return s.ReplaceSteps(ctx, sequence.ID, steps)
	}
	return nil
}

func (s *SequenceService) Delete(ctx context.Context, id string) error {
	if _, err := s.sequenceRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.sequenceRepo.Delete(ctx, id)
}

// ReplaceSteps swaps the sequence's step set without ever exposing a
// partially-rewritten schedule to the dispatch query:
//
//  1. every incoming step is validated before any write
//  2. the new steps are inserted disabled
//  3. one transaction disables the old steps and enables the new ones
//
// A failure at step 2 orphans disabled rows only; a failure at step 3
// leaves the old schedule running. Disabled rows are retained for the
// foreign keys held by historical delivery logs.
func (s *SequenceService) ReplaceSteps(ctx context.Context, sequenceID string, steps []*domain.SequenceStep) error {
	if _, err := s.sequenceRepo.GetByID(ctx, sequenceID); err != nil {
		return err
	}

	now := time.Now().Unix()
	newStepIDs := make([]string, 0, len(steps))
	for i, step := range steps {
		step.SequenceID = sequenceID
		step.StepNumber = i + 1
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		step.ID = uuid.New().String()
		step.IsEnabled = false
		step.CreatedAt = now
		newStepIDs = append(newStepIDs, step.ID)
	}

	if len(steps) > 0 {
		if err := s.sequenceRepo.InsertStepsDisabled(ctx, steps); err != nil {
			return fmt.Errorf("failed to stage replacement steps: %w", err)
		}
	}

	if err := s.sequenceRepo.SwapEnabledSteps(ctx, sequenceID, newStepIDs); err != nil {
		return fmt.Errorf("failed to swap sequence steps: %w", err)
	}
	return nil
}

// Enroll is the strict admin enrollment: unlike enroll-on-confirm it
// errors on a missing or inactive subscriber or sequence, and on an
// existing enrollment.
func (s *SequenceService) Enroll(ctx context.Context, sequenceID, subscriberID string) (*domain.Enrollment, error) {
	subscriber, err := s.subscriberRepo.GetByID(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if subscriber.Status != domain.SubscriberStatusActive {
		return nil, fmt.Errorf("subscriber %s is %s, only active subscribers can be enrolled", subscriberID, subscriber.Status)
	}

	sequence, err := s.sequenceRepo.GetByID(ctx, sequenceID)
	if err != nil {
		return nil, err
	}
	if !sequence.IsActive {
		return nil, fmt.Errorf("sequence %s is inactive", sequenceID)
	}

	enrollment := &domain.Enrollment{
		ID:           uuid.New().String(),
		SubscriberID: subscriberID,
		SequenceID:   sequenceID,
		CurrentStep:  0,
		StartedAt:    time.Now().Unix(),
	}
	inserted, err := s.sequenceRepo.CreateEnrollment(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, &domain.ErrAlreadyEnrolled{
			Message: fmt.Sprintf("subscriber %s is already enrolled in sequence %s", subscriberID, sequenceID),
		}
	}
	return enrollment, nil
}

// ListEnrollments returns the enrollments of a sequence.
func (s *SequenceService) ListEnrollments(ctx context.Context, sequenceID string) ([]*domain.Enrollment, error) {
	if _, err := s.sequenceRepo.GetByID(ctx, sequenceID); err != nil {
		return nil, err
	}
	return s.sequenceRepo.ListEnrollmentsBySequence(ctx, sequenceID)
}

// ListSubscriberEnrollments returns the sequences a subscriber is
// enrolled in, as enrollments.
func (s *SequenceService) ListSubscriberEnrollments(ctx context.Context, subscriberID string) ([]*domain.Enrollment, error) {
	if _, err := s.subscriberRepo.GetByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	enrollments, err := s.sequenceRepo.ListEnrollmentsBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// IsAlreadyEnrolled reports whether err is the strict-enroll duplicate
// error, so handlers can map it to a 400 with a stable message.
func IsAlreadyEnrolled(err error) bool {
	var already *domain.ErrAlreadyEnrolled
	return errors.As(err, &already)
}
