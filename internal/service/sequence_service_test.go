package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func newSequenceService(t *testing.T, ctrl *gomock.Controller) (*SequenceService, *mocks.MockSequenceRepository, *mocks.MockSubscriberRepository) {
	sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	return NewSequenceService(sequenceRepo, subscriberRepo, logger.NewTestLogger(t)), sequenceRepo, subscriberRepo
}

func TestReplaceStepsStagesDisabledThenSwaps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, _ := newSequenceService(t, ctrl)

	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding"}, nil)

	steps := []*domain.SequenceStep{
		{Subject: "Welcome", Content: "<p>Hi</p>", DelayDays: 0},
		{Subject: "Day three", Content: "<p>Tips</p>", DelayDays: 3},
	}

	var stagedIDs []string
	gomock.InOrder(
		sequenceRepo.EXPECT().InsertStepsDisabled(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, staged []*domain.SequenceStep) error {
				require.Len(t, staged, 2)
				for i, step := range staged {
					// Staged rows are disabled and renumbered from 1.
					assert.False(t, step.IsEnabled)
					assert.Equal(t, i+1, step.StepNumber)
					assert.Equal(t, "seq-1", step.SequenceID)
					assert.NotEmpty(t, step.ID)
					stagedIDs = append(stagedIDs, step.ID)
				}
				return nil
			}),
		sequenceRepo.EXPECT().SwapEnabledSteps(gomock.Any(), "seq-1", gomock.Any()).
			DoAndReturn(func(_ interface{}, _ string, ids []string) error {
				assert.Equal(t, stagedIDs, ids)
				return nil
			}),
	)

	require.NoError(t, s.ReplaceSteps(context.Background(), "seq-1", steps))
}

func TestReplaceStepsValidatesBeforeAnyWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, _ := newSequenceService(t, ctrl)

	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding"}, nil)

	steps := []*domain.SequenceStep{
		{Subject: "Welcome", Content: "<p>Hi</p>"},
		{Subject: "", Content: "<p>bad</p>"},
	}

	err := s.ReplaceSteps(context.Background(), "seq-1", steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
}

func TestReplaceStepsEmptySetDisablesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, _ := newSequenceService(t, ctrl)

	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding"}, nil)
	// No staging insert; the swap just disables the current set.
	sequenceRepo.EXPECT().SwapEnabledSteps(gomock.Any(), "seq-1", gomock.Len(0)).Return(nil)

	require.NoError(t, s.ReplaceSteps(context.Background(), "seq-1", nil))
}

func TestEnrollStrict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, subscriberRepo := newSequenceService(t, ctrl)

	subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusActive}, nil)
	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").
		Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding", IsActive: true}, nil)
	sequenceRepo.EXPECT().CreateEnrollment(gomock.Any(), gomock.Any()).Return(true, nil)

	enrollment, err := s.Enroll(context.Background(), "seq-1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.CurrentStep)
	assert.NotZero(t, enrollment.StartedAt)
}

func TestEnrollDuplicateReturnsAlreadyEnrolled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, subscriberRepo := newSequenceService(t, ctrl)

	subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusActive}, nil)
	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").
		Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding", IsActive: true}, nil)
	sequenceRepo.EXPECT().CreateEnrollment(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := s.Enroll(context.Background(), "seq-1", "sub-1")
	require.Error(t, err)
	assert.True(t, IsAlreadyEnrolled(err))
}

func TestEnrollRejectsInactiveSubscriber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, subscriberRepo := newSequenceService(t, ctrl)

	subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusUnsubscribed}, nil)

	_, err := s.Enroll(context.Background(), "seq-1", "sub-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only active subscribers")
}

func TestEnrollRejectsInactiveSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, subscriberRepo := newSequenceService(t, ctrl)

	subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&domain.Subscriber{ID: "sub-1", Status: domain.SubscriberStatusActive}, nil)
	sequenceRepo.EXPECT().GetByID(gomock.Any(), "seq-1").
		Return(&domain.Sequence{ID: "seq-1", Name: "Onboarding", IsActive: false}, nil)

	_, err := s.Enroll(context.Background(), "seq-1", "sub-1")
	assert.Error(t, err)
}

func TestCreateSequenceWithSteps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, sequenceRepo, _ := newSequenceService(t, ctrl)

	sequence := &domain.Sequence{Name: "Onboarding", IsActive: true}
	steps := []*domain.SequenceStep{{Subject: "Welcome", Content: "<p>Hi</p>"}}

	sequenceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, seq *domain.Sequence) error {
			assert.NotEmpty(t, seq.ID)
			// Validate() fills the default send time.
			assert.Equal(t, "10:00", seq.DefaultSendTime)
			return nil
		})
	sequenceRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, id string) (*domain.Sequence, error) {
			return &domain.Sequence{ID: id, Name: "Onboarding"}, nil
		})
	sequenceRepo.EXPECT().InsertStepsDisabled(gomock.Any(), gomock.Any()).Return(nil)
	sequenceRepo.EXPECT().SwapEnabledSteps(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, s.Create(context.Background(), sequence, steps))
}
