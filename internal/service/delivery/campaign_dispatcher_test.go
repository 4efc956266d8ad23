package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func scheduledCampaign() *domain.Campaign {
	scheduledAt := int64(1709990000)
	return &domain.Campaign{
		ID:           "camp-1",
		Subject:      "March issue",
		Content:      "<p>News</p>",
		Status:       domain.CampaignStatusScheduled,
		ScheduledAt:  &scheduledAt,
		ScheduleType: domain.ScheduleTypeNone,
	}
}

func TestCampaignDispatcherOneShotAccounting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	sender := &stubSender{result: &SendResult{Recipients: 3}}

	now := time.Unix(1709990100, 0)
	d := NewCampaignDispatcher(campaignRepo, subscriberRepo, sender, fixedClock{now: now}, 540, logger.NewTestLogger(t))

	campaign := scheduledCampaign()
	campaignRepo.EXPECT().ListDueScheduled(gomock.Any(), now.Unix()).
		Return([]*domain.Campaign{campaign}, nil)
	subscriberRepo.EXPECT().ListTargets(gomock.Any(), gomock.Nil()).Return(audience(3), nil)
	campaignRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, c *domain.Campaign) error {
			assert.Equal(t, domain.CampaignStatusSent, c.Status)
			require.NotNil(t, c.SentAt)
			assert.Equal(t, now.Unix(), *c.SentAt)
			require.NotNil(t, c.RecipientCount)
			assert.Equal(t, 3, *c.RecipientCount)
			return nil
		})

	require.NoError(t, d.ProcessDue(context.Background()))
	require.Len(t, sender.requests, 1)
	assert.Equal(t, "camp-1", *sender.requests[0].CampaignID)
}

func TestCampaignDispatcherRecurringWeeklyAdvancesSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	sender := &stubSender{}

	// Monday 2024-01-15 09:00 at +09:00.
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, jst)
	d := NewCampaignDispatcher(campaignRepo, subscriberRepo, sender, fixedClock{now: now}, 540, logger.NewTestLogger(t))

	dow := 1
	campaign := scheduledCampaign()
	campaign.ScheduleType = domain.ScheduleTypeWeekly
	campaign.ScheduleConfig = &domain.ScheduleConfig{Hour: 9, Minute: 0, DayOfWeek: &dow}

	campaignRepo.EXPECT().ListDueScheduled(gomock.Any(), now.Unix()).
		Return([]*domain.Campaign{campaign}, nil)
	subscriberRepo.EXPECT().ListTargets(gomock.Any(), gomock.Nil()).Return(audience(2), nil)
	campaignRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, c *domain.Campaign) error {
			// Recurring campaigns stay scheduled with the next Monday set.
			assert.Equal(t, domain.CampaignStatusScheduled, c.Status)
			require.NotNil(t, c.LastSentAt)
			assert.Equal(t, now.Unix(), *c.LastSentAt)
			require.NotNil(t, c.ScheduledAt)
			assert.Equal(t, time.Date(2024, 1, 22, 9, 0, 0, 0, jst).Unix(), *c.ScheduledAt)
			assert.Nil(t, c.SentAt)
			return nil
		})

	require.NoError(t, d.ProcessDue(context.Background()))
}

func TestCampaignDispatcherSendFailureMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	sender := &stubSender{err: assert.AnError}

	now := time.Unix(1709990100, 0)
	d := NewCampaignDispatcher(campaignRepo, subscriberRepo, sender, fixedClock{now: now}, 540, logger.NewTestLogger(t))

	campaignRepo.EXPECT().ListDueScheduled(gomock.Any(), now.Unix()).
		Return([]*domain.Campaign{scheduledCampaign()}, nil)
	subscriberRepo.EXPECT().ListTargets(gomock.Any(), gomock.Nil()).Return(audience(2), nil)
	campaignRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, c *domain.Campaign) error {
			assert.Equal(t, domain.CampaignStatusFailed, c.Status)
			return nil
		})

	require.NoError(t, d.ProcessDue(context.Background()))
}

func TestCampaignDispatcherEmptyAudienceMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	subscriberRepo := mocks.NewMockSubscriberRepository(ctrl)
	sender := &stubSender{}

	now := time.Unix(1709990100, 0)
	d := NewCampaignDispatcher(campaignRepo, subscriberRepo, sender, fixedClock{now: now}, 540, logger.NewTestLogger(t))

	campaignRepo.EXPECT().ListDueScheduled(gomock.Any(), now.Unix()).
		Return([]*domain.Campaign{scheduledCampaign()}, nil)
	subscriberRepo.EXPECT().ListTargets(gomock.Any(), gomock.Nil()).Return(nil, nil)
	campaignRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, c *domain.Campaign) error {
			assert.Equal(t, domain.CampaignStatusFailed, c.Status)
			return nil
		})

	require.NoError(t, d.ProcessDue(context.Background()))
	assert.Empty(t, sender.requests)
}
