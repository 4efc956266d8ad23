package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func webhookPayload(t *testing.T, raw string) *domain.EmailWebhookPayload {
	t.Helper()
	var p domain.EmailWebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func sentLog() *domain.DeliveryLog {
	sentAt := int64(1710000000)
	messageID := "msg-1"
	return &domain.DeliveryLog{
		ID:                "dl-1",
		SubscriberID:      "sub-1",
		Email:             "a@example.com",
		Status:            domain.DeliveryStatusSent,
		ProviderMessageID: &messageID,
		SentAt:            &sentAt,
		CreatedAt:         sentAt,
	}
}

func TestHandleEventAdvancesAndBackfills(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	// An open arriving before the delivered event back-fills delivered_at.
	payload := webhookPayload(t, `{
		"type": "email.opened",
		"created_at": "2024-03-10T12:00:00Z",
		"data": {"email_id": "msg-1", "to": ["a@example.com"]}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(sentLog(), nil)
	logRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, row *domain.DeliveryLog) error {
			assert.Equal(t, domain.DeliveryStatusOpened, row.Status)
			require.NotNil(t, row.OpenedAt)
			require.NotNil(t, row.DeliveredAt)
			assert.Equal(t, *row.OpenedAt, *row.DeliveredAt)
			return nil
		})

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventSkipsNonAdvancing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	// A delivered event after the log already reached opened is dropped
	// without an update.
	log := sentLog()
	log.Status = domain.DeliveryStatusOpened
	payload := webhookPayload(t, `{
		"type": "email.delivered",
		"data": {"email_id": "msg-1", "to": ["a@example.com"]}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(log, nil)

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventFailureOverwritesSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	clickedAt := int64(1710001000)
	log := sentLog()
	log.Status = domain.DeliveryStatusClicked
	log.ClickedAt = &clickedAt

	payload := webhookPayload(t, `{
		"type": "email.bounced",
		"data": {"email_id": "msg-1", "to": ["a@example.com"], "bounce": {"message": "mailbox full"}}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(log, nil)
	logRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, row *domain.DeliveryLog) error {
			assert.Equal(t, domain.DeliveryStatusBounced, row.Status)
			require.NotNil(t, row.ErrorMessage)
			assert.Equal(t, "mailbox full", *row.ErrorMessage)
			// Success timestamps survive the failure.
			require.NotNil(t, row.ClickedAt)
			assert.Equal(t, clickedAt, *row.ClickedAt)
			return nil
		})

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventSuccessAfterFailureKeepsFailureStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	log := sentLog()
	log.Status = domain.DeliveryStatusBounced

	payload := webhookPayload(t, `{
		"type": "email.opened",
		"created_at": "2024-03-10T12:00:00Z",
		"data": {"email_id": "msg-1", "to": ["a@example.com"]}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(log, nil)
	logRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, row *domain.DeliveryLog) error {
			assert.Equal(t, domain.DeliveryStatusBounced, row.Status)
			require.NotNil(t, row.OpenedAt)
			return nil
		})

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventClickInsertsClickEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	payload := webhookPayload(t, `{
		"type": "email.clicked",
		"created_at": "2024-03-10T12:00:00Z",
		"data": {"email_id": "msg-1", "to": ["a@example.com"], "click": {"link": "https://example.com/article"}}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(sentLog(), nil)
	logRepo.EXPECT().InsertClickEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, ev *domain.ClickEvent) (bool, error) {
			assert.Equal(t, "dl-1", ev.DeliveryLogID)
			assert.Equal(t, "sub-1", ev.SubscriberID)
			assert.Equal(t, "https://example.com/article", ev.ClickedURL)
			return true, nil
		})
	logRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, row *domain.DeliveryLog) error {
			assert.Equal(t, domain.DeliveryStatusClicked, row.Status)
			require.NotNil(t, row.ClickedAt)
			require.NotNil(t, row.OpenedAt)
			require.NotNil(t, row.DeliveredAt)
			return nil
		})

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventRepeatClickStillInsertsClickEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	// The fold is non-advancing (already clicked) but the click event is
	// still offered to the dedup insert.
	clickedAt := int64(1710001000)
	log := sentLog()
	log.Status = domain.DeliveryStatusClicked
	log.ClickedAt = &clickedAt

	payload := webhookPayload(t, `{
		"type": "email.clicked",
		"data": {"email_id": "msg-1", "to": ["a@example.com"], "click": {"link": "https://example.com/other"}}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").Return(log, nil)
	logRepo.EXPECT().InsertClickEvent(gomock.Any(), gomock.Any()).Return(false, nil)

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventCorrelationFallsBackToBareID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	payload := webhookPayload(t, `{
		"type": "email.delivered",
		"created_at": "2024-03-10T12:00:00Z",
		"data": {"email_id": "msg-1", "to": ["a@example.com"]}
	}`)

	gomock.InOrder(
		logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "a@example.com").
			Return(nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"}),
		logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-1", "").Return(sentLog(), nil),
	)
	logRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventUnmatchedIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logRepo := mocks.NewMockDeliveryLogRepository(ctrl)
	s := NewDeliveryEventService(logRepo, logger.NewTestLogger(t))

	payload := webhookPayload(t, `{
		"type": "email.delivered",
		"data": {"email_id": "msg-unknown", "to": ["a@example.com"]}
	}`)

	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-unknown", "a@example.com").
		Return(nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"})
	logRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "msg-unknown", "").
		Return(nil, &domain.ErrDeliveryLogNotFound{Message: "delivery log not found"})

	require.NoError(t, s.HandleEvent(context.Background(), payload))
}

func TestHandleEventUnknownTypeErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewDeliveryEventService(mocks.NewMockDeliveryLogRepository(ctrl), logger.NewTestLogger(t))

	payload := webhookPayload(t, `{"type": "email.snoozed", "data": {"email_id": "msg-1"}}`)
	assert.Error(t, s.HandleEvent(context.Background(), payload))
}
