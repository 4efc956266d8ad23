package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
)

func deliveryLogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "campaign_id", "sequence_id", "sequence_step_id", "subscriber_id",
		"email", "email_subject", "ab_variant", "status", "provider_message_id",
		"sent_at", "delivered_at", "opened_at", "clicked_at", "error_message", "created_at",
	})
}

func TestDeliveryLogRepository_GetByProviderMessageID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryLogRepository(db)

	t.Run("with email disambiguation", func(t *testing.T) {
		rows := deliveryLogRows().AddRow(
			"log1", "camp1", nil, nil, "sub1",
			"taro@example.com", nil, nil, "sent", "msg_123",
			int64(1700000000), nil, nil, nil, nil, int64(1700000000),
		)
		mock.ExpectQuery(`SELECT (.+) FROM delivery_logs WHERE email = \$1 AND provider_message_id = \$2`).
			WithArgs("taro@example.com", "msg_123").
			WillReturnRows(rows)

		log, err := repo.GetByProviderMessageID(context.Background(), "msg_123", "taro@example.com")
		require.NoError(t, err)
		assert.Equal(t, "log1", log.ID)
	})

	t.Run("without email", func(t *testing.T) {
		rows := deliveryLogRows().AddRow(
			"log2", nil, "seq1", "st1", "sub2",
			"jiro@example.com", nil, nil, "sent", "msg_456",
			int64(1700000000), nil, nil, nil, nil, int64(1700000000),
		)
		mock.ExpectQuery(`SELECT (.+) FROM delivery_logs WHERE provider_message_id = \$1`).
			WithArgs("msg_456").
			WillReturnRows(rows)

		log, err := repo.GetByProviderMessageID(context.Background(), "msg_456", "")
		require.NoError(t, err)
		assert.Equal(t, "log2", log.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM delivery_logs WHERE provider_message_id = \$1`).
			WithArgs("msg_none").
			WillReturnRows(deliveryLogRows())

		_, err := repo.GetByProviderMessageID(context.Background(), "msg_none", "")
		var notFound *domain.ErrDeliveryLogNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepository_InsertClickEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryLogRepository(db)

	event := &domain.ClickEvent{
		ID:            "click1",
		DeliveryLogID: "log1",
		SubscriberID:  "sub1",
		ClickedURL:    "https://x.example/page",
		ClickedAt:     1700000000,
	}

	t.Run("first click lands", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO click_events`).
			WithArgs(event.ID, event.DeliveryLogID, event.SubscriberID, event.ClickedURL,
				event.ClickedAt, int64(60)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := repo.InsertClickEvent(context.Background(), event)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("click inside dedup window is dropped", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO click_events`).
			WithArgs(event.ID, event.DeliveryLogID, event.SubscriberID, event.ClickedURL,
				event.ClickedAt, int64(60)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.InsertClickEvent(context.Background(), event)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepository_GetCampaignStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryLogRepository(db)

	rows := sqlmock.NewRows([]string{"sent", "delivered", "opened", "clicked", "bounced", "failed"}).
		AddRow(100, 95, 40, 12, 3, 2)
	mock.ExpectQuery(`SELECT COUNT\(sent_at\), COUNT\(delivered_at\)`).
		WithArgs("camp1").
		WillReturnRows(rows)

	stats, err := repo.GetCampaignStats(context.Background(), "camp1")
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalSent)
	assert.Equal(t, 95, stats.TotalDelivered)
	assert.Equal(t, 42, stats.OpenRate())
	assert.Equal(t, 12, stats.TotalClicked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryLogRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM delivery_logs WHERE campaign_id = \$1`).
		WithArgs("camp1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := deliveryLogRows().AddRow(
		"log1", "camp1", nil, nil, "sub1",
		"taro@example.com", nil, nil, "delivered", "msg_123",
		int64(1700000000), int64(1700000060), nil, nil, nil, int64(1700000000),
	)
	mock.ExpectQuery(`SELECT (.+) FROM delivery_logs WHERE campaign_id = \$1 ORDER BY created_at DESC`).
		WithArgs("camp1").
		WillReturnRows(rows)

	logs, total, err := repo.List(context.Background(), domain.DeliveryListParams{
		CampaignID: "camp1",
		Limit:      50,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.DeliveryStatusDelivered, logs[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
