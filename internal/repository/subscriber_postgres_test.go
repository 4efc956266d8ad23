package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
)

func subscriberRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "name", "status", "unsubscribe_token",
		"subscribed_at", "unsubscribed_at", "created_at",
	})
}

func TestSubscriberRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	name := "Taro Yamada"
	subscribedAt := int64(1700000100)
	subscriber := &domain.Subscriber{
		ID:               "sub1",
		Email:            "taro@example.com",
		Name:             &name,
		Status:           domain.SubscriberStatusActive,
		UnsubscribeToken: "tok123",
		SubscribedAt:     &subscribedAt,
		CreatedAt:        1700000000,
	}

	mock.ExpectExec(`INSERT INTO subscribers`).
		WithArgs(subscriber.ID, subscriber.Email, subscriber.Name, subscriber.Status,
			subscriber.UnsubscribeToken, subscriber.SubscribedAt, subscriber.UnsubscribedAt,
			subscriber.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), subscriber)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	t.Run("found lowercases the email", func(t *testing.T) {
		rows := subscriberRows().
			AddRow("sub1", "taro@example.com", nil, "active", "tok123", int64(1700000100), nil, int64(1700000000))

		mock.ExpectQuery(`SELECT (.+) FROM subscribers WHERE email`).
			WithArgs("taro@example.com").
			WillReturnRows(rows)

		subscriber, err := repo.GetByEmail(context.Background(), "Taro@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "sub1", subscriber.ID)
		assert.Equal(t, domain.SubscriberStatusActive, subscriber.Status)
	})

	t.Run("not found returns typed error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM subscribers WHERE email`).
			WithArgs("missing@example.com").
			WillReturnRows(subscriberRows())

		_, err := repo.GetByEmail(context.Background(), "missing@example.com")
		require.Error(t, err)
		var notFound *domain.ErrSubscriberNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_MarkUnsubscribed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	t.Run("updates the row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE subscribers`).
			WithArgs(int64(1700000500), "sub1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkUnsubscribed(context.Background(), "sub1", 1700000500))
	})

	t.Run("missing subscriber", func(t *testing.T) {
		mock.ExpectExec(`UPDATE subscribers`).
			WithArgs(int64(1700000500), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkUnsubscribed(context.Background(), "ghost", 1700000500)
		var notFound *domain.ErrSubscriberNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_ListTargets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	t.Run("whole active audience", func(t *testing.T) {
		rows := subscriberRows().
			AddRow("sub1", "a@example.com", nil, "active", "t1", int64(1), nil, int64(1)).
			AddRow("sub2", "b@example.com", nil, "active", "t2", int64(2), nil, int64(2))

		mock.ExpectQuery(`SELECT (.+) FROM subscribers\s+WHERE status = 'active'`).
			WillReturnRows(rows)

		targets, err := repo.ListTargets(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, targets, 2)
	})

	t.Run("list members only", func(t *testing.T) {
		rows := subscriberRows().
			AddRow("sub1", "a@example.com", nil, "active", "t1", int64(1), nil, int64(1))

		mock.ExpectQuery(`JOIN list_members`).
			WithArgs("list1").
			WillReturnRows(rows)

		listID := "list1"
		targets, err := repo.ListTargets(context.Background(), &listID)
		require.NoError(t, err)
		assert.Len(t, targets, 1)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM subscribers WHERE status`).
		WithArgs(domain.SubscriberStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	rows := subscriberRows().
		AddRow("sub1", "a@example.com", nil, "active", "t1", int64(1), nil, int64(1))
	mock.ExpectQuery(`SELECT (.+) FROM subscribers WHERE status (.+) LIMIT`).
		WithArgs(domain.SubscriberStatusActive, 10, 0).
		WillReturnRows(rows)

	subscribers, total, err := repo.List(context.Background(), domain.SubscriberListParams{
		Status: domain.SubscriberStatusActive,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, subscribers, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
