package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_StatementFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("").WillReturnError(assert.AnError)

	err = EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "failed to apply schema statement")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogsKeepAttributionOnSourceDeletion(t *testing.T) {
	var deliveryLogs string
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS delivery_logs") {
			deliveryLogs = stmt
			break
		}
	}
	require.NotEmpty(t, deliveryLogs)

	// Deleting a sequence or swapping its steps must not touch historical
	// logs, so the attribution columns carry no foreign-key actions.
	assert.NotContains(t, deliveryLogs, "REFERENCES")
	assert.NotContains(t, deliveryLogs, "ON DELETE")
}

func TestEnsureAdminUser(t *testing.T) {
	t.Run("creates the owner account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("admin@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		mock.ExpectExec(`INSERT INTO admin_users`).
			WithArgs(sqlmock.AnyArg(), "admin@example.com", sqlmock.AnyArg(), "owner", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, EnsureAdminUser(context.Background(), db, "admin@example.com", "s3cret"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing account is left alone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("admin@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, EnsureAdminUser(context.Background(), db, "admin@example.com", "s3cret"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty email is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, EnsureAdminUser(context.Background(), db, "", ""))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing password is rejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("admin@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err = EnsureAdminUser(context.Background(), db, "admin@example.com", "")
		assert.ErrorContains(t, err, "admin password is required")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
