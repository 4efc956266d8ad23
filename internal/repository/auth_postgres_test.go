package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
)

func TestAuthRepository_GetSessionUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuthRepository(db)

	t.Run("valid session", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow("u1", "admin@example.com", "hash", "owner", int64(1700000000))
		mock.ExpectQuery(`JOIN admin_users`).
			WithArgs("tok123", int64(1700000500)).
			WillReturnRows(rows)

		user, err := repo.GetSessionUser(context.Background(), "tok123", 1700000500)
		require.NoError(t, err)
		assert.Equal(t, domain.AdminRoleOwner, user.Role)
	})

	t.Run("expired session", func(t *testing.T) {
		mock.ExpectQuery(`JOIN admin_users`).
			WithArgs("tok123", int64(1800000000)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}))

		_, err := repo.GetSessionUser(context.Background(), "tok123", 1800000000)
		var notFound *domain.ErrSessionNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
