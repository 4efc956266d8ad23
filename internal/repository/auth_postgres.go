package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/postwind/postwind/internal/domain"
)

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new PostgreSQL auth repository
func NewAuthRepository(db *sql.DB) domain.AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) GetUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM admin_users WHERE email = $1
	`
	var u domain.AdminUser
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSessionNotFound{Message: "user not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return &u, nil
}

func (r *authRepository) CreateSession(ctx context.Context, session *domain.AdminSession) error {
	query := `
		INSERT INTO admin_sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *authRepository) GetSessionUser(ctx context.Context, token string, now int64) (*domain.AdminUser, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.created_at
		FROM admin_sessions s
		JOIN admin_users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2
	`
	var u domain.AdminUser
	err := r.db.QueryRowContext(ctx, query, token, now).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSessionNotFound{Message: "session not found or expired"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	return &u, nil
}

func (r *authRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
