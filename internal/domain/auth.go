package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_auth_repository.go -package mocks github.com/postwind/postwind/internal/domain AuthRepository

// AdminRole gates access to the admin surface.
type AdminRole string

const (
	AdminRoleOwner AdminRole = "owner"
	AdminRoleAdmin AdminRole = "admin"
)

// CanAdminister reports whether the role grants admin API access.
func (r AdminRole) CanAdminister() bool {
	return r == AdminRoleOwner || r == AdminRoleAdmin
}

// AdminUser is an operator account shared with the admin UI.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    int64     `json:"created_at"`
}

// AdminSession is a cookie-backed login. Token is the cookie value.
type AdminSession struct {
	Token     string `json:"-"`
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
	CreatedAt int64  `json:"created_at"`
}

// SessionTTLSeconds is the admin session lifetime (30 days).
const SessionTTLSeconds = 30 * 24 * 3600

// AuthRepository persists admin users and sessions.
type AuthRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*AdminUser, error)

	CreateSession(ctx context.Context, session *AdminSession) error

	// GetSessionUser resolves a session token to its user, joining
	// admin_sessions to admin_users and requiring expires_at > now.
	GetSessionUser(ctx context.Context, token string, now int64) (*AdminUser, error)

	DeleteSession(ctx context.Context, token string) error
}
