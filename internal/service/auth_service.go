package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/crypto"
	"github.com/postwind/postwind/pkg/logger"
)

// ErrInvalidCredentials is returned for a failed login. The message is
// deliberately identical for unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates admin requests: bearer API key compared in
// constant time, or a session cookie backed by the admin_sessions table.
type AuthService struct {
	authRepo    domain.AuthRepository
	adminAPIKey string
	logger      logger.Logger
}

func NewAuthService(authRepo domain.AuthRepository, adminAPIKey string, log logger.Logger) *AuthService {
	return &AuthService{
		authRepo:    authRepo,
		adminAPIKey: adminAPIKey,
		logger:      log,
	}
}

// ValidateAPIKey reports whether the presented bearer key matches the
// configured admin key.
func (s *AuthService) ValidateAPIKey(key string) bool {
	if key == "" || s.adminAPIKey == "" {
		return false
	}
	return crypto.SecureCompare(key, s.adminAPIKey)
}

// Login verifies the password and creates a session. The returned
// session token is the cookie value.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AdminSession, error) {
	user, err := s.authRepo.GetUserByEmail(ctx, email)
	if err != nil {
		var notFound *domain.ErrSessionNotFound
		if errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := crypto.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().Unix()
	session := &domain.AdminSession{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now + domain.SessionTTLSeconds,
		CreatedAt: now,
	}
	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Admin login")
	return session, nil
}

// ValidateSession resolves a session cookie to its user, requiring a
// non-expired session and an administering role.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.AdminUser, error) {
	if token == "" {
		return nil, &domain.ErrSessionNotFound{Message: "empty session token"}
	}
	user, err := s.authRepo.GetSessionUser(ctx, token, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	if !user.Role.CanAdminister() {
		return nil, &domain.ErrSessionNotFound{Message: "session role not permitted"}
	}
	return user, nil
}

// Logout deletes the session row. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.authRepo.DeleteSession(ctx, token)
}
