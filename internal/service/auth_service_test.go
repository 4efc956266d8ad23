package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func newAuthService(t *testing.T, ctrl *gomock.Controller) (*AuthService, *mocks.MockAuthRepository) {
	authRepo := mocks.NewMockAuthRepository(ctrl)
	return NewAuthService(authRepo, "admin-key", logger.NewTestLogger(t)), authRepo
}

func TestValidateAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newAuthService(t, ctrl)

	assert.True(t, s.ValidateAPIKey("admin-key"))
	assert.False(t, s.ValidateAPIKey("wrong-key"))
	assert.False(t, s.ValidateAPIKey(""))
}

func TestValidateAPIKeyUnconfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewAuthService(mocks.NewMockAuthRepository(ctrl), "", logger.NewTestLogger(t))

	// An unset key must not admit empty bearer tokens.
	assert.False(t, s.ValidateAPIKey(""))
	assert.False(t, s.ValidateAPIKey("anything"))
}

func TestLoginCreatesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, authRepo := newAuthService(t, ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	authRepo.EXPECT().GetUserByEmail(gomock.Any(), "admin@postwind.test").
		Return(&domain.AdminUser{ID: "user-1", Email: "admin@postwind.test", PasswordHash: string(hash), Role: domain.AdminRoleOwner}, nil)
	authRepo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, session *domain.AdminSession) error {
			assert.Equal(t, "user-1", session.UserID)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, session.CreatedAt+domain.SessionTTLSeconds, session.ExpiresAt)
			return nil
		})

	session, err := s.Login(context.Background(), "admin@postwind.test", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, authRepo := newAuthService(t, ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	authRepo.EXPECT().GetUserByEmail(gomock.Any(), "admin@postwind.test").
		Return(&domain.AdminUser{ID: "user-1", PasswordHash: string(hash)}, nil)

	_, err = s.Login(context.Background(), "admin@postwind.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, authRepo := newAuthService(t, ctrl)

	authRepo.EXPECT().GetUserByEmail(gomock.Any(), "nobody@postwind.test").
		Return(nil, &domain.ErrSessionNotFound{Message: "user not found"})

	_, err := s.Login(context.Background(), "nobody@postwind.test", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, authRepo := newAuthService(t, ctrl)

	authRepo.EXPECT().GetSessionUser(gomock.Any(), "sess-token", gomock.Any()).
		Return(&domain.AdminUser{ID: "user-1", Role: domain.AdminRoleAdmin}, nil)

	user, err := s.ValidateSession(context.Background(), "sess-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestValidateSessionEmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newAuthService(t, ctrl)

	_, err := s.ValidateSession(context.Background(), "")
	var notFound *domain.ErrSessionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, authRepo := newAuthService(t, ctrl)

	authRepo.EXPECT().DeleteSession(gomock.Any(), "sess-token").Return(nil)
	require.NoError(t, s.Logout(context.Background(), "sess-token"))

	// Empty token short-circuits without a repository call.
	require.NoError(t, s.Logout(context.Background(), ""))
}
