package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/config"
	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *repository.MemoryStore, auth.RevocationStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	revocations := auth.NewMemoryRevocationStore()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:       "test-secret",
		SessionTTLHours: 1,
		BcryptCost:      bcrypt.MinCost,
	}, AuthDependencies{UserRepo: store.Users(), Revocations: revocations})
	return svc, store, revocations
}

func TestRegister(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Email: " Ann@Bank.COM ", Password: "secret1", FullName: "Ann Teller",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ann@bank.com", session.User.Email)
	assert.Equal(t, domain.RoleAgent, session.User.Role)
	assert.Contains(t, session.User.ProfilePic, "avatar.iran.liara.run")
	assert.False(t, session.User.IsOnboarded)

	stored, err := store.Users().GetByEmail(ctx, "ann@bank.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "secret1"))

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "ann@bank.com", Password: "secret1", FullName: "Ann"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "ANN@bank.com", Password: "other12", FullName: "Ann Two"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	agents, err := store.Users().ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestRegisterValidation(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@b.com", Password: "secret1"},
		"short password": {Email: "a@b.com", Password: "12345", FullName: "A"},
		"bad email":      {Email: "not-an-email", Password: "secret1", FullName: "A"},
		"unknown role":   {Email: "a@b.com", Password: "secret1", FullName: "A", Role: "root"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, in)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}

	users, err := store.Users().ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "ann@bank.com", Password: "secret1", FullName: "Ann"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "Ann@Bank.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.User, session.User)
	assert.NotEmpty(t, session.Token)

	_, err = svc.Login(ctx, "", "secret1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = svc.Login(ctx, "ann@bank.com", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.False(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "ann@bank.com", Password: "secret1", FullName: "Ann"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "ann@bank.com", "wrong-password")
	_, unknownEmail := svc.Login(ctx, "nobody@bank.com", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	a, b := apperrors.ToDomainError(wrongPassword), apperrors.ToDomainError(unknownEmail)
	assert.Equal(t, apperrors.CodeInvalidCredentials, a.Code)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.HTTPStatus, b.HTTPStatus)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, revocations := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Email: "ann@bank.com", Password: "secret1", FullName: "Ann"})
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)

	svc.Logout(ctx, session.Token)
	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// garbage and empty tokens are ignored
	svc.Logout(ctx, "garbage")
	svc.Logout(ctx, "")
}

func TestCheckSession(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Email: "ann@bank.com", Password: "secret1", FullName: "Ann"})
	require.NoError(t, err)

	user, err := svc.CheckSession(ctx, &auth.Principal{UserID: session.User.ID})
	require.NoError(t, err)
	assert.Equal(t, session.User, user)

	_, err = svc.CheckSession(ctx, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.CheckSession(ctx, &auth.Principal{UserID: "missing"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
