package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, DefaultSessionTTL, tm.TTL())

	token, exp, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	valid, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GenerateToken("user-1")
	require.NoError(t, err)

	otherKey, _, err := NewTokenManager("other", time.Hour).GenerateToken("user-1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	hs512Token, err := hs512.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"malformed":   "not-a-token",
		"expired":     expiredToken,
		"wrong key":   otherKey,
		"alg none":    noneToken,
		"wrong alg":   hs512Token,
		"tampered":    valid + "x",
		"empty token": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.ParseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, ComparePassword(hash, "secret1"))
	assert.Error(t, ComparePassword(hash, "wrong"))

	fallback, err := HashPassword("secret1", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(fallback))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	BurnComparison("anything", bcrypt.MinCost)
}

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(-time.Hour)))

	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked, "already expired tokens need no revocation entry")
}

func newGateApp(t *testing.T) (*fiber.App, *TokenManager, RevocationStore, *domain.User) {
	t.Helper()
	store := repository.NewMemoryStore()
	user := &domain.User{Email: "a@b.com", FullName: "Ann", Role: domain.RoleAgent}
	require.NoError(t, store.Users().Create(context.Background(), user))

	tokens := NewTokenManager("secret", time.Hour)
	revocations := NewMemoryRevocationStore()
	gate := NewAuthMiddleware(tokens, store.Users(), revocations, "jwt")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", gate.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(principal.UserID + "|" + principal.FullName)
	})
	return app, tokens, revocations, user
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens, revocations, user := newGateApp(t)

	valid, _, err := tokens.GenerateToken(user.ID)
	require.NoError(t, err)
	ghost, _, err := tokens.GenerateToken("no-such-user")
	require.NoError(t, err)
	revokedToken, revokedExp, err := tokens.GenerateToken(user.ID)
	require.NoError(t, err)
	claims, err := tokens.ParseToken(revokedToken)
	require.NoError(t, err)
	require.NoError(t, revocations.Revoke(context.Background(), claims.ID, revokedExp))

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "cookie", cookie: valid, wantStatus: http.StatusOK, wantBody: user.ID + "|Ann"},
		{name: "bearer fallback", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: user.ID + "|Ann"},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantBody: apperrors.CodeUnauthorized},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized, wantBody: apperrors.CodeUnauthorized},
		{name: "garbage cookie", cookie: "abc.def.ghi", wantStatus: http.StatusUnauthorized, wantBody: apperrors.CodeUnauthorized},
		{name: "unknown user", cookie: ghost, wantStatus: http.StatusUnauthorized, wantBody: apperrors.CodeUnauthorized},
		{name: "revoked", cookie: revokedToken, wantStatus: http.StatusUnauthorized, wantBody: apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	app := fiber.New()
	cookie := SessionCookie{Name: "jwt", TTL: DefaultSessionTTL, Secure: true}
	app.Get("/set", func(c *fiber.Ctx) error {
		cookie.Set(c, "tok")
		return nil
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		cookie.Clear(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 7*24*60*60, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/clear", nil))
	require.NoError(t, err)
	cleared := resp.Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}
