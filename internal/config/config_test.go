package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("AUTH_SESSION_TTL_HOURS", "")
	t.Setenv("AUTH_COOKIE_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "5001", cfg.App.Port)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL())
	assert.True(t, cfg.App.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("JWT_SECRET_KEY", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.App.Addr())
	assert.Equal(t, 10, cfg.Auth.BcryptCost, "invalid ints fall back to defaults")
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.True(t, cfg.App.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequiresSecretOutsideDevelopment(t *testing.T) {
	cases := []struct {
		env     string
		secret  string
		wantErr bool
	}{
		{"production", "dev-secret", true},
		{"Production ", "dev-secret", true},
		{"staging", "dev-secret", true},
		{"prod", "", true},
		{"", "dev-secret", true},
		{"staging", "rotated", false},
		{"production", "rotated", false},
		{"development", "dev-secret", false},
		{" Development", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.env+"/"+tc.secret, func(t *testing.T) {
			cfg := &Config{
				App:  AppConfig{Env: tc.env},
				Auth: AuthConfig{JWTSecret: tc.secret, SessionTTLHours: 1},
			}
			if tc.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
