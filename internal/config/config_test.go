package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kinsust/kin-api/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_LOGIN_SECRET", "login-secret")
	t.Setenv("JWT_VERIFY_SECRET", "verify-secret")
	t.Setenv("JWT_RESET_SECRET", "reset-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, ":5000", cfg.HTTPAddr)
		assert.Equal(t, ":9100", cfg.MetricsAddr)
		assert.Equal(t, 24*time.Hour, cfg.LoginTTL)
		assert.Equal(t, 10*time.Minute, cfg.VerifyTTL)
		assert.Equal(t, 5*time.Minute, cfg.ResetTTL)
		assert.Equal(t, 4, cfg.CodeLength)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, 100, cfg.RateLimitPerHour)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("HTTP_ADDR", ":8080")
		t.Setenv("JWT_RESET_TTL", "2m")
		t.Setenv("CORS_ORIGINS", "https://kinsust.org,https://admin.kinsust.org")
		t.Setenv("COOKIE_SECURE", "false")

		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Minute, cfg.ResetTTL)
		assert.Equal(t, []string{"https://kinsust.org", "https://admin.kinsust.org"}, cfg.CORSOrigins)
		assert.False(t, cfg.CookieSecure)
	})

	t.Run("missing secrets fail", func(t *testing.T) {
		t.Setenv("JWT_LOGIN_SECRET", "")
		t.Setenv("JWT_VERIFY_SECRET", "verify-secret")
		t.Setenv("JWT_RESET_SECRET", "reset-secret")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
