package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone8ez/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/phone8ez?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "phone8ez", cfg.Exchange.FilePrefix)
	assert.Equal(t, "local", cfg.Exchange.DefaultMode)
	assert.Equal(t, 0, cfg.History.Limit)
	assert.Equal(t, 2*time.Hour, cfg.Workspace.IdleTTL)
	assert.Equal(t, "X-User-Email", cfg.Auth.EmailHeader)
	assert.False(t, cfg.Billing.RequireSubscription)

	loc, err := cfg.Exchange.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/phone8ez")
	t.Setenv("PORT", "9000")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("WORKSPACE_IDLE_TTL", "30m")
	t.Setenv("REQUIRE_SUBSCRIPTION", "true")
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com, ,ops@example.com ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, 30*time.Minute, cfg.Workspace.IdleTTL)
	assert.True(t, cfg.Billing.RequireSubscription)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.Auth.AdminEmails)
	assert.True(t, cfg.Auth.IsAdminEmail("ADMIN@example.com"))
	assert.False(t, cfg.Auth.IsAdminEmail("user@example.com"))
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database", "DATABASE_URL", ""},
		{"bad storage mode", "STORAGE_MODE", "s3"},
		{"bad gin mode", "GIN_MODE", "verbose"},
		{"prefix with slash", "EXPORT_FILE_PREFIX", "a/b"},
		{"unknown timezone", "EXPORT_TIMEZONE", "Mars/Olympus"},
		{"bad admin email", "ADMIN_EMAILS", "not-an-email"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://db/phone8ez")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
