package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DB_DSN", "postgres://localhost/queue")
	for _, key := range []string{"ENV", "QS_API_URL", "QS_HTTP_TIMEOUT", "QS_LEGACY_COOKIE_AUTH", "WATCH_INTERVAL", "MIGRATIONS_PATH"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://qs-dev.idi.ntnu.no/api", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.WatchInterval)
	assert.False(t, cfg.LegacyCookieAuth)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.True(t, cfg.WatchEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("QS_API_URL", "http://localhost:8080/api")
	t.Setenv("QS_HTTP_TIMEOUT", "3s")
	t.Setenv("QS_LEGACY_COOKIE_AUTH", "true")
	t.Setenv("WATCH_INTERVAL", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.LegacyCookieAuth)
	assert.False(t, cfg.WatchEnabled())
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing token", "TELEGRAM_TOKEN", ""},
		{"missing dsn", "DB_DSN", ""},
		{"bad timeout", "QS_HTTP_TIMEOUT", "soon"},
		{"zero timeout", "QS_HTTP_TIMEOUT", "0s"},
		{"bad bool", "QS_LEGACY_COOKIE_AUTH", "maybe"},
		{"negative interval", "WATCH_INTERVAL", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
