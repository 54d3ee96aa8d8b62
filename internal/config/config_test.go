package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "STORE_DRIVER", "DB_DSN", "HTTP_ADDR", "JWT_SECRET", "TELEGRAM_TOKEN",
		"REDIS_ADDR", "REDIS_PASSWORD", "RATE_LIMIT_PER_MINUTE", "RABBITMQ_URL", "EVENTS_QUEUE", "OUTBOX_POLL_INTERVAL",
		"TRUSTED_PROXIES",
	} {
		t.Setenv(key, env[key])
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":     "postgres://localhost/rooms",
		"JWT_SECRET": "secret",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "slot_events", cfg.EventsQueue)
	assert.Equal(t, 5*time.Second, cfg.OutboxPollInterval)
	assert.False(t, cfg.RateLimitEnabled())
	assert.False(t, cfg.BotEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without dsn", env: map[string]string{"JWT_SECRET": "secret"}},
		{name: "missing jwt secret", env: map[string]string{"STORE_DRIVER": "memory"}},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "sqlite", "JWT_SECRET": "secret"}},
		{name: "bad rate limit", env: map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET": "s", "RATE_LIMIT_PER_MINUTE": "many"}},
		{name: "bad trusted proxy", env: map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET": "s", "TRUSTED_PROXIES": "10.0.0.0/8,proxy"}},
		{name: "bad interval", env: map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET": "s", "OUTBOX_POLL_INTERVAL": "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnvMemoryWithOptionals(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_DRIVER":          "memory",
		"JWT_SECRET":            "secret",
		"REDIS_ADDR":            "localhost:6379",
		"RATE_LIMIT_PER_MINUTE": "30",
		"TELEGRAM_TOKEN":        "123:abc",
		"OUTBOX_POLL_INTERVAL":  "250ms",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.RateLimitEnabled())
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
}

func TestFromEnvTrustedProxies(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_DRIVER":    "memory",
		"JWT_SECRET":      "secret",
		"TRUSTED_PROXIES": "10.1.2.3/8, 192.168.0.10 ,,::1",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.0.10/32"),
		netip.MustParsePrefix("::1/128"),
	}, cfg.TrustedProxies)
}
