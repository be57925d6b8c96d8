package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(values map[string]string) func(string) string {
	return func(name string) string { return values[name] }
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(mapEnv(map[string]string{"JWT_SECRET": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "3000", config.Port)
	assert.Equal(t, "secret", config.JwtSecret)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.Equal(t, 60, config.RateLimitPerMinute)
	assert.Equal(t, 5*time.Minute, config.InactivityTimeout)
	assert.Equal(t, 30*time.Minute, config.LazyEvictionTimeout)
	assert.Equal(t, time.Minute, config.CleanupInterval)
	assert.Equal(t, 100*time.Millisecond, config.TickInterval)
	assert.Equal(t, 10, config.RoundCount)
	assert.Equal(t, 10*time.Second, config.AnsweringDuration)
	assert.Equal(t, 5*time.Second, config.ResultsDuration)
	assert.Equal(t, zerolog.InfoLevel, config.LogLevel)
	assert.Equal(t, "console", config.LogFormat)
}

func TestLoadConfigOverrides(t *testing.T) {
	config, err := LoadConfig(mapEnv(map[string]string{
		"JWT_SECRET":              "secret",
		"PORT":                    "8080",
		"ALLOWED_ORIGINS":         "https://a.example, https://b.example,",
		"ROOM_INACTIVITY_TIMEOUT": "90s",
		"ROUND_COUNT":             "3",
		"LOG_LEVEL":               "debug",
		"LOG_FORMAT":              "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.AllowedOrigins)
	assert.Equal(t, 90*time.Second, config.InactivityTimeout)
	assert.Equal(t, 3, config.RoundCount)
	assert.Equal(t, zerolog.DebugLevel, config.LogLevel)
	assert.Equal(t, "json", config.LogFormat)

	sessionConfig := config.SessionConfig()
	assert.Equal(t, 3, sessionConfig.Timing.RoundCount)
	assert.Equal(t, 100*time.Millisecond, sessionConfig.TickInterval)
	assert.Len(t, config.StoreOptions(), 2)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":   {},
		"bad duration":     {"JWT_SECRET": "s", "TICK_INTERVAL": "fast"},
		"bad int":          {"JWT_SECRET": "s", "ROUND_COUNT": "ten"},
		"zero rounds":      {"JWT_SECRET": "s", "ROUND_COUNT": "0"},
		"negative cleanup": {"JWT_SECRET": "s", "CLEANUP_INTERVAL": "-1m"},
		"bad level":        {"JWT_SECRET": "s", "LOG_LEVEL": "loud"},
		"bad format":       {"JWT_SECRET": "s", "LOG_FORMAT": "xml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(mapEnv(env))
			assert.Error(t, err)
		})
	}
}

func TestMustLoadConfigPanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { MustLoadConfig() })
}
