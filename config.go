package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/EmanueleCodes/boxes-game/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port                string
	JwtSecret           string
	AllowedOrigins      []string
	RateLimitPerMinute  int
	InactivityTimeout   time.Duration
	LazyEvictionTimeout time.Duration
	CleanupInterval     time.Duration
	TickInterval        time.Duration
	RoundCount          int
	AnsweringDuration   time.Duration
	ResultsDuration     time.Duration
	LogLevel            zerolog.Level
	LogFormat           string
}

func MustLoadConfig() *Config {
	godotenv.Load()
	config, err := LoadConfig(os.Getenv)
	if err != nil {
		panic(err)
	}
	return config
}

// LoadConfig reads the configuration through getenv, falling back to
// defaults for unset variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}
	config := &Config{
		Port:                env.getString("PORT", "3000"),
		JwtSecret:           getenv("JWT_SECRET"),
		AllowedOrigins:      env.getList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute:  env.getInt("RATE_LIMIT_PER_MINUTE", 60),
		InactivityTimeout:   env.getDuration("ROOM_INACTIVITY_TIMEOUT", room.DefaultInactivityTimeout),
		LazyEvictionTimeout: env.getDuration("ROOM_LAZY_EVICTION_TIMEOUT", room.DefaultLazyEvictionTimeout),
		CleanupInterval:     env.getDuration("CLEANUP_INTERVAL", time.Minute),
		TickInterval:        env.getDuration("TICK_INTERVAL", 100*time.Millisecond),
		RoundCount:          env.getInt("ROUND_COUNT", room.DefaultTiming().RoundCount),
		AnsweringDuration:   env.getDuration("ANSWERING_DURATION", room.DefaultTiming().AnsweringDuration),
		ResultsDuration:     env.getDuration("RESULTS_DURATION", room.DefaultTiming().ResultsDuration),
		LogFormat:           env.getString("LOG_FORMAT", "console"),
	}
	level, err := zerolog.ParseLevel(env.getString("LOG_LEVEL", "info"))
	if err != nil {
		env.fail("LOG_LEVEL", err)
	}
	config.LogLevel = level

	if env.err != nil {
		return nil, env.err
	}
	if config.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not provided!")
	}
	if config.LogFormat != "console" && config.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", config.LogFormat)
	}
	for name, value := range map[string]int{"RATE_LIMIT_PER_MINUTE": config.RateLimitPerMinute, "ROUND_COUNT": config.RoundCount} {
		if value <= 0 {
			return nil, fmt.Errorf("%v must be positive, got %v", name, value)
		}
	}
	for name, value := range map[string]time.Duration{
		"ROOM_INACTIVITY_TIMEOUT": config.InactivityTimeout,
		"CLEANUP_INTERVAL":        config.CleanupInterval,
		"TICK_INTERVAL":           config.TickInterval,
	} {
		if value <= 0 {
			return nil, fmt.Errorf("%v must be positive, got %v", name, value)
		}
	}
	return config, nil
}

func (c *Config) StoreOptions() []room.Option {
	return []room.Option{
		room.WithInactivityTimeout(c.InactivityTimeout),
		room.WithLazyEvictionTimeout(c.LazyEvictionTimeout),
	}
}

func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Timing: room.Timing{
			RoundCount:        c.RoundCount,
			AnsweringDuration: c.AnsweringDuration,
			ResultsDuration:   c.ResultsDuration,
		},
		TickInterval:    c.TickInterval,
		CleanupInterval: c.CleanupInterval,
	}
}

// envReader keeps the first parse error so LoadConfig can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) fail(name string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %v: %w", name, err)
	}
}

func (e *envReader) getString(name, fallback string) string {
	if value := strings.TrimSpace(e.getenv(name)); value != "" {
		return value
	}
	return fallback
}

func (e *envReader) getList(name string, fallback []string) []string {
	var values []string
	for _, value := range strings.Split(e.getenv(name), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func (e *envReader) getInt(name string, fallback int) int {
	value := e.getString(name, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.fail(name, err)
		return fallback
	}
	return parsed
}

func (e *envReader) getDuration(name string, fallback time.Duration) time.Duration {
	value := e.getString(name, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.fail(name, err)
		return fallback
	}
	return parsed
}
