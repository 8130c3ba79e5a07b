// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Defaults live in NewDefaultConfig as struct literals. cmd/server layers
// command-line flags and environment variables on top of them with kong, so
// the rest of the program only ever sees a typed *Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the top-level configuration container.
type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note — time.Duration:
// Go uses time.Duration (an int64 of nanoseconds) instead of raw integers for
// timeouts. "10 * time.Second" says what it means.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects where customers, drivers and reservations live. The
// Redis fields are ignored by the memory backend.
type StoreConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type ObservabilityConfig struct {
	LogLevel       string
	TracingEnabled bool
	OTLPEndpoint   string
}

// NewDefaultConfig returns a Config populated with defaults: an in-memory
// store on :8080 with tracing off.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
			KeyPrefix: "ridereservation",
		},
		Observability: ObservabilityConfig{
			LogLevel:     "info",
			OTLPEndpoint: "localhost:4318",
		},
	}
}

// Validate checks the fields that cannot be given a sensible fallback.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: redis backend needs an address", ErrInvalidConfig)
		}
		if c.Store.KeyPrefix == "" {
			return fmt.Errorf("%w: redis backend needs a key prefix", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}

	if _, err := ParseLogLevel(c.Observability.LogLevel); err != nil {
		return err
	}
	if c.Observability.TracingEnabled && c.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing enabled without an OTLP endpoint", ErrInvalidConfig)
	}
	return nil
}

// ParseLogLevel accepts debug, info, warn and error, in any case.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
	return l, nil
}
