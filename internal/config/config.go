package config

import (
	"fmt"
	"go.uber.org/zap/zapcore"
	"os"
	"time"
)

const (
	ServiceName    = "storefront"
	ServiceVersion = "0.1.0"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	LogLevel        zapcore.Level
	ShutdownTimeout time.Duration
	Migrate         bool

	// tracing is disabled when OtelEndpoint is empty
	OtelEndpoint   string
	OtelAuthHeader string
	OtelInsecure   bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getenv("DATABASE_URL"),
		HTTPAddr:        valueOr(getenv("HTTP_ADDR"), defaultHTTPAddr),
		ShutdownTimeout: defaultShutdownTimeout,
		Migrate:         getenv("DB_MIGRATE") == "true",
		OtelEndpoint:    getenv("OTEL_ENDPOINT"),
		OtelAuthHeader:  getenv("OTEL_AUTH_HEADER"),
		OtelInsecure:    getenv("OTEL_INSECURE") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	level, err := zapcore.ParseLevel(valueOr(getenv("LOG_LEVEL"), defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if raw := getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive: %s", raw)
		}
		cfg.ShutdownTimeout = timeout
	}

	if cfg.OtelEndpoint == "" && cfg.OtelAuthHeader != "" {
		return nil, fmt.Errorf("OTEL_AUTH_HEADER is set but OTEL_ENDPOINT is empty")
	}

	return cfg, nil
}

// TracingEnabled reports whether spans are exported.
func (c *Config) TracingEnabled() bool {
	return c.OtelEndpoint != ""
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
