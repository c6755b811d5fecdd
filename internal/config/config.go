package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultUpstreamBaseURL = "https://api-ugi2pflmha-ew.a.run.app"

type AppConfig struct {
	// APIKey is forwarded as a bearer credential to the City and Weather APIs.
	APIKey          string
	UpstreamBaseURL string

	HTTPTimeout time.Duration

	// Upstream backoff. MaxRetries of 0 disables retries.
	UpstreamMaxRetries      int
	UpstreamInitialInterval time.Duration
	UpstreamMaxInterval     time.Duration

	// Periodic upstream availability probe; empty ProbeCity disables it.
	ProbeCity     string
	ProbeInterval time.Duration

	// One-shot review submission after the listener is up; empty ReviewURL disables it.
	ReviewURL string
	PublicURL string

	Host     string
	Port     string
	LogLevel slog.Level
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.APIKey = os.Getenv("API_KEY")
	cfg.UpstreamBaseURL = strings.TrimRight(getenvDefault("UPSTREAM_BASE_URL", defaultUpstreamBaseURL), "/")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxRetries, err = getenvInt("UPSTREAM_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxRetries < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: must not be negative")
	}
	if cfg.UpstreamInitialInterval, err = getenvDuration("UPSTREAM_BACKOFF_INITIAL", "500ms"); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxInterval, err = getenvDuration("UPSTREAM_BACKOFF_MAX", "5s"); err != nil {
		return nil, err
	}

	cfg.ProbeCity = os.Getenv("PROBE_CITY")
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	// Render sets RENDER_EXTERNAL_URL; the service must then listen on all interfaces.
	renderURL := os.Getenv("RENDER_EXTERNAL_URL")
	if renderURL != "" {
		cfg.Host = "0.0.0.0"
	} else {
		cfg.Host = getenvDefault("HOST", "localhost")
	}
	cfg.Port = getenvDefault("PORT", "3000")

	cfg.ReviewURL = os.Getenv("REVIEW_URL")
	cfg.PublicURL = getenvDefault("PUBLIC_URL", renderURL)
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://" + cfg.Addr()
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
