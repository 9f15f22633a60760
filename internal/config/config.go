// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode determines whether the binaries use in-memory stubs or the SST backend.
type Mode string

const (
	ModeStub       Mode = "stub"
	ModeProduction Mode = "production"
)

// Config holds all application configuration.
type Config struct {
	Mode        Mode
	FixturesDir string
	LogLevel    string
	OTelEnabled bool

	// SST backend.
	APIBaseURL    string
	APIToken      string
	SuggestionRPS float64

	// API server settings.
	APIPort      string
	CORSOrigins  []string
	OIDCIssuer   string
	OIDCAudience string

	// EMO justification builder.
	RedisAddr   string
	EMODebounce time.Duration
	EMOTimeout  time.Duration

	TaskQueues []string
}

// OIDCEnabled reports whether both issuer and audience are configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCAudience != ""
}

// LoadFromEnv reads configuration from environment variables with sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Mode:         Mode(envOr("PROFESIOGRAMA_MODE", "stub")),
		FixturesDir:  os.Getenv("FIXTURES_DIR"),
		LogLevel:     envOr("PROFESIOGRAMA_LOG_LEVEL", "info"),
		APIBaseURL:   os.Getenv("PROFESIOGRAMA_API_BASE_URL"),
		APIToken:     os.Getenv("PROFESIOGRAMA_API_TOKEN"),
		APIPort:      envOr("PROFESIOGRAMA_API_PORT", "8080"),
		CORSOrigins:  parseCORSOrigins(os.Getenv("PROFESIOGRAMA_CORS_ORIGINS")),
		OIDCIssuer:   os.Getenv("PROFESIOGRAMA_OIDC_ISSUER"),
		OIDCAudience: os.Getenv("PROFESIOGRAMA_OIDC_AUDIENCE"),
		RedisAddr:    os.Getenv("PROFESIOGRAMA_REDIS_ADDR"),
		TaskQueues:   parseList(envOr("PROFESIOGRAMA_TASK_QUEUES", "submit,persist")),
	}

	if cfg.Mode != ModeStub && cfg.Mode != ModeProduction {
		return Config{}, fmt.Errorf("config: invalid PROFESIOGRAMA_MODE %q (must be stub or production)", cfg.Mode)
	}

	var err error
	if cfg.OTelEnabled, err = parseBool("PROFESIOGRAMA_OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.SuggestionRPS, err = parseFloat("PROFESIOGRAMA_SUGGESTION_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.EMODebounce, err = parseDuration("PROFESIOGRAMA_EMO_DEBOUNCE", 400*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.EMOTimeout, err = parseDuration("PROFESIOGRAMA_EMO_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}

	if (cfg.OIDCIssuer == "") != (cfg.OIDCAudience == "") {
		return Config{}, fmt.Errorf("config: PROFESIOGRAMA_OIDC_ISSUER and PROFESIOGRAMA_OIDC_AUDIENCE must be set together")
	}

	if cfg.APIBaseURL != "" {
		u, err := url.Parse(cfg.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("config: invalid PROFESIOGRAMA_API_BASE_URL %q", cfg.APIBaseURL)
		}
	}
	if cfg.Mode == ModeProduction && cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("config: PROFESIOGRAMA_API_BASE_URL required in production mode")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("config: invalid %s %q (must be a non-negative number)", key, raw)
	}
	return v, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("config: invalid %s %q (must be a non-negative duration)", key, raw)
	}
	return v, nil
}

func parseList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseCORSOrigins(raw string) []string {
	origins := parseList(raw)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
