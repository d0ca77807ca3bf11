// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/budgetgate/budgetgate/internal/model"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Public base URL, used to build the OAuth redirect URI.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Database (PostgreSQL), used by the connectivity probe.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis), holds one-time OAuth state values.
	RedisURL string `env:"REDIS_URL,required"`

	// Upstream budgeting API
	YNABAPIToken    string        `env:"YNAB_API_TOKEN"`
	YNABBaseURL     string        `env:"YNAB_BASE_URL" envDefault:"https://api.ynab.com/v1"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// Single-identity allow-list
	AllowedEmail string `env:"ALLOWED_EMAIL"`

	// Identity provider (Google)
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Secret used to derive the session signing key.
	AuthSecret string `env:"AUTH_SECRET"`

	// Access control for API routes
	APIRequireSession bool `env:"API_REQUIRE_SESSION" envDefault:"false"`
	ProbePublic       bool `env:"PROBE_PUBLIC" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GoogleConfigured reports whether both Google OAuth client credentials are set.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Credential returns the process-wide secrets consumed by the gate and the
// budget service. The returned value is a copy and is never mutated.
func (c *Config) Credential() model.Credential {
	return model.Credential{
		APIToken:     c.YNABAPIToken,
		AllowedEmail: c.AllowedEmail,
	}
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	if c.AuthSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("AUTH_SECRET is required when APP_ENV=%s", c.AppEnv)
	}
	if c.AuthSecret != "" && len(c.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}
	if !strings.HasPrefix(c.YNABBaseURL, "https://") && c.IsProduction() {
		return fmt.Errorf("YNAB_BASE_URL must use https in production")
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
