// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/model"
)

// Identity backends.
const (
	IdentityGoTrue = "gotrue"
	IdentityLocal  = "local"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"TALENTHUB_DB_PATH" envDefault:"./data/talenthub.db"`
	SessionSecret string `env:"TALENTHUB_SESSION_SECRET,required"`
	ServerHost    string `env:"TALENTHUB_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TALENTHUB_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TALENTHUB_ENV" envDefault:"development"`
	LogLevel      string `env:"TALENTHUB_LOG_LEVEL" envDefault:"info"`

	RequestTimeout time.Duration `env:"TALENTHUB_REQUEST_TIMEOUT" envDefault:"30s"`

	// Identity provider
	IdentityBackend string        `env:"TALENTHUB_IDENTITY_BACKEND" envDefault:"gotrue"` // gotrue or local
	IdentityURL     string        `env:"TALENTHUB_IDENTITY_URL"`
	IdentityKey     string        `env:"TALENTHUB_IDENTITY_KEY"`
	TokenTTL        time.Duration `env:"TALENTHUB_TOKEN_TTL" envDefault:"12h"` // local backend only

	// MissingRoleFallback is applied to sessions without a valid role.
	// Empty denies them.
	MissingRoleFallback string `env:"TALENTHUB_MISSING_ROLE_FALLBACK"`

	// Bootstrap account for the local backend
	AdminEmail     string `env:"TALENTHUB_ADMIN_EMAIL"`
	AdminPassword  string `env:"TALENTHUB_ADMIN_PASSWORD"`
	AdminFirstName string `env:"TALENTHUB_ADMIN_FIRST_NAME" envDefault:"Admin"`
	AdminLastName  string `env:"TALENTHUB_ADMIN_LAST_NAME" envDefault:"User"`

	// Cache configuration
	RedisURL        string        `env:"TALENTHUB_REDIS_URL"`
	CachePrefix     string        `env:"TALENTHUB_CACHE_PREFIX" envDefault:"talenthub:"`
	SessionCacheTTL time.Duration `env:"TALENTHUB_SESSION_CACHE_TTL" envDefault:"30s"`
	CacheMaxSize    int           `env:"TALENTHUB_CACHE_MAX_SIZE" envDefault:"10000"`

	// Audit log retention, in days. 0 keeps events forever.
	EventRetentionDays int `env:"TALENTHUB_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Background job schedules in standard cron syntax.
	RetentionSchedule  string `env:"TALENTHUB_RETENTION_SCHEDULE" envDefault:"0 3 * * *"`
	TokenPurgeSchedule string `env:"TALENTHUB_TOKEN_PURGE_SCHEDULE" envDefault:"*/15 * * * *"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseLocalIdentity reports whether accounts live in the local database.
func (c Config) UseLocalIdentity() bool {
	return c.IdentityBackend == IdentityLocal
}

// IdentityConfigured reports whether a real identity provider is set up.
// When false the dashboard runs in demo mode.
func (c Config) IdentityConfigured() bool {
	if c.UseLocalIdentity() {
		return true
	}
	return !identity.IsPlaceholder(c.IdentityURL, c.IdentityKey)
}

// FallbackRole returns the role given to sessions without one.
func (c Config) FallbackRole() model.Role {
	return model.Role(c.MissingRoleFallback)
}

// EventRetention returns the audit log retention period, 0 for unlimited.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("TALENTHUB_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("TALENTHUB_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("TALENTHUB_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.Env {
	case "development", "production":
	default:
		return nil, fmt.Errorf("TALENTHUB_ENV must be development or production, got %q", cfg.Env)
	}

	switch cfg.IdentityBackend {
	case IdentityGoTrue, IdentityLocal:
	default:
		return nil, fmt.Errorf("TALENTHUB_IDENTITY_BACKEND must be %s or %s, got %q",
			IdentityGoTrue, IdentityLocal, cfg.IdentityBackend)
	}

	if cfg.MissingRoleFallback != "" {
		if _, err := model.ParseRole(cfg.MissingRoleFallback); err != nil {
			return nil, fmt.Errorf("TALENTHUB_MISSING_ROLE_FALLBACK: %w", err)
		}
	}

	if cfg.EventRetentionDays < 0 {
		return nil, fmt.Errorf("TALENTHUB_EVENT_RETENTION_DAYS must not be negative")
	}

	for name, spec := range map[string]string{
		"TALENTHUB_RETENTION_SCHEDULE":   cfg.RetentionSchedule,
		"TALENTHUB_TOKEN_PURGE_SCHEDULE": cfg.TokenPurgeSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("%s: invalid cron expression %q: %w", name, spec, err)
		}
	}

	if !cfg.IdentityConfigured() {
		slog.Warn("identity provider not configured, running in demo mode",
			"hint", "set TALENTHUB_IDENTITY_URL and TALENTHUB_IDENTITY_KEY")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
