// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// DevAPIBaseURL is the association API base URL assumed during development
// when BITSA_API_BASE_URL is not set. Production deployments must set the
// variable explicitly.
const DevAPIBaseURL = "http://localhost:8000/api"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"BITSA_API_BASE_URL"`
	APITimeout    int    `env:"BITSA_API_TIMEOUT" envDefault:"10"` // Outbound request timeout in seconds
	SessionSecret string `env:"BITSA_SESSION_SECRET,required"`
	SessionDBPath string `env:"BITSA_SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	ServerHost    string `env:"BITSA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BITSA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BITSA_ENV" envDefault:"development"`
	LogLevel      string `env:"BITSA_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"BITSA_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix  string `env:"BITSA_CACHE_PREFIX" envDefault:"bitsa:"` // Redis key prefix
	CacheTTL     int    `env:"BITSA_CACHE_TTL" envDefault:"60"`        // API response cache TTL in seconds
	CacheMaxSize int    `env:"BITSA_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries
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

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The API host is the one thing this site cannot guess in production.
	if cfg.APIBaseURL == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("BITSA_API_BASE_URL must be set when BITSA_ENV=%s", cfg.Env)
		}
		cfg.APIBaseURL = DevAPIBaseURL
		slog.Warn("BITSA_API_BASE_URL not set, using development default", "url", DevAPIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BITSA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("BITSA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("BITSA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
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
