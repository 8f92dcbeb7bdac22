// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/navcms/internal/cache"
)

// knownWeakKeys contains example admin keys that must be rejected.
var knownWeakKeys = []string{
	"change-me-to-a-32-byte-admin-key",
	"REPLACE_WITH_YOUR_OWN_ADMIN_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"NAVCMS_DB_PATH" envDefault:"./data/navcms.db"`
	ServerHost string `env:"NAVCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"NAVCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"NAVCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"NAVCMS_LOG_LEVEL" envDefault:"info"`

	// Media configuration
	UploadsDir   string `env:"NAVCMS_UPLOADS_DIR" envDefault:"./uploads"`
	MediaBaseURL string `env:"NAVCMS_MEDIA_BASE_URL" envDefault:"/uploads"` // Prefix of file_url in media payloads

	// Cache configuration
	RedisURL     string `env:"NAVCMS_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"NAVCMS_CACHE_PREFIX" envDefault:"navcms:"`  // Redis key prefix
	CacheMaxSize int    `env:"NAVCMS_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries
	NavTTL       int    `env:"NAVCMS_CACHE_NAV_TTL" envDefault:"300"`     // Seconds
	SettingsTTL  int    `env:"NAVCMS_CACHE_SETTINGS_TTL" envDefault:"600"`
	MediaTTL     int    `env:"NAVCMS_CACHE_MEDIA_TTL" envDefault:"3600"`
	ConfigTTL    int    `env:"NAVCMS_CACHE_CONFIG_TTL" envDefault:"300"`

	// API configuration
	AdminAPIKey string   `env:"NAVCMS_ADMIN_API_KEY"`                                // Empty disables the admin endpoints
	CORSOrigins []string `env:"NAVCMS_CORS_ORIGINS" envSeparator:"," envDefault:"*"` // Allowed origins for the frontend
	RateLimit   float64  `env:"NAVCMS_RATE_LIMIT" envDefault:"10"`                   // Requests per second per IP (0 = off)
	RateBurst   int      `env:"NAVCMS_RATE_BURST" envDefault:"30"`

	// Seeding configuration
	DoSeed bool `env:"NAVCMS_DO_SEED" envDefault:"false"` // Enable database seeding
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

// AdminEnabled returns true if an admin API key is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminAPIKey != ""
}

// CacheTTLs returns the per-family cache expiry times.
func (c Config) CacheTTLs() cache.TTLs {
	return cache.TTLs{
		Navigation: time.Duration(c.NavTTL) * time.Second,
		Settings:   time.Duration(c.SettingsTTL) * time.Second,
		Media:      time.Duration(c.MediaTTL) * time.Second,
		Config:     time.Duration(c.ConfigTTL) * time.Second,
	}
}

// CacheConfig returns the backend configuration for cache.NewCache.
func (c Config) CacheConfig() cache.Config {
	cc := cache.DefaultConfig()
	cc.RedisURL = c.RedisURL
	cc.Prefix = c.CachePrefix
	cc.MaxSize = c.CacheMaxSize
	cc.DefaultTTL = time.Duration(c.NavTTL) * time.Second
	return cc
}

// MinAdminKeyLength is the minimum required length for the admin API key.
const MinAdminKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for name, ttl := range map[string]int{
		"NAVCMS_CACHE_NAV_TTL":      cfg.NavTTL,
		"NAVCMS_CACHE_SETTINGS_TTL": cfg.SettingsTTL,
		"NAVCMS_CACHE_MEDIA_TTL":    cfg.MediaTTL,
		"NAVCMS_CACHE_CONFIG_TTL":   cfg.ConfigTTL,
	} {
		if ttl <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %d", name, ttl)
		}
	}

	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("NAVCMS_RATE_LIMIT must not be negative, got %g", cfg.RateLimit)
	}

	if !cfg.AdminEnabled() {
		return cfg, nil
	}

	// Validate admin key length
	if len(cfg.AdminAPIKey) < MinAdminKeyLength {
		return nil, fmt.Errorf("NAVCMS_ADMIN_API_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure key with: openssl rand -base64 32",
			MinAdminKeyLength, len(cfg.AdminAPIKey))
	}

	// Reject known weak/default keys
	for _, weak := range knownWeakKeys {
		if cfg.AdminAPIKey == weak {
			return nil, fmt.Errorf("NAVCMS_ADMIN_API_KEY is a known default value and must not be used; " +
				"generate a secure key with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy keys
	if !hasMinimumEntropy(cfg.AdminAPIKey) {
		slog.Warn("NAVCMS_ADMIN_API_KEY has low character diversity; " +
			"consider generating a random key with: openssl rand -base64 32")
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
