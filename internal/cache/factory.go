// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"strings"
	"time"
)

// Backend names reported by NewCache.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	CleanupInterval time.Duration
}

// DefaultConfig returns the default in-memory cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          DefaultRedisPrefix,
		DefaultTTL:      5 * time.Minute,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// NewCache creates a cache backend and returns it with its backend name.
// A Redis URL that cannot be reached falls back to the memory backend.
func NewCache(cfg Config, logger *slog.Logger) (Cacher, string) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("cache backend ready", "backend", BackendRedis, "prefix", rc.namespace)
			return rc, BackendRedis
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"url", maskRedisURL(cfg.RedisURL), "error", err)
	}

	mc := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
	logger.Info("cache backend ready", "backend", BackendMemory)
	return mc, BackendMemory
}

// maskRedisURL hides credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	scheme := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if scheme < 0 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
