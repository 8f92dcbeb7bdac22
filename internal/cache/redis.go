// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every read-model key stored in Redis.
const DefaultRedisPrefix = "navcms:"

const (
	defaultRedisTTL = 5 * time.Minute
	scanBatch       = 100
	statsTimeout    = 2 * time.Second
)

// redisClient is the part of the go-redis client the read-model cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Unlink(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache shares read-model payloads between every instance of the
// service. All keys live under one namespace so Clear never touches data
// owned by other applications on the same server.
type RedisCache struct {
	client     redisClient
	namespace  string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	URL    string // redis://[user:pass@]host:port/db
	Prefix string // Key namespace, DefaultRedisPrefix when empty

	// DefaultTTL applies to writes without their own TTL. Redis entries
	// always expire, so a non-positive value falls back to five minutes.
	DefaultTTL time.Duration

	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns the options used by NewRedisCacheFromURL.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         DefaultRedisPrefix,
		DefaultTTL:     defaultRedisTTL,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisCache connects to Redis and checks the connection with PING.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	c := newRedisCache(redis.NewClient(redisOpts), opts.Prefix, opts.DefaultTTL)

	ctx, cancel := context.WithTimeout(context.Background(), orDefault(opts.ConnectTimeout, 5*time.Second))
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return c, nil
}

// NewRedisCacheFromURL connects with the default options, overriding the
// namespace and TTL when given.
func NewRedisCacheFromURL(url, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = prefix
	opts.DefaultTTL = defaultTTL
	return NewRedisCache(opts)
}

func newRedisCache(client redisClient, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		namespace:  orDefault(prefix, DefaultRedisPrefix),
		defaultTTL: orDefault(defaultTTL, defaultRedisTTL),
	}
}

// orDefault returns v unless it is the zero or negative value, then fallback.
func orDefault[T ~string | ~int64](v, fallback T) T {
	var zero T
	if v <= zero {
		return fallback
	}
	return v
}

func (c *RedisCache) key(key string) string {
	return c.namespace + key
}

// Get returns the payload stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.hits.Add(1)
	return payload, nil
}

// Set stores payload under key. A non-positive ttl uses the default TTL.
func (c *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if err := c.client.Set(ctx, c.key(key), payload, orDefault(ttl, c.defaultTTL)).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Unlink(ctx, c.key(key)).Err()
}

// DeleteByPrefix removes every key of the namespace starting with prefix.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.unlinkMatching(ctx, matchPattern(c.namespace+prefix))
}

// Clear removes every key of the namespace.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.unlinkMatching(ctx, matchPattern(c.namespace))
}

// unlinkMatching walks the keyspace with SCAN and frees matches with UNLINK,
// so neither side blocks the server on a large namespace.
func (c *RedisCache) unlinkMatching(ctx context.Context, pattern string) error {
	return c.scan(ctx, pattern, func(keys []string) error {
		return c.client.Unlink(ctx, keys...).Err()
	})
}

func (c *RedisCache) scan(ctx context.Context, pattern string, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// matchPattern turns a literal key prefix into a SCAN MATCH pattern.
func matchPattern(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Stats returns this process's counters and the namespace's key count.
// The count is left at zero when the keyspace cannot be walked in time.
func (c *RedisCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		HitRate: hitRate(hits, misses),
	}
	if c.closed.Load() {
		return stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	items := 0
	err := c.scan(ctx, matchPattern(c.namespace), func(keys []string) error {
		items += len(keys)
		return nil
	})
	if err == nil {
		stats.Items = items
	}
	return stats
}

// ResetStats zeroes the counters.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
	_ redisClient   = (*redis.Client)(nil)
)
