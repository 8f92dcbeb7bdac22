// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies the current time to the memory cache.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MemoryCache keeps read-model payloads in process memory.
//
// With a positive MaxSize the number of entries never exceeds it: a write
// that finds the cache full first drops expired entries and then evicts the
// entry closest to expiry. Payloads with the shortest remaining lifetime are
// the cheapest to lose since they would be recomputed soonest anyway.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	bytes   int64

	defaultTTL time.Duration
	maxEntries int
	clock      Clock
	stopCh     chan struct{}
	closed     atomic.Bool

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval of the expired-entry sweep (0 = no sweep)
	Clock           Clock         // nil uses the wall clock
}

// NewMemoryCache creates a memory cache and starts its sweep, if any.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxEntries: max(opts.MaxSize, 0),
		clock:      opts.Clock,
		stopCh:     make(chan struct{}),
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}

	if opts.CleanupInterval > 0 {
		go c.sweepLoop(opts.CleanupInterval)
	}
	return c
}

// Get returns a copy of the payload stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	payload, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}
	c.hits.Add(1)
	return payload, nil
}

// Set stores a copy of payload. A zero ttl uses the default TTL.
func (c *MemoryCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	now := c.clock.Now()
	entry := memoryEntry{payload: bytes.Clone(payload), expiresAt: now.Add(ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.bytes -= int64(len(old.payload))
	} else if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.makeRoomLocked(now)
	}
	c.entries[key] = entry
	c.bytes += int64(len(entry.payload))
	c.sets.Add(1)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	c.removeLocked(key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
		}
	}
	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	clear(c.entries)
	c.bytes = 0
	c.mu.Unlock()
	return nil
}

// Has reports whether key holds an unexpired payload.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	_, ok := c.lookup(key)
	return ok, nil
}

// Close stops the sweep. Every later call fails with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns the counters and the current footprint.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	items, size := len(c.entries), c.bytes
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
		Items:     items,
		HitRate:   hitRate(hits, misses),
		Size:      size,
	}
}

// ResetStats zeroes the counters.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	c.evictions.Store(0)
}

// Keys returns the stored keys in order, expired ones included.
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// lookup returns a copy of an unexpired payload, dropping it when expired.
func (c *MemoryCache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.expired(entry, c.clock.Now()) {
		c.mu.Lock()
		// Only drop the entry we saw; a concurrent Set may have replaced it.
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return bytes.Clone(entry.payload), true
}

func (c *MemoryCache) expired(entry memoryEntry, now time.Time) bool {
	return !now.Before(entry.expiresAt)
}

func (c *MemoryCache) removeLocked(key string) {
	if entry, ok := c.entries[key]; ok {
		c.bytes -= int64(len(entry.payload))
		delete(c.entries, key)
	}
}

// makeRoomLocked frees at least one slot of a full cache.
func (c *MemoryCache) makeRoomLocked(now time.Time) {
	if c.removeExpiredLocked(now) > 0 {
		return
	}

	var (
		victim  string
		soonest time.Time
	)
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(soonest) {
			victim, soonest = key, entry.expiresAt
		}
	}
	if victim != "" {
		c.removeLocked(victim)
		c.evictions.Add(1)
	}
}

func (c *MemoryCache) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeExpiredLocked(c.clock.Now())
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
