// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Projections caches JSON-encoded read models.
//
// Values are stored as the exact bytes served to clients, so a hit within the
// TTL returns a byte-identical payload without touching the store. There is
// no single-flight: concurrent misses on the same key each recompute.
type Projections struct {
	cache  Cacher
	logger *slog.Logger
}

// NewProjections wraps a cache backend.
func NewProjections(c Cacher, logger *slog.Logger) *Projections {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projections{cache: c, logger: logger}
}

// uncached marks a computed value that must not be stored.
type uncached struct{ value any }

// Uncached wraps a value returned from a GetOrCompute function so that it is
// encoded and served but not stored. Use it for results keyed by a value the
// caller does not control, such as an empty listing for an unknown filter.
func Uncached(value any) any {
	return uncached{value: value}
}

// GetOrCompute returns the cached payload for key, or calls fn, encodes its
// result as JSON, stores it with ttl and returns it.
//
// Backend failures are logged and treated as a miss; only errors from fn or
// from encoding are returned.
func (p *Projections) GetOrCompute(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) (any, error)) ([]byte, error) {
	data, err := p.cache.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		p.logger.Warn("cache read failed", "key", key, "error", err)
	}

	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	skip, ok := value.(uncached)
	if ok {
		value = skip.value
	}

	data, err = json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", key, err)
	}
	if ok {
		return data, nil
	}

	if err := p.cache.Set(ctx, key, data, ttl); err != nil {
		p.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return data, nil
}

// Invalidate deletes every key under the given prefixes.
func (p *Projections) Invalidate(ctx context.Context, prefixes ...string) error {
	var errs []error
	for _, prefix := range prefixes {
		if err := p.cache.DeleteByPrefix(ctx, prefix); err != nil {
			errs = append(errs, fmt.Errorf("invalidating %s: %w", prefix, err))
		}
	}
	return errors.Join(errs...)
}
