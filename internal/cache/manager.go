// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Config timestamp marker values.
const (
	TimestampInitial = "initial"
	TimestampUpdated = "updated"
)

// Manager ties a cache backend to the read-model TTLs and provides the
// invalidation entry points used by admin writes.
type Manager struct {
	*Projections

	Backend     Cacher
	BackendName string
	TTL         TTLs
	logger      *slog.Logger
}

// NewManager creates a new cache manager.
func NewManager(backend Cacher, backendName string, ttl TTLs, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		Projections: NewProjections(backend, logger),
		Backend:     backend,
		BackendName: backendName,
		TTL:         ttl,
		logger:      logger,
	}
}

// InvalidateNavigation drops cached menus and everything that embeds them.
func (m *Manager) InvalidateNavigation(ctx context.Context) {
	m.invalidate(ctx, PrefixNavigation, PrefixConfig)
}

// InvalidateSettings drops cached settings and everything that embeds them.
func (m *Manager) InvalidateSettings(ctx context.Context) {
	m.invalidate(ctx, PrefixSettings, PrefixConfig)
}

// InvalidateMedia drops cached media listings and everything that embeds them.
func (m *Manager) InvalidateMedia(ctx context.Context) {
	m.invalidate(ctx, PrefixMedia, PrefixConfig)
}

func (m *Manager) invalidate(ctx context.Context, prefixes ...string) {
	if err := m.Invalidate(ctx, prefixes...); err != nil {
		m.logger.Warn("cache invalidation failed", "prefixes", prefixes, "error", err)
		return
	}
	m.logger.Debug("cache invalidated", "prefixes", prefixes)
}

// ConfigTimestamp returns "initial" when no config has been computed within
// the config TTL and "updated" otherwise, then refreshes the marker.
func (m *Manager) ConfigTimestamp(ctx context.Context) string {
	stamp := TimestampInitial
	if data, err := m.Backend.Get(ctx, KeyConfigTimestamp); err == nil && len(data) > 0 {
		stamp = string(data)
	}
	if err := m.Backend.Set(ctx, KeyConfigTimestamp, []byte(TimestampUpdated), m.TTL.Config); err != nil {
		m.logger.Warn("cache write failed", "key", KeyConfigTimestamp, "error", err)
	}
	return stamp
}

// Probe writes and reads back a short-lived key to verify the backend works.
func (m *Manager) Probe(ctx context.Context) error {
	key := fmt.Sprintf("%s:%d", KeyHealthProbe, time.Now().UnixNano())
	if err := m.Backend.Set(ctx, key, []byte("ok"), 10*time.Second); err != nil {
		return fmt.Errorf("writing probe: %w", err)
	}
	defer func() { _ = m.Backend.Delete(ctx, key) }()

	got, err := m.Backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading probe: %w", err)
	}
	if string(got) != "ok" {
		return errors.New("probe value mismatch")
	}
	return nil
}

// Stats returns backend statistics, or zero stats when the backend keeps none.
func (m *Manager) Stats() Stats {
	if sp, ok := m.Backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// ClearAll clears every cached payload and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.Backend.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.Backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	m.logger.Info("cache cleared", "backend", m.BackendName)
	return nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.Backend.Close()
}
