// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/menutree"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/setting"
)

// FrontendConfig is the bootstrap payload of the frontend.
type FrontendConfig struct {
	Navigation any                      `json:"navigation"`
	Settings   map[string]setting.Value `json:"settings"`
	Logo       *LogoDescriptor          `json:"logo"`
	Timestamp  string                   `json:"timestamp"`
}

// CompactConfig is the reduced bootstrap payload.
type CompactConfig struct {
	Navigation any                      `json:"navigation"`
	Settings   map[string]setting.Value `json:"settings"`
}

// CompactNavigation is a menu with its root items only.
type CompactNavigation struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Location string            `json:"location"`
	Items    []CompactMenuItem `json:"items"`
}

// CompactMenuItem is the reduced projection of a root menu item.
type CompactMenuItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Icon       string `json:"icon"`
	IsExternal bool   `json:"is_external"`
	BadgeText  string `json:"badge_text"`
	OrderIndex int    `json:"order_index"`
}

// ConfigService composes the frontend config from navigation, settings and
// media. A failing piece degrades to its empty form and is logged; the
// aggregate itself never fails.
type ConfigService struct {
	nav      *NavigationService
	settings *SettingsService
	media    *MediaService
	cache    *cache.Manager
	logger   *slog.Logger
}

// NewConfigService creates a new ConfigService.
func NewConfigService(nav *NavigationService, settings *SettingsService, media *MediaService, cm *cache.Manager, logger *slog.Logger) *ConfigService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigService{
		nav:      nav,
		settings: settings,
		media:    media,
		cache:    cm,
		logger:   logger,
	}
}

// Config returns the JSON payload of the frontend config for a menu location.
func (s *ConfigService) Config(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		location = model.DefaultLocation
	}
	key := cache.ConfigKey(location)
	if !model.IsValidLocation(location) {
		// Every unknown location yields the same menu-less aggregate.
		key = cache.KeyConfigNoMenu
	}
	return s.cache.GetOrCompute(ctx, key, s.cache.TTL.Config, func(ctx context.Context) (any, error) {
		return s.Build(ctx, location), nil
	})
}

// Build assembles the frontend config without consulting the payload cache.
func (s *ConfigService) Build(ctx context.Context, location string) FrontendConfig {
	cfg := FrontendConfig{
		Navigation: EmptyNavigation{Items: []menutree.Node{}},
		Settings:   map[string]setting.Value{},
	}

	tree, ok, err := s.nav.Tree(ctx, location)
	switch {
	case err != nil:
		s.degraded("navigation", err, "location", location)
	case ok:
		cfg.Navigation = tree
	}

	if settings, err := s.settings.Flat(ctx); err != nil {
		s.degraded("settings", err)
	} else {
		cfg.Settings = settings
	}

	if logo, err := s.media.Logo(ctx); err != nil {
		s.degraded("logo", err)
	} else {
		cfg.Logo = logo
	}

	cfg.Timestamp = s.cache.ConfigTimestamp(ctx)
	return cfg
}

// Compact returns the JSON payload of the compact config: the header menu's
// root items and the branding and general settings.
func (s *ConfigService) Compact(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrCompute(ctx, cache.KeyConfigCompact, s.cache.TTL.Config, func(ctx context.Context) (any, error) {
		return s.BuildCompact(ctx), nil
	})
}

// BuildCompact assembles the compact config without consulting the cache.
func (s *ConfigService) BuildCompact(ctx context.Context) CompactConfig {
	cfg := CompactConfig{
		Navigation: EmptyNavigation{Items: []menutree.Node{}},
		Settings:   map[string]setting.Value{},
	}

	menu, roots, ok, err := s.nav.Roots(ctx, model.LocationHeader)
	switch {
	case err != nil:
		s.degraded("navigation", err, "location", model.LocationHeader)
	case ok:
		nav := CompactNavigation{
			ID:       menu.ID,
			Name:     menu.Name,
			Location: menu.Location,
			Items:    make([]CompactMenuItem, 0, len(roots)),
		}
		for _, it := range roots {
			nav.Items = append(nav.Items, CompactMenuItem{
				ID:         it.ID,
				Title:      it.Title,
				URL:        it.URL,
				Icon:       it.Icon,
				IsExternal: it.IsExternal,
				BadgeText:  it.BadgeText,
				OrderIndex: it.OrderIndex,
			})
		}
		cfg.Navigation = nav
	}

	if settings, err := s.settings.Flat(ctx, model.CompactSettingCategories...); err != nil {
		s.degraded("settings", err)
	} else {
		cfg.Settings = settings
	}

	return cfg
}

func (s *ConfigService) degraded(piece string, err error, attrs ...any) {
	args := append([]any{"category", model.EventCategorySystem, "piece", piece, "error", err}, attrs...)
	s.logger.Warn("config piece degraded to empty", args...)
}
