// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "time"

// Key prefixes, one per read-model family. Admin writes invalidate by prefix.
const (
	PrefixNavigation = "nav:"
	PrefixSettings   = "settings:"
	PrefixMedia      = "media:"
	PrefixConfig     = "config:"
	PrefixHealth     = "health:"
)

// Fixed keys.
const (
	KeyNavigationAll   = PrefixNavigation + "all"
	KeySettingsPublic  = PrefixSettings + "public"
	KeyMediaLogos      = PrefixMedia + "logos"
	KeyConfigCompact   = PrefixConfig + "compact"
	KeyConfigTimestamp = PrefixConfig + "timestamp"
	KeyConfigNoMenu    = PrefixConfig + "no-menu"
	KeyHealthProbe     = PrefixHealth + "probe"
)

// Caller-supplied parts live under their own sub-prefix so that a location
// named "all" or "compact" cannot collide with a fixed key.

// NavigationKey returns the key of the navigation tree at a location.
func NavigationKey(location string) string {
	return PrefixNavigation + "loc:" + location
}

// SettingsCategoryKey returns the key of the public settings of a category.
func SettingsCategoryKey(category string) string {
	return PrefixSettings + "category:" + category
}

// MediaListKey returns the key of a filtered media listing.
// Empty filters are part of the key.
func MediaListKey(fileType, category string) string {
	return PrefixMedia + "list:" + fileType + ":" + category
}

// ConfigKey returns the key of the aggregated frontend config at a location.
func ConfigKey(location string) string {
	return PrefixConfig + "loc:" + location
}

// TTLs holds the expiry per read-model family.
type TTLs struct {
	Navigation time.Duration
	Settings   time.Duration
	Media      time.Duration
	Config     time.Duration
}

// DefaultTTLs returns the stock expiry times.
func DefaultTTLs() TTLs {
	return TTLs{
		Navigation: 300 * time.Second,
		Settings:   600 * time.Second,
		Media:      3600 * time.Second,
		Config:     300 * time.Second,
	}
}
