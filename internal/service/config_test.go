// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/menutree"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/store"
	"github.com/olegiv/navcms/internal/testutil"
)

func TestConfigWithoutHeaderMenu(t *testing.T) {
	env := newTestEnv(t, testutil.TestDB(t))
	ctx := context.Background()

	_, err := store.New(env.db).UpsertSetting(ctx, store.UpsertSettingParams{
		Key:      "site_name",
		Value:    "Acme",
		Type:     model.SettingTypeString,
		Category: model.SettingCategoryBranding,
		IsPublic: true,
		Now:      time.Now().UTC(),
	})
	require.NoError(t, err)

	data, err := env.config.Config(ctx, model.LocationHeader)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"navigation": {"items": []},
		"settings": {"site_name": "Acme"},
		"logo": null,
		"timestamp": "initial"
	}`, string(data))
}

func TestConfigAggregate(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	writePNG(t, env.uploads, "logo.png", 200, 50)
	_, err := env.media.Register(ctx, RegisterMediaInput{Name: "Logo", FilePath: "logo.png", FileType: model.MediaTypeLogo, AltText: "Acme"})
	require.NoError(t, err)

	data, err := env.config.Config(ctx, "")
	require.NoError(t, err)
	cfg := decodeObject(t, data)

	nav := cfg["navigation"].(map[string]any)
	assert.Equal(t, store.SeedHeaderMenu, nav["name"])
	assert.Len(t, nav["items"], 6)

	settings := cfg["settings"].(map[string]any)
	assert.Equal(t, "NAVCMS LOGISTICS", settings["site_name"])
	assert.Equal(t, true, settings["feature_ai_pricing"])
	assert.NotContains(t, settings, "maintenance_mode")

	logo := cfg["logo"].(map[string]any)
	assert.Equal(t, "Logo", logo["name"])
	assert.Equal(t, testMediaBaseURL+"/logo.png", logo["file_url"])
	assert.Equal(t, float64(200), logo["width"])
	assert.Equal(t, float64(50), logo["height"])
	assert.Equal(t, "Acme", logo["alt_text"])

	assert.Equal(t, cache.TimestampInitial, cfg["timestamp"])
}

func TestConfigTimestampMarker(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	header := decodeObject(t, mustBytes(t)(env.config.Config(ctx, model.LocationHeader)))
	assert.Equal(t, cache.TimestampInitial, header["timestamp"])

	footer := decodeObject(t, mustBytes(t)(env.config.Config(ctx, model.LocationFooter)))
	assert.Equal(t, cache.TimestampUpdated, footer["timestamp"])

	// Both the payloads and the marker expire with the config TTL.
	env.clock.Advance(300 * time.Second)
	header = decodeObject(t, mustBytes(t)(env.config.Config(ctx, model.LocationHeader)))
	assert.Equal(t, cache.TimestampInitial, header["timestamp"])
}

func TestConfigCachedWithinTTL(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	first, err := env.config.Config(ctx, model.LocationHeader)
	require.NoError(t, err)

	_, err = env.db.ExecContext(ctx, `UPDATE site_settings SET value = 'Changed' WHERE key = 'site_name'`)
	require.NoError(t, err)

	env.clock.Advance(4 * time.Minute)
	second, err := env.config.Config(ctx, model.LocationHeader)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Any settings write drops the aggregate too.
	_, err = env.settings.Upsert(ctx, UpsertSettingInput{
		Key:      "site_slogan",
		Value:    "New slogan",
		Type:     model.SettingTypeString,
		Category: model.SettingCategoryBranding,
	})
	require.NoError(t, err)

	third, err := env.config.Config(ctx, model.LocationHeader)
	require.NoError(t, err)
	settings := decodeObject(t, third)["settings"].(map[string]any)
	assert.Equal(t, "Changed", settings["site_name"])
	assert.Equal(t, "New slogan", settings["site_slogan"])
}

func TestConfigDegradesFailedPieces(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	_, err := env.db.ExecContext(ctx, `DROP TABLE site_settings`)
	require.NoError(t, err)
	_, err = env.db.ExecContext(ctx, `DROP TABLE media_files`)
	require.NoError(t, err)

	cfg := env.config.Build(ctx, model.LocationHeader)
	assert.Empty(t, cfg.Settings)
	assert.NotNil(t, cfg.Settings)
	assert.Nil(t, cfg.Logo)

	tree, ok := cfg.Navigation.(MenuTree)
	require.True(t, ok, "navigation should still be assembled")
	assert.Len(t, tree.Items, 6)

	data, err := env.config.Config(ctx, model.LocationHeader)
	require.NoError(t, err)
	out := decodeObject(t, data)
	assert.Equal(t, map[string]any{}, out["settings"])
	assert.Nil(t, out["logo"])
}

func TestConfigDegradedNavigation(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	_, err := env.db.ExecContext(ctx, `DROP TABLE menu_items`)
	require.NoError(t, err)

	cfg := env.config.Build(ctx, model.LocationHeader)
	assert.Equal(t, EmptyNavigation{Items: []menutree.Node{}}, cfg.Navigation)
	assert.NotEmpty(t, cfg.Settings)
}

func TestCompactConfig(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	data, err := env.config.Compact(ctx)
	require.NoError(t, err)
	cfg := decodeObject(t, data)

	nav := cfg["navigation"].(map[string]any)
	assert.Equal(t, store.SeedHeaderMenu, nav["name"])
	assert.Equal(t, "header", nav["location"])

	items := nav["items"].([]any)
	require.Len(t, items, 6)
	first := items[0].(map[string]any)
	assert.Equal(t, "Home", first["title"])
	assert.NotContains(t, first, "children")
	assert.ElementsMatch(t, []string{"id", "title", "url", "icon", "is_external", "badge_text", "order_index"}, keys(first))

	settings := cfg["settings"].(map[string]any)
	assert.ElementsMatch(t, []string{"site_name", "site_slogan", "site_description", "default_language", "timezone"}, keys(settings))

	has, err := env.cache.Backend.Has(ctx, cache.KeyConfigCompact)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCompactConfigWithoutHeaderMenu(t *testing.T) {
	env := newTestEnv(t, testutil.TestMemoryDB(t))

	data, err := env.config.Compact(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"navigation": {"items": []}, "settings": {}}`, string(data))
}

func mustBytes(t *testing.T) func([]byte, error) []byte {
	return func(data []byte, err error) []byte {
		t.Helper()
		require.NoError(t, err)
		return data
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestConfigUnknownLocationsShareOneEntry(t *testing.T) {
	env := newSeededEnv(t)
	ctx := context.Background()

	first, err := env.config.Config(ctx, "junk-0")
	require.NoError(t, err)
	items := env.cache.Stats().Items

	for i := range 50 {
		data, err := env.config.Config(ctx, fmt.Sprintf("junk-%d", i))
		require.NoError(t, err)
		assert.Equal(t, first, data)
	}
	assert.Equal(t, items, env.cache.Stats().Items)

	ok, err := env.cache.Backend.Has(ctx, cache.KeyConfigNoMenu)
	require.NoError(t, err)
	assert.True(t, ok)

	cfg := decodeObject(t, first)
	assert.Equal(t, map[string]any{"items": []any{}}, cfg["navigation"])
	assert.Equal(t, "NAVCMS LOGISTICS", cfg["settings"].(map[string]any)["site_name"])
}
