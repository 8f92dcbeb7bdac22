// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/navcms/internal/model"
)

// testDB creates a migrated database in a temporary directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "navcms-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func createTestMenu(t *testing.T, q *Queries, name, location string, active bool) model.Menu {
	t.Helper()
	now := time.Now().UTC()
	m, err := q.CreateMenu(context.Background(), CreateMenuParams{
		Name:      name,
		Location:  location,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	return m
}

func createTestItem(t *testing.T, q *Queries, menuID int64, parent sql.NullInt64, title string, order int) model.MenuItem {
	t.Helper()
	now := time.Now().UTC()
	it, err := q.CreateMenuItem(context.Background(), CreateMenuItemParams{
		MenuID:     sql.NullInt64{Int64: menuID, Valid: true},
		ParentID:   parent,
		Title:      title,
		URL:        "/" + title,
		OrderIndex: order,
		IsActive:   true,
		BadgeColor: model.DefaultBadgeColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	return it
}

func TestPing(t *testing.T) {
	db := testDB(t)
	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestMenus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	createTestMenu(t, q, "zeta", model.LocationHeader, true)
	alpha := createTestMenu(t, q, "alpha", model.LocationHeader, true)
	createTestMenu(t, q, "aardvark", model.LocationHeader, false)
	createTestMenu(t, q, "foot", model.LocationFooter, true)

	got, err := q.GetActiveMenuByLocation(ctx, model.LocationHeader)
	if err != nil {
		t.Fatalf("GetActiveMenuByLocation: %v", err)
	}
	if got.ID != alpha.ID {
		t.Errorf("active header menu = %q, want %q", got.Name, alpha.Name)
	}

	if _, err := q.GetActiveMenuByLocation(ctx, model.LocationMobile); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}

	menus, err := q.ListActiveMenus(ctx)
	if err != nil {
		t.Fatalf("ListActiveMenus: %v", err)
	}
	var names []string
	for _, m := range menus {
		names = append(names, m.Location+"/"+m.Name)
	}
	want := []string{"footer/foot", "header/alpha", "header/zeta"}
	if len(names) != len(want) {
		t.Fatalf("menus = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("menus[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	n, err := q.CountMenus(ctx)
	if err != nil || n != 4 {
		t.Errorf("CountMenus = %d, %v; want 4", n, err)
	}
}

func TestMenuLocationConstraint(t *testing.T) {
	db := testDB(t)
	q := New(db)

	now := time.Now().UTC()
	_, err := q.CreateMenu(context.Background(), CreateMenuParams{
		Name:      "bad",
		Location:  "attic",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown location")
	}
}

func TestMenuItems(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	menu := createTestMenu(t, q, "main", model.LocationHeader, true)
	other := createTestMenu(t, q, "other", model.LocationFooter, true)

	root := createTestItem(t, q, menu.ID, sql.NullInt64{}, "root", 1)
	child := createTestItem(t, q, menu.ID, sql.NullInt64{Int64: root.ID, Valid: true}, "child", 1)
	createTestItem(t, q, other.ID, sql.NullInt64{}, "foreign", 1)

	if child.BadgeColor != model.DefaultBadgeColor {
		t.Errorf("BadgeColor = %q, want %q", child.BadgeColor, model.DefaultBadgeColor)
	}
	if !child.ParentID.Valid || child.ParentID.Int64 != root.ID {
		t.Errorf("ParentID = %v, want %d", child.ParentID, root.ID)
	}

	items, err := q.ListMenuItemsByMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItemsByMenu: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}

	all, err := q.ListAllMenuItems(ctx)
	if err != nil {
		t.Fatalf("ListAllMenuItems: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d items, want 3", len(all))
	}

	moved, err := q.UpdateMenuItemParent(ctx, UpdateMenuItemParentParams{
		ID:        child.ID,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpdateMenuItemParent: %v", err)
	}
	if moved.ParentID.Valid {
		t.Errorf("expected child to become a root, got parent %d", moved.ParentID.Int64)
	}

	if _, err := q.GetMenuItem(ctx, 9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	params := []UpsertSettingParams{
		{Key: "site_name", Value: "Acme", Type: model.SettingTypeString, Category: model.SettingCategoryBranding, IsPublic: true, Now: now},
		{Key: "timezone", Value: "UTC", Type: model.SettingTypeString, Category: model.SettingCategoryGeneral, IsPublic: true, Now: now},
		{Key: "primary_color", Value: "3B82F6", Type: model.SettingTypeColor, Category: model.SettingCategoryColors, IsPublic: true, Now: now},
		{Key: "maintenance_mode", Value: "false", Type: model.SettingTypeBoolean, Category: model.SettingCategoryGeneral, IsPublic: false, Now: now},
	}
	for _, p := range params {
		if _, err := q.UpsertSetting(ctx, p); err != nil {
			t.Fatalf("UpsertSetting(%s): %v", p.Key, err)
		}
	}

	public, err := q.ListPublicSettings(ctx)
	if err != nil {
		t.Fatalf("ListPublicSettings: %v", err)
	}
	if len(public) != 3 {
		t.Fatalf("got %d public settings, want 3", len(public))
	}
	// Ordered by (category, key).
	if public[0].Key != "site_name" || public[1].Key != "primary_color" || public[2].Key != "timezone" {
		t.Errorf("unexpected order: %s, %s, %s", public[0].Key, public[1].Key, public[2].Key)
	}

	compact, err := q.ListPublicSettingsByCategories(ctx, model.CompactSettingCategories)
	if err != nil {
		t.Fatalf("ListPublicSettingsByCategories: %v", err)
	}
	if len(compact) != 2 {
		t.Errorf("got %d compact settings, want 2", len(compact))
	}

	none, err := q.ListPublicSettingsByCategories(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Errorf("empty category list = %v, %v", none, err)
	}

	all, err := q.ListSettings(ctx)
	if err != nil || len(all) != 4 {
		t.Errorf("ListSettings = %d, %v; want 4", len(all), err)
	}

	updated, err := q.UpsertSetting(ctx, UpsertSettingParams{
		Key: "site_name", Value: "Acme Corp", Type: model.SettingTypeString,
		Category: model.SettingCategoryBranding, IsPublic: true, Now: now.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("UpsertSetting update: %v", err)
	}
	if updated.ID != public[0].ID || updated.Value != "Acme Corp" {
		t.Errorf("upsert did not update in place: %+v", updated)
	}

	if err := q.CreateSettingIfMissing(ctx, UpsertSettingParams{
		Key: "site_name", Value: "ignored", Type: model.SettingTypeString,
		Category: model.SettingCategoryBranding, IsPublic: true, Now: now,
	}); err != nil {
		t.Fatalf("CreateSettingIfMissing: %v", err)
	}
	got, err := q.GetSettingByKey(ctx, "site_name")
	if err != nil {
		t.Fatalf("GetSettingByKey: %v", err)
	}
	if got.Value != "Acme Corp" {
		t.Errorf("CreateSettingIfMissing overwrote value: %q", got.Value)
	}
}

func TestMediaFiles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	files := []CreateMediaFileParams{
		{UUID: "u1", Name: "old logo", FilePath: "media/old.png", FileType: model.MediaTypeLogo, Category: "main", UploadedAt: base},
		{UUID: "u2", Name: "new logo", FilePath: "media/new.png", FileType: model.MediaTypeLogo, Category: "main", UploadedAt: base.Add(time.Hour),
			Width: sql.NullInt64{Int64: 200, Valid: true}, Height: sql.NullInt64{Int64: 80, Valid: true}},
		{UUID: "u3", Name: "banner", FilePath: "media/banner.jpg", FileType: model.MediaTypeBanner, Category: "home", UploadedAt: base.Add(2 * time.Hour)},
	}
	for _, f := range files {
		if _, err := q.CreateMediaFile(ctx, f); err != nil {
			t.Fatalf("CreateMediaFile(%s): %v", f.Name, err)
		}
	}

	tests := []struct {
		name   string
		params ListMediaFilesParams
		want   []string
	}{
		{"all", ListMediaFilesParams{}, []string{"banner", "new logo", "old logo"}},
		{"by type", ListMediaFilesParams{FileType: model.MediaTypeLogo}, []string{"new logo", "old logo"}},
		{"by category", ListMediaFilesParams{Category: "home"}, []string{"banner"}},
		{"both", ListMediaFilesParams{FileType: model.MediaTypeBanner, Category: "main"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.ListMediaFiles(ctx, tt.params)
			if err != nil {
				t.Fatalf("ListMediaFiles: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d files, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Name != tt.want[i] {
					t.Errorf("files[%d] = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}

	latest, err := q.GetLatestMediaFileByType(ctx, model.MediaTypeLogo)
	if err != nil {
		t.Fatalf("GetLatestMediaFileByType: %v", err)
	}
	if latest.UUID != "u2" || latest.Width.Int64 != 200 {
		t.Errorf("unexpected latest logo: %+v", latest)
	}

	if _, err := q.GetLatestMediaFileByType(ctx, model.MediaTypeFavicon); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	for i, msg := range []string{"first", "second"} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     model.EventLevelWarning,
			Category:  model.EventCategoryCache,
			Message:   msg,
			Metadata:  "{}",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 || events[0].Message != "second" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Rerunning is a no-op.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	header, err := q.GetActiveMenuByLocation(ctx, model.LocationHeader)
	if err != nil {
		t.Fatalf("header menu: %v", err)
	}
	if header.Name != SeedHeaderMenu {
		t.Errorf("header menu = %q, want %q", header.Name, SeedHeaderMenu)
	}

	items, err := q.ListMenuItemsByMenu(ctx, header.ID)
	if err != nil {
		t.Fatalf("ListMenuItemsByMenu: %v", err)
	}
	if len(items) != 23 {
		t.Errorf("got %d header items, want 23", len(items))
	}

	footer, err := q.GetActiveMenuByLocation(ctx, model.LocationFooter)
	if err != nil {
		t.Fatalf("footer menu: %v", err)
	}
	footerItems, _ := q.ListMenuItemsByMenu(ctx, footer.ID)
	if len(footerItems) != 0 {
		t.Errorf("footer menu should be empty, got %d items", len(footerItems))
	}

	n, err := q.CountSettings(ctx)
	if err != nil || n != int64(len(defaultSettings())) {
		t.Errorf("CountSettings = %d, %v; want %d", n, err, len(defaultSettings()))
	}

	maintenance, err := q.GetSettingByKey(ctx, "maintenance_mode")
	if err != nil {
		t.Fatalf("GetSettingByKey: %v", err)
	}
	if maintenance.IsPublic {
		t.Error("maintenance_mode must not be public")
	}
}
