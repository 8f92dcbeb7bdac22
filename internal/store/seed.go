// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/navcms/internal/menutree"
	"github.com/olegiv/navcms/internal/model"
)

// Names of the seeded menus.
const (
	SeedHeaderMenu = "main-navigation"
	SeedFooterMenu = "footer-navigation"
)

type seedItem struct {
	title    string
	url      string
	icon     string
	order    int
	children []seedItem
}

type seedSetting struct {
	key      string
	value    string
	typ      string
	category string
	private  bool
}

func headerMenuItems() []seedItem {
	return []seedItem{
		{title: "Home", url: "/", icon: "HiHome", order: 1},
		{title: "Services & Fleet", url: "#", icon: "HiTruck", order: 2, children: []seedItem{
			{title: "Fleet Capacity", url: "/maintenance", icon: "HiCube", order: 1},
			{title: "Delivery Coverage", url: "/maintenance", icon: "HiMap", order: 2},
			{title: "Safety Procedures", url: "/maintenance", icon: "HiShieldCheck", order: 3},
			{title: "Price Estimate", url: "/price-estimate", icon: "HiCalculator", order: 4},
			{title: "Service Types", url: "/maintenance", icon: "HiClipboardList", order: 5},
		}},
		{title: "Gallery & Portfolio", url: "#", icon: "HiPhotograph", order: 3, children: []seedItem{
			{title: "Shipment Gallery", url: "/maintenance", icon: "HiCamera", order: 1},
			{title: "Success Stories", url: "/maintenance", icon: "HiStar", order: 2},
			{title: "Testimonials", url: "/maintenance", icon: "HiChatAlt2", order: 3},
		}},
		{title: "About Us", url: "#", icon: "HiInformationCircle", order: 4, children: []seedItem{
			{title: "Vision & Values", url: "/maintenance", icon: "HiEye", order: 1},
			{title: "Company Profile", url: "/maintenance", icon: "HiDocumentText", order: 2},
			{title: "Risk Handling", url: "/maintenance", icon: "HiExclamation", order: 3},
		}},
		{title: "Contact", url: "#", icon: "HiPhone", order: 5, children: []seedItem{
			{title: "Track Shipment", url: "/maintenance", icon: "HiSearch", order: 1},
			{title: "Request a Quote", url: "/maintenance", icon: "HiClipboard", order: 2},
			{title: "Contact Details", url: "/maintenance", icon: "HiMail", order: 3},
			{title: "Office Locations", url: "/maintenance", icon: "HiLocationMarker", order: 4},
		}},
		{title: "News", url: "#", icon: "HiNewspaper", order: 6, children: []seedItem{
			{title: "Latest News", url: "/maintenance", icon: "HiFire", order: 1},
			{title: "Logistics Tips", url: "/maintenance", icon: "HiLightBulb", order: 2},
		}},
	}
}

func defaultSettings() []seedSetting {
	return []seedSetting{
		{"site_name", "NAVCMS LOGISTICS", model.SettingTypeString, model.SettingCategoryBranding, false},
		{"site_slogan", "Expedition & Logistics Solutions", model.SettingTypeString, model.SettingCategoryBranding, false},
		{"site_description", "A trusted partner for shipping anywhere in the country", model.SettingTypeString, model.SettingCategoryBranding, false},

		{"primary_color", "#3B82F6", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"secondary_color", "#10B981", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"accent_color", "#8B5CF6", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"navbar_bg", "rgba(255, 255, 255, 0.8)", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"dark_primary_color", "#60A5FA", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"dark_secondary_color", "#34D399", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"dark_navbar_bg", "rgba(15, 23, 42, 0.8)", model.SettingTypeColor, model.SettingCategoryColors, false},
		{"theme_mode", "system", model.SettingTypeString, model.SettingCategoryColors, false},
		{"navbar_blur", "12", model.SettingTypeNumber, model.SettingCategoryColors, false},

		{"font_family", "Inter, system-ui, sans-serif", model.SettingTypeString, model.SettingCategoryTypography, false},
		{"font_size_base", "16", model.SettingTypeNumber, model.SettingCategoryTypography, false},
		{"font_weight_normal", "400", model.SettingTypeNumber, model.SettingCategoryTypography, false},
		{"font_weight_bold", "700", model.SettingTypeNumber, model.SettingCategoryTypography, false},

		{"facebook_url", "https://facebook.com/navcms", model.SettingTypeURL, model.SettingCategorySocial, false},
		{"instagram_url", "https://instagram.com/navcms", model.SettingTypeURL, model.SettingCategorySocial, false},
		{"twitter_url", "https://twitter.com/navcms", model.SettingTypeURL, model.SettingCategorySocial, false},
		{"linkedin_url", "https://linkedin.com/company/navcms", model.SettingTypeURL, model.SettingCategorySocial, false},

		{"contact_email", "info@example.com", model.SettingTypeEmail, model.SettingCategoryContact, false},
		{"contact_phone", "+1 555-0100", model.SettingTypeString, model.SettingCategoryContact, false},
		{"contact_whatsapp", "+1 555-0100", model.SettingTypeString, model.SettingCategoryContact, false},
		{"contact_address", "123 Main Street, Springfield", model.SettingTypeString, model.SettingCategoryContact, false},
		{"contact_hours", "Monday - Sunday: 24 hours", model.SettingTypeString, model.SettingCategoryContact, false},

		{"meta_title", "NAVCMS LOGISTICS - Expedition & Logistics Solutions", model.SettingTypeString, model.SettingCategorySEO, false},
		{"meta_description", "Reliable, fast and affordable freight delivery.", model.SettingTypeString, model.SettingCategorySEO, false},
		{"meta_keywords", "logistics, shipping, freight, cargo, delivery", model.SettingTypeString, model.SettingCategorySEO, false},

		{"maintenance_mode", "false", model.SettingTypeBoolean, model.SettingCategoryGeneral, true},
		{"default_language", "en", model.SettingTypeString, model.SettingCategoryGeneral, false},
		{"timezone", "UTC", model.SettingTypeString, model.SettingCategoryGeneral, false},

		{"feature_ai_pricing", "true", model.SettingTypeBoolean, model.SettingCategoryFeatures, false},
		{"feature_real_time_tracking", "true", model.SettingTypeBoolean, model.SettingCategoryFeatures, false},
		{"feature_bulk_shipment", "true", model.SettingTypeBoolean, model.SettingCategoryFeatures, false},
	}
}

// Seed creates the initial menus, menu items and site settings.
// Existing menus and settings are left untouched, so Seed is safe to rerun.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := New(db).WithTx(tx)
	now := time.Now().UTC()

	header, created, err := seedMenu(ctx, queries, SeedHeaderMenu, model.LocationHeader,
		"Main navigation menu for the website header", now)
	if err != nil {
		return err
	}
	if created {
		n, err := seedMenuItems(ctx, queries, header.ID, sql.NullInt64{}, headerMenuItems(), now)
		if err != nil {
			return err
		}
		slog.Info("seeded header menu", "menu_id", header.ID, "items", n)
	}

	if _, created, err := seedMenu(ctx, queries, SeedFooterMenu, model.LocationFooter,
		"Footer navigation menu", now); err != nil {
		return err
	} else if created {
		slog.Info("seeded footer menu")
	}

	for _, s := range defaultSettings() {
		if err := queries.CreateSettingIfMissing(ctx, UpsertSettingParams{
			Key:         s.key,
			Value:       s.value,
			Type:        s.typ,
			Category:    s.category,
			Description: fmt.Sprintf("Default %s setting", s.key),
			IsPublic:    !s.private,
			Now:         now,
		}); err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.key, err)
		}
	}

	items, err := queries.ListAllMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("loading menu items: %w", err)
	}
	if err := menutree.Validate(items); err != nil {
		return fmt.Errorf("validating menu items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("seed complete", "settings", len(defaultSettings()))
	return nil
}

func seedMenu(ctx context.Context, q *Queries, name, location, description string, now time.Time) (model.Menu, bool, error) {
	menu, err := q.GetMenuByName(ctx, name)
	if err == nil {
		return menu, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Menu{}, false, fmt.Errorf("checking menu %s: %w", name, err)
	}

	menu, err = q.CreateMenu(ctx, CreateMenuParams{
		Name:        name,
		Location:    location,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Menu{}, false, fmt.Errorf("creating menu %s: %w", name, err)
	}
	return menu, true, nil
}

func seedMenuItems(ctx context.Context, q *Queries, menuID int64, parent sql.NullInt64, items []seedItem, now time.Time) (int, error) {
	count := 0
	for _, it := range items {
		created, err := q.CreateMenuItem(ctx, CreateMenuItemParams{
			MenuID:     sql.NullInt64{Int64: menuID, Valid: true},
			ParentID:   parent,
			Title:      it.title,
			URL:        it.url,
			Icon:       it.icon,
			OrderIndex: it.order,
			IsActive:   true,
			BadgeColor: model.DefaultBadgeColor,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return count, fmt.Errorf("creating menu item %s: %w", it.title, err)
		}
		count++

		n, err := seedMenuItems(ctx, q, menuID, sql.NullInt64{Int64: created.ID, Valid: true}, it.children, now)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}
