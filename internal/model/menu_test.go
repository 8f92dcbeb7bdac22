// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
)

func TestMenuItemFullURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		external bool
		want     string
	}{
		{"internal path", "/about", false, "/about"},
		{"internal without scheme stays", "example.com", false, "example.com"},
		{"external without scheme", "example.com/path", true, "https://example.com/path"},
		{"external https", "https://example.com", true, "https://example.com"},
		{"external http", "http://example.com", true, "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := MenuItem{URL: tt.url, IsExternal: tt.external}
			if got := item.FullURL(); got != tt.want {
				t.Errorf("FullURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMenuItemBelongsTo(t *testing.T) {
	item := MenuItem{MenuID: sql.NullInt64{Int64: 3, Valid: true}}
	if !item.BelongsTo(3) {
		t.Error("BelongsTo(3) = false, want true")
	}
	if item.BelongsTo(4) {
		t.Error("BelongsTo(4) = true, want false")
	}

	orphan := MenuItem{}
	if orphan.BelongsTo(0) {
		t.Error("item without menu should not belong to menu 0")
	}
}

func TestIsValidLocation(t *testing.T) {
	for _, loc := range ValidLocations {
		if !IsValidLocation(loc) {
			t.Errorf("IsValidLocation(%q) = false, want true", loc)
		}
	}
	for _, loc := range []string{"", "Header", "top", "_self"} {
		if IsValidLocation(loc) {
			t.Errorf("IsValidLocation(%q) = true, want false", loc)
		}
	}
}

func TestMenuLocationDisplay(t *testing.T) {
	if got := (Menu{Location: LocationFooter}).LocationDisplay(); got != "Footer Navigation" {
		t.Errorf("LocationDisplay() = %q, want %q", got, "Footer Navigation")
	}
	if got := LocationLabel("custom"); got != "custom" {
		t.Errorf("LocationLabel(custom) = %q, want %q", got, "custom")
	}
}
