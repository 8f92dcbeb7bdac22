// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// Menu locations
const (
	LocationHeader  = "header"
	LocationFooter  = "footer"
	LocationSidebar = "sidebar"
	LocationMobile  = "mobile"
)

// DefaultLocation is used when a request does not name a location.
const DefaultLocation = LocationHeader

// DefaultBadgeColor is the badge color assigned to new menu items.
const DefaultBadgeColor = "#EF4444"

// ValidLocations contains all valid menu locations in display order.
var ValidLocations = []string{LocationHeader, LocationFooter, LocationSidebar, LocationMobile}

var locationLabels = map[string]string{
	LocationHeader:  "Header Navigation",
	LocationFooter:  "Footer Navigation",
	LocationSidebar: "Sidebar Navigation",
	LocationMobile:  "Mobile Navigation",
}

// Menu represents a navigation menu placed at one location.
type Menu struct {
	ID          int64
	Name        string
	Location    string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationDisplay returns the human-readable label for the menu location.
func (m Menu) LocationDisplay() string {
	return LocationLabel(m.Location)
}

// MenuItem represents an item in a navigation menu.
// ParentID refers to another item of the same menu.
type MenuItem struct {
	ID           int64
	MenuID       sql.NullInt64
	ParentID     sql.NullInt64
	Title        string
	URL          string
	Icon         string
	OrderIndex   int
	IsExternal   bool
	IsActive     bool
	RequiresAuth bool
	BadgeText    string
	BadgeColor   string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullURL returns the item URL, prefixed with https:// for external links
// that carry no scheme.
func (i MenuItem) FullURL() string {
	if i.IsExternal && !strings.HasPrefix(i.URL, "http://") && !strings.HasPrefix(i.URL, "https://") {
		return "https://" + i.URL
	}
	return i.URL
}

// BelongsTo reports whether the item is attached to the given menu.
func (i MenuItem) BelongsTo(menuID int64) bool {
	return i.MenuID.Valid && i.MenuID.Int64 == menuID
}

// IsRoot reports whether the item has no parent.
func (i MenuItem) IsRoot() bool {
	return !i.ParentID.Valid
}

// IsValidLocation checks if a location value is valid.
func IsValidLocation(location string) bool {
	_, ok := locationLabels[location]
	return ok
}

// LocationLabel returns the display label for a location, or the location
// itself when it is unknown.
func LocationLabel(location string) string {
	if label, ok := locationLabels[location]; ok {
		return label
	}
	return location
}
