// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Setting types
const (
	SettingTypeString  = "string"
	SettingTypeJSON    = "json"
	SettingTypeColor   = "color"
	SettingTypeImage   = "image"
	SettingTypeBoolean = "boolean"
	SettingTypeNumber  = "number"
	SettingTypeEmail   = "email"
	SettingTypeURL     = "url"
)

// Setting categories
const (
	SettingCategoryBranding    = "branding"
	SettingCategoryColors      = "colors"
	SettingCategoryTypography  = "typography"
	SettingCategorySocial      = "social"
	SettingCategoryContact     = "contact"
	SettingCategorySEO         = "seo"
	SettingCategoryGeneral     = "general"
	SettingCategorySecurity    = "security"
	SettingCategoryPerformance = "performance"
	SettingCategoryFeatures    = "features"
)

// DefaultSettingCategory is used when a request does not name a category.
const DefaultSettingCategory = SettingCategoryBranding

// ValidSettingTypes contains all valid setting types.
var ValidSettingTypes = []string{
	SettingTypeString,
	SettingTypeJSON,
	SettingTypeColor,
	SettingTypeImage,
	SettingTypeBoolean,
	SettingTypeNumber,
	SettingTypeEmail,
	SettingTypeURL,
}

// ValidSettingCategories contains all valid setting categories.
var ValidSettingCategories = []string{
	SettingCategoryBranding,
	SettingCategoryColors,
	SettingCategoryTypography,
	SettingCategorySocial,
	SettingCategoryContact,
	SettingCategorySEO,
	SettingCategoryGeneral,
	SettingCategorySecurity,
	SettingCategoryPerformance,
	SettingCategoryFeatures,
}

// CompactSettingCategories are the categories included in the compact config.
var CompactSettingCategories = []string{SettingCategoryBranding, SettingCategoryGeneral}

// Setting represents a typed key/value site setting.
// Value is always stored as text; interpretation happens at read time.
type Setting struct {
	ID          int64
	Key         string
	Value       string
	Type        string
	Category    string
	Description string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidSettingType checks if a setting type is valid.
func IsValidSettingType(typ string) bool {
	for _, t := range ValidSettingTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// IsValidSettingCategory checks if a setting category is valid.
func IsValidSettingCategory(category string) bool {
	return slices.Contains(ValidSettingCategories, category)
}
