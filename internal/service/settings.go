// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/setting"
	"github.com/olegiv/navcms/internal/store"
)

// SettingEntry is one public setting in the grouped listing.
type SettingEntry struct {
	Value       setting.Value `json:"value"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
}

// AdminSetting is the full projection of a setting, raw and parsed.
type AdminSetting struct {
	ID          int64         `json:"id"`
	Key         string        `json:"key"`
	Value       string        `json:"value"`
	Type        string        `json:"type"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	IsPublic    bool          `json:"is_public"`
	ParsedValue setting.Value `json:"parsed_value"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// UpsertSettingInput is the admin request to create or replace a setting.
// A nil IsPublic keeps the current visibility, or makes a new setting public.
type UpsertSettingInput struct {
	Key         string `json:"key" validate:"required,max=100"`
	Value       string `json:"value" validate:"max=10000"`
	Type        string `json:"type" validate:"required,oneof=string json color image boolean number email url"`
	Category    string `json:"category" validate:"required,oneof=branding colors typography social contact seo general security performance features"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    *bool  `json:"is_public"`
}

var booleanLiterals = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true, "t": true,
	"false": true, "0": true, "no": true, "off": true, "f": true,
}

// SettingsService serves public settings and handles admin setting writes.
type SettingsService struct {
	queries *store.Queries
	cache   *cache.Manager
	events  *EventService
	logger  *slog.Logger
}

// NewSettingsService creates a new SettingsService. events may be nil.
func NewSettingsService(db *sql.DB, cm *cache.Manager, events *EventService, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsService{
		queries: store.New(db),
		cache:   cm,
		events:  events,
		logger:  logger,
	}
}

// Public returns the JSON payload of public settings grouped by category,
// each with its typed value, type and description.
func (s *SettingsService) Public(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrCompute(ctx, cache.KeySettingsPublic, s.cache.TTL.Settings, func(ctx context.Context) (any, error) {
		settings, err := s.queries.ListPublicSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing public settings: %w", err)
		}

		result := make(map[string]map[string]SettingEntry)
		for _, st := range settings {
			group, ok := result[st.Category]
			if !ok {
				group = make(map[string]SettingEntry)
				result[st.Category] = group
			}
			group[st.Key] = SettingEntry{
				Value:       setting.Decode(st.Value, st.Type),
				Type:        st.Type,
				Description: st.Description,
			}
		}
		return result, nil
	})
}

// ByCategory returns the JSON payload of the public settings of one
// category as key to typed value.
func (s *SettingsService) ByCategory(ctx context.Context, category string) ([]byte, error) {
	if category == "" {
		category = model.DefaultSettingCategory
	}
	return s.cache.GetOrCompute(ctx, cache.SettingsCategoryKey(category), s.cache.TTL.Settings, func(ctx context.Context) (any, error) {
		if !model.IsValidSettingCategory(category) {
			return cache.Uncached(map[string]setting.Value{}), nil
		}
		return s.Flat(ctx, category)
	})
}

// Flat returns public settings as key to typed value. With no categories it
// returns every public setting.
func (s *SettingsService) Flat(ctx context.Context, categories ...string) (map[string]setting.Value, error) {
	var (
		settings []model.Setting
		err      error
	)
	if len(categories) == 0 {
		settings, err = s.queries.ListPublicSettings(ctx)
	} else {
		settings, err = s.queries.ListPublicSettingsByCategories(ctx, categories)
	}
	if err != nil {
		return nil, fmt.Errorf("listing public settings: %w", err)
	}

	result := make(map[string]setting.Value, len(settings))
	for _, st := range settings {
		result[st.Key] = setting.Decode(st.Value, st.Type)
	}
	return result, nil
}

// AdminList returns every setting, private ones included. It is not cached.
func (s *SettingsService) AdminList(ctx context.Context) ([]AdminSetting, error) {
	settings, err := s.queries.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}

	out := make([]AdminSetting, 0, len(settings))
	for _, st := range settings {
		out = append(out, toAdminSetting(st))
	}
	return out, nil
}

// Upsert creates or replaces a setting, then drops cached settings.
func (s *SettingsService) Upsert(ctx context.Context, in UpsertSettingInput) (AdminSetting, error) {
	in.Key = strings.TrimSpace(in.Key)
	if err := validateInput(in); err != nil {
		return AdminSetting{}, err
	}
	if err := checkSettingValue(in.Value, in.Type); err != nil {
		return AdminSetting{}, err
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	} else {
		existing, err := s.queries.GetSettingByKey(ctx, in.Key)
		switch {
		case err == nil:
			isPublic = existing.IsPublic
		case !errors.Is(err, sql.ErrNoRows):
			return AdminSetting{}, fmt.Errorf("loading setting %s: %w", in.Key, err)
		}
	}

	saved, err := s.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:         in.Key,
		Value:       in.Value,
		Type:        in.Type,
		Category:    in.Category,
		Description: sanitizeText(in.Description),
		IsPublic:    isPublic,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		return AdminSetting{}, fmt.Errorf("saving setting %s: %w", in.Key, err)
	}

	s.cache.InvalidateSettings(ctx)
	s.events.audit(ctx, model.EventCategorySettings, "Setting saved", map[string]any{
		"key":       saved.Key,
		"type":      saved.Type,
		"is_public": saved.IsPublic,
	})
	return toAdminSetting(saved), nil
}

// checkSettingValue rejects values that would only decode to their raw text.
// Empty values are always accepted.
func checkSettingValue(raw, typ string) error {
	if raw == "" {
		return nil
	}

	switch typ {
	case model.SettingTypeBoolean:
		if !booleanLiterals[strings.ToLower(raw)] {
			return fieldError("value", "must be a boolean")
		}
	case model.SettingTypeNumber:
		if setting.Decode(raw, typ).Kind() != setting.KindNumber {
			return fieldError("value", "must be a number")
		}
	case model.SettingTypeJSON:
		if setting.Decode(raw, typ).Kind() != setting.KindJSON {
			return fieldError("value", "must be valid JSON")
		}
	case model.SettingTypeColor:
		if validate.Var(string(setting.Decode(raw, typ).(setting.ColorValue)), "hexcolor") != nil {
			return fieldError("value", "must be a hex color")
		}
	case model.SettingTypeEmail:
		if validate.Var(raw, "email") != nil {
			return fieldError("value", "must be an email address")
		}
	case model.SettingTypeURL:
		if validate.Var(raw, "url") != nil {
			return fieldError("value", "must be a URL")
		}
	}
	return nil
}

func toAdminSetting(st model.Setting) AdminSetting {
	return AdminSetting{
		ID:          st.ID,
		Key:         st.Key,
		Value:       st.Value,
		Type:        st.Type,
		Category:    st.Category,
		Description: st.Description,
		IsPublic:    st.IsPublic,
		ParsedValue: setting.Decode(st.Value, st.Type),
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}
