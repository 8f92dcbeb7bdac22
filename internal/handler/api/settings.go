// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/navcms/internal/service"
)

// Settings handles GET /settings. Without a category it answers with every
// public setting grouped by category; with ?category=<c> it answers like
// SettingsByCategory.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	if category := queryParam(r, "category"); category != "" {
		h.serveCached(w, r, "load settings", func() ([]byte, error) {
			return h.settings.ByCategory(r.Context(), category)
		})
		return
	}

	h.serveCached(w, r, "load settings", func() ([]byte, error) {
		return h.settings.Public(r.Context())
	})
}

// SettingsByCategory handles GET /settings/by_category?category=<c>.
// The category defaults to branding.
func (h *Handler) SettingsByCategory(w http.ResponseWriter, r *http.Request) {
	category := queryParam(r, "category")
	h.serveCached(w, r, "load settings", func() ([]byte, error) {
		return h.settings.ByCategory(r.Context(), category)
	})
}

// AdminSettings handles GET /settings/admin.
func (h *Handler) AdminSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.AdminList(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "list settings")
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpsertSetting handles PUT /settings/admin/{key}. The path key wins over a
// key in the body.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	var in service.UpsertSettingInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.Key = chi.URLParam(r, "key")

	saved, err := h.settings.Upsert(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "save setting")
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}
