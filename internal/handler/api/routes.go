// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/navcms/internal/middleware"
)

// RouteOptions configures the middleware around the API routes.
type RouteOptions struct {
	// AdminKey guards the admin routes; empty rejects them all.
	AdminKey string

	// PublicMaxAge sets Cache-Control on public reads (0 = no header).
	PublicMaxAge time.Duration
}

// Routes returns the /api/v1 router.
func (h *Handler) Routes(opts RouteOptions) chi.Router {
	r := chi.NewRouter()

	// Public read model
	r.Group(func(r chi.Router) {
		if opts.PublicMaxAge > 0 {
			r.Use(middleware.PublicCache(opts.PublicMaxAge))
		}

		r.Get("/navigation", h.Navigation)
		r.Get("/navigation/by_location", h.Navigation)
		r.Get("/navigation/all", h.AllNavigation)

		r.Get("/settings", h.Settings)
		r.Get("/settings/by_category", h.SettingsByCategory)

		r.Get("/media", h.Media)
		r.Get("/media/logos", h.Logos)

		r.Get("/config", h.Config)
		r.Get("/config/compact", h.CompactConfig)
	})

	// Admin API
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore())
		r.Use(middleware.AdminKeyAuth(opts.AdminKey))

		r.Get("/settings/admin", h.AdminSettings)
		r.Put("/settings/admin/{key}", h.UpsertSetting)

		r.Post("/navigation/items", h.CreateMenuItem)
		r.Patch("/navigation/items/{id}/parent", h.MoveMenuItem)

		r.Post("/media", h.RegisterMedia)

		r.Get("/events", h.Events)

		r.Get("/cache/stats", h.CacheStats)
		r.Delete("/cache", h.ClearCache)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
