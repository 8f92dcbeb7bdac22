// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// Config handles GET /config?location=<loc> (also nav_location).
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	location := queryParam(r, "location", "nav_location")
	h.serveCached(w, r, "build config", func() ([]byte, error) {
		return h.config.Config(r.Context(), location)
	})
}

// CompactConfig handles GET /config/compact.
func (h *Handler) CompactConfig(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "build config", func() ([]byte, error) {
		return h.config.Compact(r.Context())
	})
}
