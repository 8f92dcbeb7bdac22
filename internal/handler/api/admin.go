// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/service"
)

// CacheStatsResponse describes the cache backend.
type CacheStatsResponse struct {
	Backend string      `json:"backend"`
	Stats   cache.Stats `json:"stats"`
}

// Events handles GET /events?limit=<n>.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultEventLimit
	if raw := queryParam(r, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.events.Recent(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err, "list events")
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

// CacheStats handles GET /cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, CacheStatsResponse{
		Backend: h.cache.BackendName,
		Stats:   h.cache.Stats(),
	})
}

// ClearCache handles DELETE /cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearAll(r.Context()); err != nil {
		h.writeServiceError(w, r, err, "clear cache")
		return
	}
	_ = h.events.LogInfo(r.Context(), model.EventCategoryCache, "Cache cleared", map[string]any{
		"backend": h.cache.BackendName,
	})
	w.WriteHeader(http.StatusNoContent)
}
