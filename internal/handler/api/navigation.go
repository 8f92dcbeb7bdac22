// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/service"
)

// MenuItemResponse is the admin view of a stored menu item.
type MenuItemResponse struct {
	ID           int64     `json:"id"`
	MenuID       *int64    `json:"menu_id"`
	ParentID     *int64    `json:"parent_id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	FullURL      string    `json:"full_url"`
	Icon         string    `json:"icon"`
	OrderIndex   int       `json:"order_index"`
	IsExternal   bool      `json:"is_external"`
	IsActive     bool      `json:"is_active"`
	RequiresAuth bool      `json:"requires_auth"`
	BadgeText    string    `json:"badge_text"`
	BadgeColor   string    `json:"badge_color"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func menuItemResponse(it model.MenuItem) MenuItemResponse {
	resp := MenuItemResponse{
		ID:           it.ID,
		Title:        it.Title,
		URL:          it.URL,
		FullURL:      it.FullURL(),
		Icon:         it.Icon,
		OrderIndex:   it.OrderIndex,
		IsExternal:   it.IsExternal,
		IsActive:     it.IsActive,
		RequiresAuth: it.RequiresAuth,
		BadgeText:    it.BadgeText,
		BadgeColor:   it.BadgeColor,
		Description:  it.Description,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if it.MenuID.Valid {
		resp.MenuID = &it.MenuID.Int64
	}
	if it.ParentID.Valid {
		resp.ParentID = &it.ParentID.Int64
	}
	return resp
}

// MoveMenuItemRequest is the body of a parent change; a null parent_id moves
// the item to the root.
type MoveMenuItemRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// Navigation handles GET /navigation?location=<loc>.
// Unknown or menu-less locations answer with an empty item list.
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	location := queryParam(r, "location")
	h.serveCached(w, r, "load navigation", func() ([]byte, error) {
		return h.nav.ByLocation(r.Context(), location)
	})
}

// AllNavigation handles GET /navigation/all.
func (h *Handler) AllNavigation(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "load navigation", func() ([]byte, error) {
		return h.nav.All(r.Context())
	})
}

// CreateMenuItem handles POST /navigation/items.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMenuItemInput
	if !decodeBody(w, r, &in) {
		return
	}

	item, err := h.nav.CreateItem(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "create menu item")
		return
	}
	WriteJSON(w, http.StatusCreated, menuItemResponse(item))
}

// MoveMenuItem handles PATCH /navigation/items/{id}/parent.
func (h *Handler) MoveMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req MoveMenuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ParentID != nil && *req.ParentID <= 0 {
		WriteError(w, http.StatusBadRequest, "parent_id must be positive")
		return
	}

	item, err := h.nav.MoveItem(r.Context(), id, req.ParentID)
	if err != nil {
		h.writeServiceError(w, r, err, "move menu item")
		return
	}
	WriteJSON(w, http.StatusOK, menuItemResponse(item))
}
