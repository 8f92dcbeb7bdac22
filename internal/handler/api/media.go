// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/service"
)

// Media handles GET /media?type=&category=.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	fileType := queryParam(r, "type", "file_type")
	if fileType != "" && !model.IsValidMediaType(fileType) {
		WriteError(w, http.StatusBadRequest, "unknown media type "+fileType)
		return
	}
	category := queryParam(r, "category")

	h.serveCached(w, r, "list media", func() ([]byte, error) {
		return h.media.List(r.Context(), fileType, category)
	})
}

// Logos handles GET /media/logos.
func (h *Handler) Logos(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "list logos", func() ([]byte, error) {
		return h.media.Logos(r.Context())
	})
}

// RegisterMedia handles POST /media for a file already in the uploads dir.
func (h *Handler) RegisterMedia(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterMediaInput
	if !decodeBody(w, r, &in) {
		return
	}

	d, err := h.media.Register(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "register media")
		return
	}
	WriteJSON(w, http.StatusCreated, d)
}
