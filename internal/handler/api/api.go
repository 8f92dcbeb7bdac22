// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON read API and the admin write API of navcms.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/menutree"
	"github.com/olegiv/navcms/internal/service"
)

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	nav      *service.NavigationService
	settings *service.SettingsService
	media    *service.MediaService
	config   *service.ConfigService
	events   *service.EventService
	cache    *cache.Manager
	logger   *slog.Logger
}

// Services groups the services served by the API.
type Services struct {
	Navigation *service.NavigationService
	Settings   *service.SettingsService
	Media      *service.MediaService
	Config     *service.ConfigService
	Events     *service.EventService
	Cache      *cache.Manager
}

// NewHandler creates a new API handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		nav:      svc.Navigation,
		settings: svc.Settings,
		media:    svc.Media,
		config:   svc.Config,
		events:   svc.Events,
		cache:    svc.Cache,
		logger:   logger,
	}
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteCached writes a cached JSON payload as it was stored.
func WriteCached(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeServiceError maps a service error to its HTTP status.
// Unexpected errors are logged and answered with a generic message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: inputErr.Fields})
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, menutree.ErrCycle),
		errors.Is(err, menutree.ErrCrossMenuParent),
		errors.Is(err, menutree.ErrParentNotFound):
		h.logger.Warn("menu item parent rejected", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("failed to "+action, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// serveCached writes the payload returned by fn, or the mapped error.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, action string, fn func() ([]byte, error)) {
	payload, err := fn()
	if err != nil {
		h.writeServiceError(w, r, err, action)
		return
	}
	WriteCached(w, payload)
}

// decodeBody decodes a size-limited JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			msg = "request body too large"
		case errors.Is(err, io.EOF):
			msg = "request body is empty"
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			msg = err.Error()
		}
		WriteError(w, http.StatusBadRequest, msg)
		return false
	}
	if dec.More() {
		WriteError(w, http.StatusBadRequest, "request body must hold a single JSON object")
		return false
	}
	return true
}

// parseIDParam parses a positive integer URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryParam returns the first non-empty query parameter among names.
func queryParam(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, name := range names {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
