// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/store"
)

// DefaultEventLimit is the number of events returned when no limit is given.
const DefaultEventLimit = 50

// MaxEventLimit caps a single event listing.
const MaxEventLimit = 500

// EventEntry is the API projection of an event log row.
type EventEntry struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventService records administrative actions in the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, metadata)
}

// Recent returns the newest events first. Limits outside (0, MaxEventLimit]
// fall back to DefaultEventLimit or are capped.
func (s *EventService) Recent(ctx context.Context, limit int) ([]EventEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultEventLimit
	case limit > MaxEventLimit:
		limit = MaxEventLimit
	}

	events, err := s.queries.ListRecentEvents(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]EventEntry, 0, len(events))
	for _, e := range events {
		meta := json.RawMessage(e.Metadata)
		if !json.Valid(meta) {
			meta = json.RawMessage("{}")
		}
		out = append(out, EventEntry{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  meta,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

// audit records an info event and ignores failures; the write it describes
// has already been committed.
func (s *EventService) audit(ctx context.Context, category, message string, metadata map[string]any) {
	if s == nil {
		return
	}
	_ = s.LogInfo(ctx, category, message, metadata)
}
