// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/imaging"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/store"
)

// DefaultMediaCategory is assigned to media registered without a category.
const DefaultMediaCategory = "general"

// MediaDescriptor is the API projection of a media file.
type MediaDescriptor struct {
	ID              int64     `json:"id"`
	UUID            string    `json:"uuid"`
	Name            string    `json:"name"`
	FileURL         string    `json:"file_url"`
	FileType        string    `json:"file_type"`
	FileTypeDisplay string    `json:"file_type_display"`
	MimeType        string    `json:"mime_type"`
	AltText         string    `json:"alt_text"`
	Caption         string    `json:"caption"`
	Width           *int64    `json:"width"`
	Height          *int64    `json:"height"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
	UploadedAt      time.Time `json:"uploaded_at"`
	FileSize        int64     `json:"file_size"`
	FileExtension   string    `json:"file_extension"`
}

// LogoDescriptor is the minimal logo projection embedded in the config.
type LogoDescriptor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	FileURL string `json:"file_url"`
	Width   *int64 `json:"width"`
	Height  *int64 `json:"height"`
	AltText string `json:"alt_text"`
}

// RegisterMediaInput is the admin request to register a stored file.
// FilePath is relative to the uploads directory.
type RegisterMediaInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	FilePath   string `json:"file_path" validate:"required,max=500"`
	FileType   string `json:"file_type" validate:"required,oneof=logo favicon banner icon document other"`
	AltText    string `json:"alt_text" validate:"max=255"`
	Caption    string `json:"caption" validate:"max=1000"`
	Category   string `json:"category" validate:"max=50"`
	Tags       string `json:"tags" validate:"max=500"`
	UploadedBy *int64 `json:"uploaded_by" validate:"omitempty,gt=0"`
}

// MediaService serves media descriptors and registers stored files.
type MediaService struct {
	queries *store.Queries
	cache   *cache.Manager
	prober  *imaging.Prober
	events  *EventService
	baseURL string
	logger  *slog.Logger
}

// NewMediaService creates a new MediaService. File URLs are built by
// joining baseURL and the stored file path. events may be nil.
func NewMediaService(db *sql.DB, cm *cache.Manager, prober *imaging.Prober, events *EventService, baseURL string, logger *slog.Logger) *MediaService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaService{
		queries: store.New(db),
		cache:   cm,
		prober:  prober,
		events:  events,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// FileURL returns the absolute URL of a stored file.
func (s *MediaService) FileURL(filePath string) string {
	return s.baseURL + "/" + strings.TrimLeft(filePath, "/")
}

// List returns the JSON payload of media descriptors, newest first.
// Empty filters match everything. Categories are free text, so an empty
// listing for a category filter is not cached.
func (s *MediaService) List(ctx context.Context, fileType, category string) ([]byte, error) {
	return s.cache.GetOrCompute(ctx, cache.MediaListKey(fileType, category), s.cache.TTL.Media, func(ctx context.Context) (any, error) {
		out, err := s.descriptors(ctx, fileType, category)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 && category != "" {
			return cache.Uncached(out), nil
		}
		return out, nil
	})
}

// Logos returns the JSON payload of logo descriptors, newest first.
func (s *MediaService) Logos(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrCompute(ctx, cache.KeyMediaLogos, s.cache.TTL.Media, func(ctx context.Context) (any, error) {
		return s.descriptors(ctx, model.MediaTypeLogo, "")
	})
}

// Logo returns the most recently uploaded logo, or nil when there is none.
func (s *MediaService) Logo(ctx context.Context) (*LogoDescriptor, error) {
	m, err := s.queries.GetLatestMediaFileByType(ctx, model.MediaTypeLogo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading logo: %w", err)
	}
	return &LogoDescriptor{
		ID:      m.ID,
		Name:    m.Name,
		FileURL: s.FileURL(m.FilePath),
		Width:   nullableInt(m.Width),
		Height:  nullableInt(m.Height),
		AltText: m.AltText,
	}, nil
}

func (s *MediaService) descriptors(ctx context.Context, fileType, category string) ([]MediaDescriptor, error) {
	files, err := s.queries.ListMediaFiles(ctx, store.ListMediaFilesParams{
		FileType: fileType,
		Category: category,
	})
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}

	out := make([]MediaDescriptor, 0, len(files))
	for _, f := range files {
		out = append(out, s.Describe(f))
	}
	return out, nil
}

// Describe projects a media record.
func (s *MediaService) Describe(m model.MediaFile) MediaDescriptor {
	return MediaDescriptor{
		ID:              m.ID,
		UUID:            m.UUID,
		Name:            m.Name,
		FileURL:         s.FileURL(m.FilePath),
		FileType:        m.FileType,
		FileTypeDisplay: m.TypeDisplay(),
		MimeType:        m.MimeType,
		AltText:         m.AltText,
		Caption:         m.Caption,
		Width:           nullableInt(m.Width),
		Height:          nullableInt(m.Height),
		Category:        m.Category,
		Tags:            m.TagList(),
		UploadedAt:      m.UploadedAt,
		FileSize:        m.FileSize,
		FileExtension:   m.Extension(),
	}
}

// Register records a file already present in the uploads directory. Size,
// MIME type and dimensions are read from the file; a missing file is
// recorded with size 0.
func (s *MediaService) Register(ctx context.Context, in RegisterMediaInput) (MediaDescriptor, error) {
	if err := validateInput(in); err != nil {
		return MediaDescriptor{}, err
	}

	filePath := path.Clean(strings.ReplaceAll(strings.TrimSpace(in.FilePath), "\\", "/"))
	info, err := s.prober.Probe(filePath)
	if errors.Is(err, imaging.ErrUnsafePath) {
		return MediaDescriptor{}, fieldError("file_path", "must stay inside the uploads directory")
	}
	if err != nil {
		return MediaDescriptor{}, fmt.Errorf("probing %s: %w", filePath, err)
	}
	if !info.Exists {
		s.logger.Warn("registering media without a stored file", "category", model.EventCategoryMedia, "path", filePath)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultMediaCategory
	}

	params := store.CreateMediaFileParams{
		UUID:       uuid.New().String(),
		Name:       sanitizeText(in.Name),
		FilePath:   filePath,
		FileType:   in.FileType,
		MimeType:   info.MimeType,
		AltText:    sanitizeText(in.AltText),
		Caption:    sanitizeText(in.Caption),
		Category:   category,
		Tags:       in.Tags,
		UploadedAt: time.Now().UTC(),
		FileSize:   info.Size,
	}
	if info.HasDimensions() {
		params.Width = sql.NullInt64{Int64: int64(info.Width), Valid: true}
		params.Height = sql.NullInt64{Int64: int64(info.Height), Valid: true}
	}
	if in.UploadedBy != nil {
		params.UploadedBy = sql.NullInt64{Int64: *in.UploadedBy, Valid: true}
	}

	created, err := s.queries.CreateMediaFile(ctx, params)
	if err != nil {
		return MediaDescriptor{}, fmt.Errorf("saving media: %w", err)
	}

	s.cache.InvalidateMedia(ctx)
	s.events.audit(ctx, model.EventCategoryMedia, "Media file registered", map[string]any{
		"media_id":  created.ID,
		"file_type": created.FileType,
		"file_size": created.FileSize,
	})
	return s.Describe(created), nil
}

func nullableInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
