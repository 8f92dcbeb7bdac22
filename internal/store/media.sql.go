// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/navcms/internal/model"
)

const mediaColumns = `id, uuid, name, file_path, file_type, mime_type, alt_text, caption,
    width, height, category, tags, uploaded_by, uploaded_at, file_size`

func scanMediaFile(row rowScanner) (model.MediaFile, error) {
	var m model.MediaFile
	err := row.Scan(
		&m.ID,
		&m.UUID,
		&m.Name,
		&m.FilePath,
		&m.FileType,
		&m.MimeType,
		&m.AltText,
		&m.Caption,
		&m.Width,
		&m.Height,
		&m.Category,
		&m.Tags,
		&m.UploadedBy,
		&m.UploadedAt,
		&m.FileSize,
	)
	return m, err
}

func collectMediaFiles(rows *sql.Rows) ([]model.MediaFile, error) {
	defer rows.Close()

	var items []model.MediaFile
	for rows.Next() {
		m, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createMediaFile = `-- name: CreateMediaFile :one
INSERT INTO media_files (
    uuid, name, file_path, file_type, mime_type, alt_text, caption,
    width, height, category, tags, uploaded_by, uploaded_at, file_size
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediaColumns

// CreateMediaFileParams holds the columns of a new media record.
type CreateMediaFileParams struct {
	UUID       string
	Name       string
	FilePath   string
	FileType   string
	MimeType   string
	AltText    string
	Caption    string
	Width      sql.NullInt64
	Height     sql.NullInt64
	Category   string
	Tags       string
	UploadedBy sql.NullInt64
	UploadedAt time.Time
	FileSize   int64
}

func (q *Queries) CreateMediaFile(ctx context.Context, arg CreateMediaFileParams) (model.MediaFile, error) {
	row := q.db.QueryRowContext(ctx, createMediaFile,
		arg.UUID,
		arg.Name,
		arg.FilePath,
		arg.FileType,
		arg.MimeType,
		arg.AltText,
		arg.Caption,
		arg.Width,
		arg.Height,
		arg.Category,
		arg.Tags,
		arg.UploadedBy,
		arg.UploadedAt,
		arg.FileSize,
	)
	return scanMediaFile(row)
}

const getMediaFile = `-- name: GetMediaFile :one
SELECT ` + mediaColumns + ` FROM media_files WHERE id = ?`

func (q *Queries) GetMediaFile(ctx context.Context, id int64) (model.MediaFile, error) {
	return scanMediaFile(q.db.QueryRowContext(ctx, getMediaFile, id))
}

const listMediaFiles = `-- name: ListMediaFiles :many
SELECT ` + mediaColumns + ` FROM media_files
WHERE (?1 = '' OR file_type = ?1)
  AND (?2 = '' OR category = ?2)
ORDER BY uploaded_at DESC, id DESC`

// ListMediaFilesParams filters a media listing. Empty fields match everything.
type ListMediaFilesParams struct {
	FileType string
	Category string
}

// ListMediaFiles returns media records newest first.
func (q *Queries) ListMediaFiles(ctx context.Context, arg ListMediaFilesParams) ([]model.MediaFile, error) {
	rows, err := q.db.QueryContext(ctx, listMediaFiles, arg.FileType, arg.Category)
	if err != nil {
		return nil, err
	}
	return collectMediaFiles(rows)
}

const getLatestMediaFileByType = `-- name: GetLatestMediaFileByType :one
SELECT ` + mediaColumns + ` FROM media_files
WHERE file_type = ?
ORDER BY uploaded_at DESC, id DESC
LIMIT 1`

func (q *Queries) GetLatestMediaFileByType(ctx context.Context, fileType string) (model.MediaFile, error) {
	return scanMediaFile(q.db.QueryRowContext(ctx, getLatestMediaFileByType, fileType))
}
