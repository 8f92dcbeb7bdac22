// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/olegiv/navcms/internal/model"
)

const settingColumns = `id, key, value, type, category, description, is_public, created_at, updated_at`

func scanSetting(row rowScanner) (model.Setting, error) {
	var s model.Setting
	err := row.Scan(
		&s.ID,
		&s.Key,
		&s.Value,
		&s.Type,
		&s.Category,
		&s.Description,
		&s.IsPublic,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func collectSettings(rows *sql.Rows) ([]model.Setting, error) {
	defer rows.Close()

	var items []model.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertSetting = `-- name: UpsertSetting :one
INSERT INTO site_settings (key, value, type, category, description, is_public, created_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?7)
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    type = excluded.type,
    category = excluded.category,
    description = excluded.description,
    is_public = excluded.is_public,
    updated_at = excluded.updated_at
RETURNING ` + settingColumns

// UpsertSettingParams holds the columns of a setting keyed by Key.
type UpsertSettingParams struct {
	Key         string
	Value       string
	Type        string
	Category    string
	Description string
	IsPublic    bool
	Now         time.Time
}

// UpsertSetting inserts a setting or replaces the one with the same key.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (model.Setting, error) {
	row := q.db.QueryRowContext(ctx, upsertSetting,
		arg.Key,
		arg.Value,
		arg.Type,
		arg.Category,
		arg.Description,
		arg.IsPublic,
		arg.Now,
	)
	return scanSetting(row)
}

const createSettingIfMissing = `-- name: CreateSettingIfMissing :exec
INSERT INTO site_settings (key, value, type, category, description, is_public, created_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?7)
ON CONFLICT (key) DO NOTHING`

// CreateSettingIfMissing inserts a setting unless the key already exists.
func (q *Queries) CreateSettingIfMissing(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, createSettingIfMissing,
		arg.Key,
		arg.Value,
		arg.Type,
		arg.Category,
		arg.Description,
		arg.IsPublic,
		arg.Now,
	)
	return err
}

const getSettingByKey = `-- name: GetSettingByKey :one
SELECT ` + settingColumns + ` FROM site_settings WHERE key = ?`

func (q *Queries) GetSettingByKey(ctx context.Context, key string) (model.Setting, error) {
	return scanSetting(q.db.QueryRowContext(ctx, getSettingByKey, key))
}

const listSettings = `-- name: ListSettings :many
SELECT ` + settingColumns + ` FROM site_settings
ORDER BY category, key`

// ListSettings returns every setting, public or not.
func (q *Queries) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx, listSettings)
	if err != nil {
		return nil, err
	}
	return collectSettings(rows)
}

const listPublicSettings = `-- name: ListPublicSettings :many
SELECT ` + settingColumns + ` FROM site_settings
WHERE is_public = 1
ORDER BY category, key`

func (q *Queries) ListPublicSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx, listPublicSettings)
	if err != nil {
		return nil, err
	}
	return collectSettings(rows)
}

const listPublicSettingsByCategories = `-- name: ListPublicSettingsByCategories :many
SELECT ` + settingColumns + ` FROM site_settings
WHERE is_public = 1 AND category IN (/*SLICE:categories*/?)
ORDER BY category, key`

// ListPublicSettingsByCategories returns the public settings of the given
// categories. An empty list yields no rows.
func (q *Queries) ListPublicSettingsByCategories(ctx context.Context, categories []string) ([]model.Setting, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	args := make([]any, len(categories))
	for i, c := range categories {
		args[i] = c
	}
	query := strings.Replace(listPublicSettingsByCategories, "/*SLICE:categories*/?",
		strings.Repeat(",?", len(categories))[1:], 1)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSettings(rows)
}

const countSettings = `-- name: CountSettings :one
SELECT COUNT(*) FROM site_settings`

func (q *Queries) CountSettings(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countSettings).Scan(&n)
	return n, err
}
