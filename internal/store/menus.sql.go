// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/navcms/internal/model"
)

const menuColumns = `id, name, location, description, is_active, created_at, updated_at`

func scanMenu(row rowScanner) (model.Menu, error) {
	var m model.Menu
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Location,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

const createMenu = `-- name: CreateMenu :one
INSERT INTO menus (name, location, description, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + menuColumns

// CreateMenuParams holds the columns of a new menu.
type CreateMenuParams struct {
	Name        string
	Location    string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (model.Menu, error) {
	row := q.db.QueryRowContext(ctx, createMenu,
		arg.Name,
		arg.Location,
		arg.Description,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMenu(row)
}

const getMenuByID = `-- name: GetMenuByID :one
SELECT ` + menuColumns + ` FROM menus WHERE id = ?`

func (q *Queries) GetMenuByID(ctx context.Context, id int64) (model.Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByID, id))
}

const getMenuByName = `-- name: GetMenuByName :one
SELECT ` + menuColumns + ` FROM menus WHERE name = ?`

func (q *Queries) GetMenuByName(ctx context.Context, name string) (model.Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByName, name))
}

const getActiveMenuByLocation = `-- name: GetActiveMenuByLocation :one
SELECT ` + menuColumns + ` FROM menus
WHERE location = ? AND is_active = 1
ORDER BY name, id
LIMIT 1`

// GetActiveMenuByLocation returns the first active menu at a location in
// (location, name) order.
func (q *Queries) GetActiveMenuByLocation(ctx context.Context, location string) (model.Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getActiveMenuByLocation, location))
}

const listActiveMenus = `-- name: ListActiveMenus :many
SELECT ` + menuColumns + ` FROM menus
WHERE is_active = 1
ORDER BY location, name`

func (q *Queries) ListActiveMenus(ctx context.Context) ([]model.Menu, error) {
	rows, err := q.db.QueryContext(ctx, listActiveMenus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
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

const countMenus = `-- name: CountMenus :one
SELECT COUNT(*) FROM menus`

func (q *Queries) CountMenus(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countMenus).Scan(&n)
	return n, err
}

const menuItemColumns = `id, menu_id, parent_id, title, url, icon, order_index, is_external,
    is_active, requires_auth, badge_text, badge_color, description, created_at, updated_at`

func scanMenuItem(row rowScanner) (model.MenuItem, error) {
	var i model.MenuItem
	err := row.Scan(
		&i.ID,
		&i.MenuID,
		&i.ParentID,
		&i.Title,
		&i.URL,
		&i.Icon,
		&i.OrderIndex,
		&i.IsExternal,
		&i.IsActive,
		&i.RequiresAuth,
		&i.BadgeText,
		&i.BadgeColor,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectMenuItems(rows *sql.Rows) ([]model.MenuItem, error) {
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (
    menu_id, parent_id, title, url, icon, order_index, is_external, is_active,
    requires_auth, badge_text, badge_color, description, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + menuItemColumns

// CreateMenuItemParams holds the columns of a new menu item.
type CreateMenuItemParams struct {
	MenuID       sql.NullInt64
	ParentID     sql.NullInt64
	Title        string
	URL          string
	Icon         string
	OrderIndex   int
	IsExternal   bool
	IsActive     bool
	RequiresAuth bool
	BadgeText    string
	BadgeColor   string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx, createMenuItem,
		arg.MenuID,
		arg.ParentID,
		arg.Title,
		arg.URL,
		arg.Icon,
		arg.OrderIndex,
		arg.IsExternal,
		arg.IsActive,
		arg.RequiresAuth,
		arg.BadgeText,
		arg.BadgeColor,
		arg.Description,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMenuItem(row)
}

const getMenuItem = `-- name: GetMenuItem :one
SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, getMenuItem, id))
}

const listMenuItemsByMenu = `-- name: ListMenuItemsByMenu :many
SELECT ` + menuItemColumns + ` FROM menu_items
WHERE menu_id = ?
ORDER BY order_index, title`

// ListMenuItemsByMenu returns every item of a menu, active or not.
func (q *Queries) ListMenuItemsByMenu(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItemsByMenu, menuID)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

const listAllMenuItems = `-- name: ListAllMenuItems :many
SELECT ` + menuItemColumns + ` FROM menu_items
ORDER BY order_index, title`

func (q *Queries) ListAllMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, listAllMenuItems)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

const updateMenuItemParent = `-- name: UpdateMenuItemParent :one
UPDATE menu_items
SET parent_id = ?, updated_at = ?
WHERE id = ?
RETURNING ` + menuItemColumns

// UpdateMenuItemParentParams moves an item under another parent.
type UpdateMenuItemParentParams struct {
	ID        int64
	ParentID  sql.NullInt64
	UpdatedAt time.Time
}

func (q *Queries) UpdateMenuItemParent(ctx context.Context, arg UpdateMenuItemParentParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx, updateMenuItemParent, arg.ParentID, arg.UpdatedAt, arg.ID)
	return scanMenuItem(row)
}
