// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/menutree"
	"github.com/olegiv/navcms/internal/model"
	"github.com/olegiv/navcms/internal/store"
)

// MenuTree is the API projection of a menu with its assembled items.
type MenuTree struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Location        string          `json:"location"`
	LocationDisplay string          `json:"location_display"`
	Description     string          `json:"description"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []menutree.Node `json:"items"`
}

// EmptyNavigation is served when no active menu exists at a location.
// The config aggregate omits the location.
type EmptyNavigation struct {
	Location string          `json:"location,omitempty"`
	Items    []menutree.Node `json:"items"`
}

// CreateMenuItemInput is the admin request for a new menu item.
type CreateMenuItemInput struct {
	MenuID       int64  `json:"menu_id" validate:"required,gt=0"`
	ParentID     *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	Title        string `json:"title" validate:"required,max=100"`
	URL          string `json:"url" validate:"required,max=500"`
	Icon         string `json:"icon" validate:"max=50"`
	OrderIndex   int    `json:"order_index" validate:"gte=0"`
	IsExternal   bool   `json:"is_external"`
	IsActive     *bool  `json:"is_active"`
	RequiresAuth bool   `json:"requires_auth"`
	BadgeText    string `json:"badge_text" validate:"max=20"`
	BadgeColor   string `json:"badge_color" validate:"omitempty,hexcolor"`
	Description  string `json:"description" validate:"max=200"`
}

// NavigationService serves menu trees and guards menu item writes.
type NavigationService struct {
	db      *sql.DB
	queries *store.Queries
	cache   *cache.Manager
	events  *EventService
	logger  *slog.Logger

	// writeMu serializes parent-link checks with the writes they guard.
	writeMu sync.Mutex
}

// NewNavigationService creates a new NavigationService. events may be nil.
func NewNavigationService(db *sql.DB, cm *cache.Manager, events *EventService, logger *slog.Logger) *NavigationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationService{
		db:      db,
		queries: store.New(db),
		cache:   cm,
		events:  events,
		logger:  logger,
	}
}

// ByLocation returns the JSON payload of the active menu at location, or of
// an empty navigation when there is none.
func (s *NavigationService) ByLocation(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		location = model.DefaultLocation
	}
	empty := EmptyNavigation{Location: location, Items: []menutree.Node{}}
	return s.cache.GetOrCompute(ctx, cache.NavigationKey(location), s.cache.TTL.Navigation, func(ctx context.Context) (any, error) {
		// No menu can exist at an unknown location.
		if !model.IsValidLocation(location) {
			return cache.Uncached(empty), nil
		}
		tree, ok, err := s.Tree(ctx, location)
		if err != nil {
			return nil, err
		}
		if !ok {
			return empty, nil
		}
		return tree, nil
	})
}

// All returns the JSON payload mapping each location to its active menus.
func (s *NavigationService) All(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrCompute(ctx, cache.KeyNavigationAll, s.cache.TTL.Navigation, func(ctx context.Context) (any, error) {
		return s.allTrees(ctx)
	})
}

// Tree assembles the active menu at location. ok is false when the location
// has no active menu.
func (s *NavigationService) Tree(ctx context.Context, location string) (tree MenuTree, ok bool, err error) {
	menu, arena, ok, err := s.loadMenu(ctx, location)
	if err != nil || !ok {
		return MenuTree{}, ok, err
	}
	return projectMenu(menu, arena), true, nil
}

// Roots returns the active menu at location and its active root items only.
func (s *NavigationService) Roots(ctx context.Context, location string) (model.Menu, []model.MenuItem, bool, error) {
	menu, arena, ok, err := s.loadMenu(ctx, location)
	if err != nil || !ok {
		return model.Menu{}, nil, ok, err
	}
	return menu, arena.Roots(menu.ID), true, nil
}

func (s *NavigationService) loadMenu(ctx context.Context, location string) (model.Menu, *menutree.Arena, bool, error) {
	menu, err := s.queries.GetActiveMenuByLocation(ctx, location)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Menu{}, nil, false, nil
	}
	if err != nil {
		return model.Menu{}, nil, false, fmt.Errorf("loading menu at %s: %w", location, err)
	}

	items, err := s.queries.ListMenuItemsByMenu(ctx, menu.ID)
	if err != nil {
		return model.Menu{}, nil, false, fmt.Errorf("loading items of menu %d: %w", menu.ID, err)
	}
	return menu, menutree.New(items), true, nil
}

func (s *NavigationService) allTrees(ctx context.Context) (map[string][]MenuTree, error) {
	menus, err := s.queries.ListActiveMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	items, err := s.queries.ListAllMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}

	arena := menutree.New(items)
	result := make(map[string][]MenuTree)
	for _, m := range menus {
		result[m.Location] = append(result[m.Location], projectMenu(m, arena))
	}
	return result, nil
}

func projectMenu(m model.Menu, arena *menutree.Arena) MenuTree {
	return MenuTree{
		ID:              m.ID,
		Name:            m.Name,
		Location:        m.Location,
		LocationDisplay: m.LocationDisplay(),
		Description:     m.Description,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		Items:           arena.Assemble(m.ID),
	}
}

// CreateItem adds a menu item after checking its parent link, then drops
// the cached navigation.
func (s *NavigationService) CreateItem(ctx context.Context, in CreateMenuItemInput) (model.MenuItem, error) {
	if err := validateInput(in); err != nil {
		return model.MenuItem{}, err
	}

	params := store.CreateMenuItemParams{
		MenuID:       sql.NullInt64{Int64: in.MenuID, Valid: true},
		Title:        sanitizeText(in.Title),
		URL:          in.URL,
		Icon:         in.Icon,
		OrderIndex:   in.OrderIndex,
		IsExternal:   in.IsExternal,
		IsActive:     in.IsActive == nil || *in.IsActive,
		RequiresAuth: in.RequiresAuth,
		BadgeText:    sanitizeText(in.BadgeText),
		BadgeColor:   in.BadgeColor,
		Description:  sanitizeText(in.Description),
	}
	if params.Title == "" {
		return model.MenuItem{}, fieldError("title", "is required")
	}
	if params.BadgeColor == "" {
		params.BadgeColor = model.DefaultBadgeColor
	}

	var created model.MenuItem
	err := s.withItemTx(ctx, func(q *store.Queries, arena *menutree.Arena) error {
		if _, err := q.GetMenuByID(ctx, in.MenuID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("menu %d: %w", in.MenuID, ErrNotFound)
			}
			return err
		}
		if in.ParentID != nil {
			item := model.MenuItem{MenuID: params.MenuID}
			if err := arena.ValidateParent(item, *in.ParentID); err != nil {
				return err
			}
			params.ParentID = sql.NullInt64{Int64: *in.ParentID, Valid: true}
		}

		now := time.Now().UTC()
		params.CreatedAt, params.UpdatedAt = now, now

		var err error
		created, err = q.CreateMenuItem(ctx, params)
		return err
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	s.cache.InvalidateNavigation(ctx)
	s.events.audit(ctx, model.EventCategoryNavigation, "Menu item created", map[string]any{
		"item_id": created.ID,
		"menu_id": in.MenuID,
		"title":   created.Title,
	})
	return created, nil
}

// MoveItem places an item under parentID, or at the root when parentID is
// nil, then drops the cached navigation.
func (s *NavigationService) MoveItem(ctx context.Context, id int64, parentID *int64) (model.MenuItem, error) {
	var moved model.MenuItem
	err := s.withItemTx(ctx, func(q *store.Queries, arena *menutree.Arena) error {
		item, ok := arena.Item(id)
		if !ok {
			return fmt.Errorf("menu item %d: %w", id, ErrNotFound)
		}

		parent := sql.NullInt64{}
		if parentID != nil {
			if err := arena.ValidateParent(item, *parentID); err != nil {
				return err
			}
			parent = sql.NullInt64{Int64: *parentID, Valid: true}
		}

		var err error
		moved, err = q.UpdateMenuItemParent(ctx, store.UpdateMenuItemParentParams{
			ID:        id,
			ParentID:  parent,
			UpdatedAt: time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	s.cache.InvalidateNavigation(ctx)
	s.events.audit(ctx, model.EventCategoryNavigation, "Menu item moved", map[string]any{
		"item_id":   id,
		"parent_id": parentID,
	})
	return moved, nil
}

// withItemTx runs fn in a transaction with an arena over every menu item.
// Cross-menu links can only be detected against the full record set.
func (s *NavigationService) withItemTx(ctx context.Context, fn func(*store.Queries, *menutree.Arena) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := s.queries.WithTx(tx)
	items, err := q.ListAllMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("listing menu items: %w", err)
	}
	if err := fn(q, menutree.New(items)); err != nil {
		return err
	}
	return tx.Commit()
}
