// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menutree assembles flat menu item records into nested trees.
//
// Items are held in an arena and linked by slice index, so assembly is a
// pure function of the record set. Parent links are checked when they are
// written (ValidateParent) and when a record set is loaded (Validate).
package menutree

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/olegiv/navcms/internal/model"
)

// Sentinel errors returned by the parent-link guards.
var (
	ErrCycle           = errors.New("menu item parent link would create a cycle")
	ErrCrossMenuParent = errors.New("menu item parent belongs to a different menu")
	ErrParentNotFound  = errors.New("menu item parent not found")
)

// Node is one assembled menu item with its active children.
type Node struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	FullURL      string `json:"full_url"`
	Icon         string `json:"icon"`
	IsExternal   bool   `json:"is_external"`
	IsActive     bool   `json:"is_active"`
	BadgeText    string `json:"badge_text"`
	BadgeColor   string `json:"badge_color"`
	RequiresAuth bool   `json:"requires_auth"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index"`
	HasChildren  bool   `json:"has_children"`
	Children     []Node `json:"children"`
}

// Arena indexes a set of menu item records.
type Arena struct {
	items    []model.MenuItem
	index    map[int64]int   // item ID -> position in items
	children map[int64][]int // parent ID -> positions of its children, sorted
}

// New builds an arena over items. The slice is copied.
func New(items []model.MenuItem) *Arena {
	a := &Arena{
		items:    slices.Clone(items),
		index:    make(map[int64]int, len(items)),
		children: make(map[int64][]int),
	}

	for i, it := range a.items {
		a.index[it.ID] = i
		if it.ParentID.Valid {
			a.children[it.ParentID.Int64] = append(a.children[it.ParentID.Int64], i)
		}
	}
	for _, kids := range a.children {
		a.sortPositions(kids)
	}

	return a
}

// Len returns the number of records in the arena.
func (a *Arena) Len() int { return len(a.items) }

// Item returns the record with the given ID.
func (a *Arena) Item(id int64) (model.MenuItem, bool) {
	i, ok := a.index[id]
	if !ok {
		return model.MenuItem{}, false
	}
	return a.items[i], true
}

// Assemble returns the active tree of the menu with the given ID.
// Roots are active parentless items of the menu. An inactive item hides its
// whole subtree. Siblings are ordered by (order_index, title).
// The result is never nil.
func (a *Arena) Assemble(menuID int64) []Node {
	var roots []int
	for i, it := range a.items {
		if it.IsActive && it.IsRoot() && it.BelongsTo(menuID) {
			roots = append(roots, i)
		}
	}
	a.sortPositions(roots)

	nodes := make([]Node, 0, len(roots))
	for _, i := range roots {
		nodes = append(nodes, a.build(i, menuID))
	}
	return nodes
}

// Roots returns the active root items of the menu in sibling order, without
// descending into children.
func (a *Arena) Roots(menuID int64) []model.MenuItem {
	var roots []int
	for i, it := range a.items {
		if it.IsActive && it.IsRoot() && it.BelongsTo(menuID) {
			roots = append(roots, i)
		}
	}
	a.sortPositions(roots)

	out := make([]model.MenuItem, 0, len(roots))
	for _, i := range roots {
		out = append(out, a.items[i])
	}
	return out
}

func (a *Arena) build(i int, menuID int64) Node {
	it := a.items[i]
	n := Node{
		ID:           it.ID,
		Title:        it.Title,
		URL:          it.URL,
		FullURL:      it.FullURL(),
		Icon:         it.Icon,
		IsExternal:   it.IsExternal,
		IsActive:     it.IsActive,
		BadgeText:    it.BadgeText,
		BadgeColor:   it.BadgeColor,
		RequiresAuth: it.RequiresAuth,
		Description:  it.Description,
		OrderIndex:   it.OrderIndex,
		Children:     []Node{},
	}

	for _, c := range a.children[it.ID] {
		child := a.items[c]
		if !child.IsActive || !child.BelongsTo(menuID) {
			continue
		}
		n.Children = append(n.Children, a.build(c, menuID))
	}
	n.HasChildren = len(n.Children) > 0

	return n
}

// Descendants returns the IDs of every item below id, active or not.
func (a *Arena) Descendants(id int64) []int64 {
	var out []int64
	seen := map[int64]bool{id: true}
	queue := []int64{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range a.children[cur] {
			cid := a.items[c].ID
			if seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
			queue = append(queue, cid)
		}
	}
	return out
}

// ValidateParent checks that item may be placed under parentID.
// The parent must exist, belong to the same menu, and must not be the item
// itself or one of its descendants.
func (a *Arena) ValidateParent(item model.MenuItem, parentID int64) error {
	parent, ok := a.Item(parentID)
	if !ok {
		return fmt.Errorf("parent %d: %w", parentID, ErrParentNotFound)
	}
	if parent.MenuID != item.MenuID {
		return fmt.Errorf("item %d under parent %d: %w", item.ID, parentID, ErrCrossMenuParent)
	}
	if item.ID != 0 {
		if parentID == item.ID || slices.Contains(a.Descendants(item.ID), parentID) {
			return fmt.Errorf("item %d under parent %d: %w", item.ID, parentID, ErrCycle)
		}
	}
	return nil
}

// ValidateParent is a convenience wrapper that builds an arena over items.
func ValidateParent(items []model.MenuItem, item model.MenuItem, parentID int64) error {
	return New(items).ValidateParent(item, parentID)
}

// Validate checks a whole record set and returns the first broken parent
// link found: a missing parent, a cross-menu parent, or a cycle.
func Validate(items []model.MenuItem) error {
	a := New(items)

	for _, it := range a.items {
		if !it.ParentID.Valid {
			continue
		}
		parent, ok := a.Item(it.ParentID.Int64)
		if !ok {
			return fmt.Errorf("item %d: parent %d: %w", it.ID, it.ParentID.Int64, ErrParentNotFound)
		}
		if parent.MenuID != it.MenuID {
			return fmt.Errorf("item %d under parent %d: %w", it.ID, parent.ID, ErrCrossMenuParent)
		}
	}

	// Walk every parent chain once; a chain that revisits an item on the
	// current path is a cycle.
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[int64]int, len(a.items))
	for _, start := range a.items {
		if state[start.ID] != unvisited {
			continue
		}
		var path []int64
		cur := start
		for {
			if state[cur.ID] == onPath {
				return fmt.Errorf("item %d: %w", cur.ID, ErrCycle)
			}
			if state[cur.ID] == done {
				break
			}
			state[cur.ID] = onPath
			path = append(path, cur.ID)
			if !cur.ParentID.Valid {
				break
			}
			cur, _ = a.Item(cur.ParentID.Int64)
		}
		for _, id := range path {
			state[id] = done
		}
	}

	return nil
}

func (a *Arena) sortPositions(pos []int) {
	slices.SortFunc(pos, func(x, y int) int {
		ix, iy := a.items[x], a.items[y]
		return cmp.Or(
			cmp.Compare(ix.OrderIndex, iy.OrderIndex),
			cmp.Compare(ix.Title, iy.Title),
			cmp.Compare(ix.ID, iy.ID),
		)
	})
}
