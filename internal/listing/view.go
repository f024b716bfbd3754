// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing implements search-and-filter over immutable record
// collections. A View combines free-text search with categorical selectors;
// a record is visible only when every active predicate holds. Summary
// statistics always describe the full collection, never the filtered one.
package listing

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultEmptyMessage is returned when no record matches the filter.
const DefaultEmptyMessage = "No records match your search criteria."

// Dimension is one categorical filter of a view.
type Dimension[T any] struct {
	// Name is the selector key, also used as the query parameter.
	Name string
	// Value extracts the record's value for exact matching.
	Value func(T) string
	// Match, when set, replaces exact matching with a custom predicate.
	Match func(item T, selected string) bool
	// Options, when set, are the selector values offered to clients.
	// Otherwise they are derived from the records through Value.
	Options []string
}

func (d Dimension[T]) matches(item T, selected string) bool {
	if d.Match != nil {
		return d.Match(item, selected)
	}
	return d.Value(item) == selected
}

// Result is the outcome of applying a filter to a view.
type Result[T, S any] struct {
	Items   []T                 `json:"items"`
	Count   int                 `json:"count"`
	Stats   S                   `json:"stats"`
	Empty   bool                `json:"empty"`
	Message string              `json:"message,omitempty"`
	Filters FilterState         `json:"filters"`
	Options map[string][]string `json:"options"`
}

// View is a filterable, immutable collection of records of type T with
// summary statistics of type S.
type View[T, S any] struct {
	name         string
	records      []T
	search       func(T) []string
	dims         []Dimension[T]
	stats        S
	emptyMessage string
}

// Config describes a View.
type Config[T, S any] struct {
	Name string
	// Records is copied; later changes to the slice do not affect the view.
	Records []T
	// SearchFields returns the text fields matched by the search term.
	SearchFields func(T) []string
	Dimensions   []Dimension[T]
	// Stats derives summary statistics from the full collection.
	Stats        func([]T) S
	EmptyMessage string
}

// New builds a View. Statistics are computed once since the records
// never change.
func New[T, S any](cfg Config[T, S]) *View[T, S] {
	records := make([]T, len(cfg.Records))
	copy(records, cfg.Records)

	v := &View[T, S]{
		name:         cfg.Name,
		records:      records,
		search:       cfg.SearchFields,
		dims:         cfg.Dimensions,
		emptyMessage: cfg.EmptyMessage,
	}
	if v.emptyMessage == "" {
		v.emptyMessage = DefaultEmptyMessage
	}
	if cfg.Stats != nil {
		v.stats = cfg.Stats(records)
	}
	return v
}

// Name returns the view name.
func (v *View[T, S]) Name() string {
	return v.name
}

// Records returns a copy of the full collection.
func (v *View[T, S]) Records() []T {
	out := make([]T, len(v.records))
	copy(out, v.records)
	return out
}

// Stats returns the statistics of the full collection.
func (v *View[T, S]) Stats() S {
	return v.stats
}

// DimensionNames returns the selector keys in declaration order.
func (v *View[T, S]) DimensionNames() []string {
	names := make([]string, len(v.dims))
	for i, d := range v.dims {
		names[i] = d.Name
	}
	return names
}

// Apply filters the view's records.
func (v *View[T, S]) Apply(state FilterState) Result[T, S] {
	items := v.Filter(v.records, state)

	res := Result[T, S]{
		Items:   items,
		Count:   len(items),
		Stats:   v.stats,
		Filters: v.normalize(state),
		Options: v.Options(),
	}
	if len(items) == 0 {
		res.Empty = true
		res.Message = v.emptyMessage
	}
	return res
}

// Filter returns the subset of records satisfying state, preserving order.
// The result is never nil.
func (v *View[T, S]) Filter(records []T, state FilterState) []T {
	needle := fold(state.Search)

	out := make([]T, 0, len(records))
	for _, r := range records {
		if v.matchesSearch(r, needle) && v.matchesDimensions(r, state) {
			out = append(out, r)
		}
	}
	return out
}

// Options returns the selectable values of every dimension.
func (v *View[T, S]) Options() map[string][]string {
	opts := make(map[string][]string, len(v.dims))
	for _, d := range v.dims {
		if len(d.Options) > 0 {
			opts[d.Name] = append([]string(nil), d.Options...)
			continue
		}
		if d.Value == nil {
			continue
		}
		seen := make(map[string]bool)
		var values []string
		for _, r := range v.records {
			val := d.Value(r)
			if val == "" || seen[val] {
				continue
			}
			seen[val] = true
			values = append(values, val)
		}
		opts[d.Name] = values
	}
	return opts
}

func (v *View[T, S]) matchesSearch(r T, needle string) bool {
	if needle == "" || v.search == nil {
		return true
	}
	for _, field := range v.search(r) {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

func (v *View[T, S]) matchesDimensions(r T, state FilterState) bool {
	for _, d := range v.dims {
		if !state.Active(d.Name) {
			continue
		}
		if !d.matches(r, state.Value(d.Name)) {
			return false
		}
	}
	return true
}

// normalize echoes the filter back with every known dimension present.
func (v *View[T, S]) normalize(state FilterState) FilterState {
	out := NewFilterState(v.DimensionNames()...)
	out.Search = state.Search
	for _, d := range v.dims {
		out.Selectors[d.Name] = state.Value(d.Name)
	}
	return out
}

// fold lower-cases s using Unicode case folding. A Caser is stateful, so a
// new one is created per call.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
