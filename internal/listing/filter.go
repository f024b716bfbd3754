// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"net/url"
	"strings"
)

// All is the selector value that imposes no constraint.
const All = "all"

// SearchParam is the query parameter carrying the free-text search.
const SearchParam = "search"

// FilterState is the search text plus the categorical selectors of one view.
// It is rebuilt for every request and never stored.
type FilterState struct {
	Search    string            `json:"search"`
	Selectors map[string]string `json:"selectors"`
}

// NewFilterState returns an empty filter over the given dimensions.
func NewFilterState(dims ...string) FilterState {
	f := FilterState{Selectors: make(map[string]string, len(dims))}
	for _, d := range dims {
		f.Selectors[d] = All
	}
	return f
}

// FromQuery builds a FilterState from query parameters. Dimensions that are
// missing or empty default to All. The search term is used as typed, so
// surrounding spaces take part in the match.
func FromQuery(q url.Values, dims ...string) FilterState {
	f := NewFilterState(dims...)
	f.Search = q.Get(SearchParam)
	for _, d := range dims {
		if v := strings.TrimSpace(q.Get(d)); v != "" {
			f.Selectors[d] = v
		}
	}
	return f
}

// With returns a copy of f with the dimension set to value.
func (f FilterState) With(dim, value string) FilterState {
	out := f.clone()
	out.Selectors[dim] = value
	return out
}

// WithSearch returns a copy of f with a different search term.
func (f FilterState) WithSearch(search string) FilterState {
	out := f.clone()
	out.Search = search
	return out
}

func (f FilterState) clone() FilterState {
	out := FilterState{Search: f.Search, Selectors: make(map[string]string, len(f.Selectors)+1)}
	for k, v := range f.Selectors {
		out.Selectors[k] = v
	}
	return out
}

// Value returns the selector value for dim, All when unset.
func (f FilterState) Value(dim string) string {
	v, ok := f.Selectors[dim]
	if !ok || v == "" {
		return All
	}
	return v
}

// Active reports whether dim constrains the result.
func (f FilterState) Active(dim string) bool {
	return f.Value(dim) != All
}

// IsEmpty reports whether the filter imposes no constraint at all.
func (f FilterState) IsEmpty() bool {
	if f.Search != "" {
		return false
	}
	for d := range f.Selectors {
		if f.Active(d) {
			return false
		}
	}
	return true
}
