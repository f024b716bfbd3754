// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"net/url"
	"slices"
	"testing"
)

type item struct {
	ID         string
	Name       string
	Status     string
	Department string
	Experience string
}

type itemStats struct {
	Total  int
	Active int
}

func testItems() []item {
	return []item{
		{"1", "Alpha Manager", "active", "Finance", "2 years"},
		{"2", "Beta Analyst", "paused", "Technology", "5 years"},
		{"3", "Gamma Engineer", "active", "Technology", "9 years"},
		{"4", "Delta Officer", "closed", "Legal", "4 years"},
		{"5", "Épsilon Lead", "active", "Finance", "n/a"},
	}
}

func testView(records []item) *View[item, itemStats] {
	return New(Config[item, itemStats]{
		Name:         "items",
		Records:      records,
		SearchFields: func(i item) []string { return []string{i.Name, i.Department} },
		Dimensions: []Dimension[item]{
			{Name: "status", Value: func(i item) string { return i.Status }},
			{Name: "department", Value: func(i item) string { return i.Department }},
			{
				Name:    "experience",
				Match:   func(i item, band string) bool { return InBand(i.Experience, band) },
				Options: ExperienceBands,
			},
		},
		Stats: func(all []item) itemStats {
			s := itemStats{Total: len(all)}
			for _, i := range all {
				if i.Status == "active" {
					s.Active++
				}
			}
			return s
		},
	})
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApply(t *testing.T) {
	v := testView(testItems())

	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{"empty filter", NewFilterState("status", "department"), []string{"1", "2", "3", "4", "5"}},
		{"status", NewFilterState().With("status", "active"), []string{"1", "3", "5"}},
		{"status and department", NewFilterState().With("status", "active").With("department", "Technology"), []string{"3"}},
		{"search case-insensitive", NewFilterState().WithSearch("ALPHA"), []string{"1"}},
		{"search second field", NewFilterState().WithSearch("techn"), []string{"2", "3"}},
		{"search unicode fold", NewFilterState().WithSearch("épsilon"), []string{"5"}},
		{"search and status", NewFilterState().WithSearch("a").With("status", "closed"), []string{"4"}},
		{"explicit all", NewFilterState().With("status", All), []string{"1", "2", "3", "4", "5"}},
		{"empty selector", NewFilterState().With("status", ""), []string{"1", "2", "3", "4", "5"}},
		{"senior band", NewFilterState().With("experience", BandSenior), []string{"3"}},
		{"mid band", NewFilterState().With("experience", BandMid), []string{"2", "4"}},
		{"no match", NewFilterState().WithSearch("zzz"), []string{}},
		{"whitespace search is literal", NewFilterState().WithSearch("  "), []string{}},
		{"leading space kept", NewFilterState().WithSearch(" manager"), []string{"1"}},
		{"exact match only", NewFilterState().With("status", "Active"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Apply(tt.state)
			if got := ids(res.Items); !slices.Equal(got, tt.want) {
				t.Errorf("Apply() ids = %v, want %v", got, tt.want)
			}
			if res.Count != len(tt.want) {
				t.Errorf("Count = %d, want %d", res.Count, len(tt.want))
			}
		})
	}
}

func TestApplyEmptyResult(t *testing.T) {
	v := testView(testItems())

	res := v.Apply(NewFilterState().WithSearch("nothing here"))
	if !res.Empty {
		t.Error("Empty = false, want true")
	}
	if res.Message != DefaultEmptyMessage {
		t.Errorf("Message = %q, want %q", res.Message, DefaultEmptyMessage)
	}
	if res.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}

	res = v.Apply(NewFilterState())
	if res.Empty || res.Message != "" {
		t.Errorf("non-empty result reported Empty=%v Message=%q", res.Empty, res.Message)
	}
}

func TestStatsIgnoreFilter(t *testing.T) {
	v := testView(testItems())
	want := itemStats{Total: 5, Active: 3}

	states := []FilterState{
		NewFilterState(),
		NewFilterState().WithSearch("gamma"),
		NewFilterState().With("status", "closed"),
		NewFilterState().WithSearch("zzz"),
	}
	for _, s := range states {
		if got := v.Apply(s).Stats; got != want {
			t.Errorf("Stats with %+v = %+v, want %+v", s, got, want)
		}
	}
}

func TestFilterProperties(t *testing.T) {
	records := testItems()
	v := testView(records)

	states := []FilterState{
		NewFilterState(),
		NewFilterState().WithSearch("a"),
		NewFilterState().With("status", "active"),
		NewFilterState().With("department", "Technology").WithSearch("e"),
		NewFilterState().With("experience", BandJunior),
	}

	for _, s := range states {
		visible := v.Filter(records, s)

		// subset
		for _, it := range visible {
			if !slices.Contains(records, it) {
				t.Errorf("Filter(%+v) returned %v not in records", s, it)
			}
		}

		// idempotence
		again := v.Filter(visible, s)
		if !slices.Equal(ids(again), ids(visible)) {
			t.Errorf("Filter not idempotent for %+v: %v then %v", s, ids(visible), ids(again))
		}

		// monotonicity: narrowing a dimension never grows the result
		for _, dim := range []string{"status", "department"} {
			if s.Active(dim) {
				continue
			}
			for _, val := range v.Options()[dim] {
				narrowed := v.Filter(records, s.With(dim, val))
				if len(narrowed) > len(visible) {
					t.Errorf("adding %s=%s grew result from %d to %d", dim, val, len(visible), len(narrowed))
				}
			}
		}
	}

	if got := v.Filter(records, NewFilterState()); !slices.Equal(got, records) {
		t.Errorf("empty filter should return all records, got %v", ids(got))
	}
}

func TestOptions(t *testing.T) {
	v := testView(testItems())
	opts := v.Options()

	if got, want := opts["status"], []string{"active", "paused", "closed"}; !slices.Equal(got, want) {
		t.Errorf("status options = %v, want %v", got, want)
	}
	if got, want := opts["department"], []string{"Finance", "Technology", "Legal"}; !slices.Equal(got, want) {
		t.Errorf("department options = %v, want %v", got, want)
	}
	if got := opts["experience"]; !slices.Equal(got, ExperienceBands) {
		t.Errorf("experience options = %v, want %v", got, ExperienceBands)
	}
}

func TestNewCopiesRecords(t *testing.T) {
	records := testItems()
	v := testView(records)
	records[0].Name = "Changed"

	if v.Records()[0].Name != "Alpha Manager" {
		t.Error("view should not observe changes to the source slice")
	}
}

func TestApplyEchoesFilters(t *testing.T) {
	v := testView(testItems())

	res := v.Apply(FromQuery(url.Values{"status": {"active"}, "search": {" alpha "}}, "status"))
	if res.Filters.Search != "alpha" {
		t.Errorf("Filters.Search = %q, want %q", res.Filters.Search, "alpha")
	}
	want := map[string]string{"status": "active", "department": All, "experience": All}
	for k, val := range want {
		if got := res.Filters.Selectors[k]; got != val {
			t.Errorf("Filters.Selectors[%q] = %q, want %q", k, got, val)
		}
	}
}
