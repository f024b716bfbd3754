// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed provides the immutable datasets served by the dashboard.
// The records are embedded in the binary as YAML and decoded once at start-up.
package seed

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/talenthub/internal/model"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Dataset bundles every seeded collection.
type Dataset struct {
	Applications []model.Application
	Positions    []model.Position
	Talent       []model.Talent
	Training     []model.TrainingProgram
	Analytics    model.AnalyticsData
	Overview     model.OverviewData
}

// Load decodes the embedded datasets.
func Load() (*Dataset, error) {
	ds := &Dataset{}

	files := []struct {
		name string
		out  any
	}{
		{"applications.yaml", &ds.Applications},
		{"positions.yaml", &ds.Positions},
		{"talent.yaml", &ds.Talent},
		{"training.yaml", &ds.Training},
		{"analytics.yaml", &ds.Analytics},
		{"overview.yaml", &ds.Overview},
	}

	for _, f := range files {
		if err := decode(f.name, f.out); err != nil {
			return nil, err
		}
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}

	return ds, nil
}

// MustLoad is like Load but panics on error. Intended for tests.
func MustLoad() *Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}

func decode(name string, out any) error {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("reading seed %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing seed %s: %w", name, err)
	}
	return nil
}

// validate rejects duplicate IDs within a collection.
func (ds *Dataset) validate() error {
	checks := []struct {
		name string
		ids  []string
	}{
		{"applications", collectIDs(ds.Applications, func(a model.Application) string { return a.ID })},
		{"positions", collectIDs(ds.Positions, func(p model.Position) string { return p.ID })},
		{"talent", collectIDs(ds.Talent, func(t model.Talent) string { return t.ID })},
		{"training", collectIDs(ds.Training, func(t model.TrainingProgram) string { return t.ID })},
	}

	for _, c := range checks {
		seen := make(map[string]bool, len(c.ids))
		for _, id := range c.ids {
			if id == "" {
				return fmt.Errorf("seed %s: record without id", c.name)
			}
			if seen[id] {
				return fmt.Errorf("seed %s: duplicate id %q", c.name, id)
			}
			seen[id] = true
		}
	}
	return nil
}

func collectIDs[T any](items []T, id func(T) string) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = id(item)
	}
	return ids
}
