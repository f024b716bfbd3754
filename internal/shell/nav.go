// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package shell

import "github.com/olegiv/talenthub/internal/access"

// NavItem is one entry of the dashboard menu.
type NavItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Icon string `json:"icon"`
}

var menu = []NavItem{
	{Name: "Dashboard", Path: "/dashboard", Icon: "home"},
	{Name: "Applications", Path: "/dashboard/applications", Icon: "file-text"},
	{Name: "Job Positions", Path: "/dashboard/positions", Icon: "briefcase"},
	{Name: "Talent Pool", Path: "/dashboard/talent-pool", Icon: "users"},
	{Name: "Training", Path: "/dashboard/training", Icon: "graduation-cap"},
	{Name: "Analytics", Path: "/dashboard/analytics", Icon: "bar-chart"},
	{Name: "Settings", Path: "/dashboard/settings", Icon: "settings"},
}

// Navigation returns the menu for the profile held by store. The menu is
// all-or-nothing: every entry for dashboard roles, none otherwise.
func Navigation(store *access.Store) []NavItem {
	if !store.CanAccessDashboard() {
		return []NavItem{}
	}
	return append([]NavItem(nil), menu...)
}
