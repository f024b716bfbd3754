// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across the dashboard:
// user profiles and roles, seeded records, analytics figures and audit events.
package model

import (
	"strings"
	"time"
)

// UserProfile is the identity held for one dashboard session.
type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns "First Last", falling back to the email address.
func (p UserProfile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// Initials returns up to two upper-case initials for the avatar badge.
func (p UserProfile) Initials() string {
	var b strings.Builder
	for _, part := range []string{p.FirstName, p.LastName} {
		part = strings.TrimSpace(part)
		if part != "" {
			b.WriteString(strings.ToUpper(part[:1]))
		}
	}
	if b.Len() == 0 && p.Email != "" {
		return strings.ToUpper(p.Email[:1])
	}
	return b.String()
}

// IsAdmin returns true if the profile has the admin role.
func (p UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
