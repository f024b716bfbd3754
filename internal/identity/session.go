// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity adapts an external identity provider for the dashboard:
// password sign-in, registration, sign-out, session lookup and a stream of
// session change events. When no provider is configured the adapter runs in
// demo mode and never touches the network.
package identity

import "time"

// Metadata is the profile data attached to an account at sign-up.
type Metadata struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// User is the provider's view of an account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Metadata  Metadata  `json:"user_metadata"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is an authenticated provider session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the session has a known expiry at or before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
