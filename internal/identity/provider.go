// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"strings"
)

// Provider is an identity backend.
type Provider interface {
	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (Session, error)
	// SignUp registers an account carrying meta.
	SignUp(ctx context.Context, email, password string, meta Metadata) error
	// SignOut revokes the session identified by accessToken.
	SignOut(ctx context.Context, accessToken string) error
	// GetSession resolves accessToken, returning ErrNoSession when it is
	// unknown. An expired token may be reported as *ExpiredError.
	GetSession(ctx context.Context, accessToken string) (Session, error)
	// Configured reports whether the provider has usable settings.
	Configured() bool
}

// Placeholder settings that mean "not configured".
const (
	PlaceholderURL = "https://placeholder.supabase.co"
	PlaceholderKey = "placeholder-key"
)

// IsPlaceholder reports whether an endpoint/credential pair is unset or
// still carries the placeholder values.
func IsPlaceholder(url, key string) bool {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	key = strings.TrimSpace(key)
	return url == "" || key == "" || url == PlaceholderURL || key == PlaceholderKey
}
