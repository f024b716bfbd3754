// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures server-side cookie sessions. The identity
// provider's access token lives in the session, never in a client cookie.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyAccessToken = "access_token"
	KeyUserID      = "user_id"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		// The __Host- prefix requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// AccessToken returns the provider token stored in the session, or "".
func AccessToken(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, KeyAccessToken)
}

// SignIn stores the token and renews the session ID to prevent fixation.
func SignIn(ctx context.Context, sm *scs.SessionManager, accessToken, userID string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyAccessToken, accessToken)
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// SignOut removes the identity from the session and renews its ID.
func SignOut(ctx context.Context, sm *scs.SessionManager) error {
	sm.Remove(ctx, KeyAccessToken)
	sm.Remove(ctx, KeyUserID)
	return sm.RenewToken(ctx)
}
