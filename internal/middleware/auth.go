// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session bootstrap,
// the dashboard gate, request protection and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/talenthub/internal/access"
	"github.com/olegiv/talenthub/internal/logging"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/session"
	"github.com/olegiv/talenthub/internal/shell"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyShell holds the request's resolved *shell.Shell.
const ContextKeyShell ContextKey = "shell"

// BootstrapConfig configures Bootstrap.
type BootstrapConfig struct {
	Source   shell.SessionSource
	Sessions *scs.SessionManager
	Shell    shell.Options
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Bootstrap resolves a dashboard shell for every request. The access token
// comes from the session or, for API clients, from a Bearer Authorization
// header. The shell and its access store are placed in the request context
// and the shell is closed when the handler returns.
func Bootstrap(cfg BootstrapConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := RequestToken(r, cfg.Sessions)

			store := access.NewStore()
			sh := shell.New(cfg.Source, store, cfg.Shell)
			defer sh.Close()

			state, err := sh.Resolve(ctx, token)
			if err != nil {
				slog.ErrorContext(ctx, "shell resolution aborted", "error", err)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			snap := sh.Snapshot()
			if cfg.Metrics != nil {
				cfg.Metrics.ShellResolved(state.String(), snap.Reason)
			}

			// A token the provider no longer knows is dropped from the session.
			if snap.Reason == shell.ReasonNoSession && cfg.Sessions != nil && session.AccessToken(ctx, cfg.Sessions) != "" {
				if err := session.SignOut(ctx, cfg.Sessions); err != nil {
					slog.WarnContext(ctx, "failed to drop stale session token", "error", err)
				}
			}

			ctx = access.WithStore(ctx, store)
			ctx = context.WithValue(ctx, ContextKeyShell, sh)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestToken returns the access token held by the session, falling back to
// a Bearer Authorization header.
func RequestToken(r *http.Request, sm *scs.SessionManager) string {
	if sm != nil {
		if token := session.AccessToken(r.Context(), sm); token != "" {
			return token
		}
	}
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// GetShell returns the shell resolved by Bootstrap, or nil.
func GetShell(r *http.Request) *shell.Shell {
	sh, _ := r.Context().Value(ContextKeyShell).(*shell.Shell)
	return sh
}

// RequireDashboard admits only requests whose shell is Authorized with a
// management role. Unauthorized HTML clients are redirected to the login
// page and JSON clients get 401 with the redirect target. Authorized users
// without a management role get 403, which is recorded in the event log
// when events is non-nil.
func RequireDashboard(events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sh := GetShell(r)
			if sh == nil {
				slog.ErrorContext(r.Context(), "dashboard gate reached without shell", "path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if sh.State() != shell.Authorized {
				if WantsJSON(r) {
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required",
						map[string]string{"redirect": shell.LoginPath})
					return
				}
				http.Redirect(w, r, shell.LoginPath, http.StatusSeeOther)
				return
			}

			store := sh.Store()
			if !store.CanAccessDashboard() {
				var (
					userID string
					role   model.Role
				)
				if p, ok := store.Profile(); ok {
					userID, role = p.ID, p.Role
				}
				slog.InfoContext(r.Context(), "dashboard access denied", "user_id", userID, "role", role, "path", r.URL.Path)
				if events != nil {
					_ = events.LogAccessEvent(r.Context(), model.EventLevelWarning, "Dashboard access denied",
						userID, ClientIP(r), map[string]any{"role": string(role), "path": r.URL.Path})
				}
				if WantsJSON(r) {
					WriteAPIError(w, http.StatusForbidden, "forbidden", "Your role does not grant dashboard access", nil)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WantsJSON reports whether the client prefers a JSON response. Requests
// without an explicit text/html preference are treated as API calls.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") || strings.Contains(accept, "text/event-stream") {
		return true
	}
	return !strings.Contains(accept, "text/html")
}

// RequestPath stores the request path in the context so that logged
// warnings and errors carry it.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
