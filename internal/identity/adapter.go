// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/talenthub/internal/auth"
	"github.com/olegiv/talenthub/internal/cache"
	"github.com/olegiv/talenthub/internal/model"
)

// DefaultSessionCacheTTL bounds how long a resolved session is reused
// without asking the provider again.
const DefaultSessionCacheTTL = 30 * time.Second

// textPolicy strips all markup from user supplied names.
var textPolicy = bluemonday.StrictPolicy()

// Options configures an Adapter.
type Options struct {
	// Cache stores resolved sessions. Nil disables caching.
	Cache    cache.Cacher
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// SignUpRequest is a registration with its profile metadata.
type SignUpRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Role defaults to applicant when empty.
	Role model.Role
}

// Adapter is the dashboard's single entry point to identity. It decides
// demo mode once, at construction, from the provider's settings.
type Adapter struct {
	provider   Provider
	configured bool
	hub        *Hub
	sessions   *cache.TypedCache[Session]
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAdapter wraps p. A nil provider yields an unconfigured adapter.
func NewAdapter(p Provider, opts Options) *Adapter {
	a := &Adapter{
		provider:   p,
		configured: p != nil && p.Configured(),
		hub:        NewHub(),
		cacheTTL:   opts.CacheTTL,
		logger:     opts.Logger,
		now:        time.Now,
	}
	if a.cacheTTL <= 0 {
		a.cacheTTL = DefaultSessionCacheTTL
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if opts.Cache != nil {
		a.sessions = cache.NewTypedCache[Session](opts.Cache, "session:", a.cacheTTL)
	}
	return a
}

// IsConfigured reports whether a real provider is behind the adapter.
func (a *Adapter) IsConfigured() bool {
	return a.configured
}

// Events returns the session change stream.
func (a *Adapter) Events() *Hub {
	return a.hub
}

// Close ends the event stream.
func (a *Adapter) Close() {
	a.hub.Close()
}

// SignIn authenticates with the provider. Failures are *AuthError values
// carrying the provider's message.
func (a *Adapter) SignIn(ctx context.Context, email, password string) (Session, error) {
	if !a.configured {
		return Session{}, newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, newAuthError(KindValidation, "Email and password are required", nil)
	}

	s, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, asAuthError(err)
	}

	a.remember(ctx, s)
	a.hub.Publish(Event{Type: EventSignedIn, UserID: s.User.ID})
	return s, nil
}

// SignUp registers an account. Names are reduced to plain text before they
// reach the provider.
func (a *Adapter) SignUp(ctx context.Context, req SignUpRequest) error {
	if !a.configured {
		return newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return newAuthError(KindValidation, "Email and password are required", nil)
	}
	role := req.Role
	if role == "" {
		role = model.RoleApplicant
	}
	if !role.IsValid() {
		return newAuthError(KindValidation, "Invalid role", nil)
	}
	if !model.SelfRegisterRoles.Contains(role) {
		return newAuthError(KindValidation, "This role cannot be chosen at registration", nil)
	}

	meta := Metadata{
		FirstName: PlainText(req.FirstName),
		LastName:  PlainText(req.LastName),
		Role:      role.String(),
	}
	if err := a.provider.SignUp(ctx, email, req.Password, meta); err != nil {
		return asAuthError(err)
	}
	return nil
}

// SignOut ends the session. It never fails: a provider error is logged and
// the local state is cleared regardless.
func (a *Adapter) SignOut(ctx context.Context, accessToken string) {
	if !a.configured || accessToken == "" {
		return
	}

	var userID string
	if s, ok := a.cached(ctx, accessToken); ok {
		userID = s.User.ID
	} else if s, err := a.provider.GetSession(ctx, accessToken); err == nil {
		userID = s.User.ID
	}

	if err := a.provider.SignOut(ctx, accessToken); err != nil {
		a.logger.Warn("identity sign-out failed, clearing local session", "error", err)
	}
	a.forget(ctx, accessToken)
	a.hub.Publish(Event{Type: EventSignedOut, UserID: userID})
}

// CurrentSession resolves accessToken. It returns ErrNoSession for an
// empty, unknown or expired token and for an unconfigured adapter.
func (a *Adapter) CurrentSession(ctx context.Context, accessToken string) (Session, error) {
	if !a.configured || accessToken == "" {
		return Session{}, ErrNoSession
	}

	if s, ok := a.cached(ctx, accessToken); ok {
		if !s.Expired(a.now()) {
			return s, nil
		}
		a.forget(ctx, accessToken)
		a.hub.Publish(Event{Type: EventSessionExpired, UserID: s.User.ID})
		return Session{}, ErrNoSession
	}

	s, err := a.provider.GetSession(ctx, accessToken)
	if err != nil {
		var expired *ExpiredError
		if errors.As(err, &expired) {
			a.hub.Publish(Event{Type: EventSessionExpired, UserID: expired.UserID})
		}
		return Session{}, err
	}
	if s.Expired(a.now()) {
		a.hub.Publish(Event{Type: EventSessionExpired, UserID: s.User.ID})
		return Session{}, ErrNoSession
	}
	a.remember(ctx, s)
	return s, nil
}

func (a *Adapter) cached(ctx context.Context, token string) (Session, bool) {
	if a.sessions == nil {
		return Session{}, false
	}
	s, ok := a.sessions.Get(ctx, auth.HashToken(token))
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// remember caches s for the adapter's TTL. The entry may outlive the
// session itself so that a later lookup can report the expiry.
func (a *Adapter) remember(ctx context.Context, s Session) {
	if a.sessions == nil || s.AccessToken == "" || s.Expired(a.now()) {
		return
	}
	if err := a.sessions.SetWithTTL(ctx, auth.HashToken(s.AccessToken), &s, a.cacheTTL); err != nil {
		a.logger.Debug("session cache write failed", "error", err)
	}
}

func (a *Adapter) forget(ctx context.Context, token string) {
	if a.sessions == nil {
		return
	}
	if err := a.sessions.Delete(ctx, auth.HashToken(token)); err != nil {
		a.logger.Debug("session cache delete failed", "error", err)
	}
}

// PlainText strips markup from s and trims surrounding space.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// asAuthError wraps errors that are not already AuthErrors.
func asAuthError(err error) error {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newAuthError(KindProvider, "The request was cancelled or timed out", err)
	}
	return newAuthError(KindProvider, MsgUnexpected, err)
}
