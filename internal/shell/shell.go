// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shell resolves who is looking at the dashboard. A Shell moves from
// Unresolved through Resolving to Authorized or Unauthorized and keeps the
// access store in step with that outcome.
package shell

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/talenthub/internal/access"
	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/model"
)

// State is the shell's resolution state.
type State int

// Shell states.
const (
	Unresolved State = iota
	Resolving
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reasons for an Unauthorized outcome.
const (
	ReasonNoSession    = "no_session"
	ReasonLookupFailed = "lookup_failed"
	ReasonRoleMissing  = "role_missing"
	ReasonSignedOut    = "signed_out"
	ReasonExpired      = "session_expired"
)

// LoginPath is where unauthorized users are sent.
const LoginPath = "/login"

// ErrClosed is returned when the shell was closed before an operation
// completed. The outcome of such an operation is discarded.
var ErrClosed = errors.New("shell closed")

// SessionSource is the part of the identity adapter the shell needs.
type SessionSource interface {
	IsConfigured() bool
	CurrentSession(ctx context.Context, accessToken string) (identity.Session, error)
	Events() *identity.Hub
}

// Options configures a Shell.
type Options struct {
	// FallbackRole is applied to sessions without a valid role. Empty
	// denies such sessions.
	FallbackRole model.Role
	Logger       *slog.Logger
}

// Shell is the per-request dashboard gate.
type Shell struct {
	source   SessionSource
	store    *access.Store
	fallback model.Role
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   State
	reason  string
	demo    bool
	closed  bool
	expires time.Time
}

// New creates an unresolved Shell writing to store.
func New(source SessionSource, store *access.Store, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		source:   source,
		store:    store,
		fallback: opts.FallbackRole,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Resolve determines the profile for accessToken. Without a configured
// provider it installs the demo profile and makes no call. A resolution
// that finishes after Close returns ErrClosed and changes nothing.
func (s *Shell) Resolve(ctx context.Context, accessToken string) (State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Unresolved, ErrClosed
	}
	s.state = Resolving
	s.mu.Unlock()

	var (
		profile model.UserProfile
		reason  string
		demo    bool
		expires time.Time
	)
	if !s.source.IsConfigured() {
		profile, demo = DemoProfile(s.now()), true
	} else {
		profile, expires, reason = s.resolveSession(ctx, accessToken)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Unresolved, ErrClosed
	}
	s.demo = demo
	s.reason = reason
	s.expires = expires
	if reason != "" {
		s.state = Unauthorized
		s.store.Clear()
	} else {
		s.state = Authorized
		s.store.SetProfile(profile)
	}
	return s.state, nil
}

func (s *Shell) resolveSession(ctx context.Context, token string) (model.UserProfile, time.Time, string) {
	sess, err := s.source.CurrentSession(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrNoSession) {
			return model.UserProfile{}, time.Time{}, ReasonNoSession
		}
		s.logger.Warn("session resolution failed", "error", err)
		return model.UserProfile{}, time.Time{}, ReasonLookupFailed
	}

	profile, err := ProfileFromSession(sess, s.fallback)
	if err != nil {
		s.logger.Warn("session denied", "user_id", sess.User.ID, "error", err)
		return model.UserProfile{}, time.Time{}, ReasonRoleMissing
	}
	return profile, sess.ExpiresAt, ""
}

// State returns the current state.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Store returns the access store the shell writes to.
func (s *Shell) Store() *access.Store {
	return s.store
}

// Close unmounts the shell. Pending resolutions and watchers are
// discarded.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Snapshot describes the shell for clients.
type Snapshot struct {
	State              State              `json:"state"`
	Reason             string             `json:"reason,omitempty"`
	Demo               bool               `json:"demo"`
	Profile            *model.UserProfile `json:"profile,omitempty"`
	RoleLabel          string             `json:"role_label,omitempty"`
	CanAccessDashboard bool               `json:"can_access_dashboard"`
	Redirect           string             `json:"redirect,omitempty"`
}

// Snapshot returns the current state with the held profile.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{State: s.state, Reason: s.reason, Demo: s.demo}
	s.mu.Unlock()

	if p, ok := s.store.Profile(); ok {
		snap.Profile = &p
		snap.RoleLabel = p.Role.Label()
	}
	snap.CanAccessDashboard = s.store.CanAccessDashboard()
	if snap.State == Unauthorized {
		snap.Redirect = LoginPath
	}
	return snap
}

// Change is a state transition reported by Watch.
type Change struct {
	State    State  `json:"state"`
	Reason   string `json:"reason"`
	Redirect string `json:"redirect,omitempty"`
}

// Watch follows session events for the held profile. When that user signs
// out or their session expires, the shell becomes Unauthorized, the store
// is cleared and one Change is delivered before the channel closes. A
// session with a known expiry ends at that time even if the provider never
// reports it. The channel also closes when ctx ends.
func (s *Shell) Watch(ctx context.Context) (<-chan Change, error) {
	s.mu.Lock()
	closed, expires := s.closed, s.expires
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	var (
		expiry <-chan time.Time
		stop   = func() bool { return false }
	)
	if !expires.IsZero() {
		timer := time.NewTimer(expires.Sub(s.now()))
		expiry, stop = timer.C, timer.Stop
	}

	events, unsubscribe := s.source.Events().Subscribe(8)
	out := make(chan Change, 1)

	go func() {
		defer close(out)
		defer unsubscribe()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-expiry:
				if c, ended := s.end(ReasonExpired); ended {
					out <- c
				}
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if c, ended := s.apply(e); ended {
					out <- c
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Shell) apply(e identity.Event) (Change, bool) {
	if !e.EndsSession() {
		return Change{}, false
	}
	p, ok := s.store.Profile()
	if !ok || p.ID != e.UserID {
		return Change{}, false
	}
	reason := ReasonSignedOut
	if e.Type == identity.EventSessionExpired {
		reason = ReasonExpired
	}
	return s.end(reason)
}

// end moves an authorized shell to Unauthorized with reason.
func (s *Shell) end(reason string) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != Authorized {
		return Change{}, false
	}
	s.state = Unauthorized
	s.reason = reason
	s.expires = time.Time{}
	s.store.Clear()
	return Change{State: Unauthorized, Reason: reason, Redirect: LoginPath}, true
}
