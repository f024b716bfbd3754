// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package access holds the profile of the current session and answers
// role-membership questions about it. A Store lives in the request context;
// there is no process-wide instance.
package access

import (
	"context"
	"sync"

	"github.com/olegiv/talenthub/internal/model"
)

// Store holds at most one user profile. The zero value is an empty store
// ready for use. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	profile *model.UserProfile
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// SetProfile replaces the held profile.
func (s *Store) SetProfile(p model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
}

// Clear removes the held profile.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
}

// Profile returns the held profile, if any.
func (s *Store) Profile() (model.UserProfile, bool) {
	if s == nil {
		return model.UserProfile{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return model.UserProfile{}, false
	}
	return *s.profile, true
}

// HasRole reports whether the held profile's role is one of roles.
// It is false when no profile is held or roles is empty.
func (s *Store) HasRole(roles ...model.Role) bool {
	p, ok := s.Profile()
	if !ok {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// HasRoleIn reports whether the held profile's role is in set.
func (s *Store) HasRoleIn(set model.RoleSet) bool {
	p, ok := s.Profile()
	if !ok {
		return false
	}
	return set.Contains(p.Role)
}

// IsAdmin reports whether the held profile is an administrator.
func (s *Store) IsAdmin() bool {
	p, ok := s.Profile()
	return ok && p.IsAdmin()
}

// CanAccessDashboard is the single authorization gate of the dashboard:
// true iff the held role is admin, hr_admin, department_head or
// training_editor.
func (s *Store) CanAccessDashboard() bool {
	return s.HasRoleIn(model.DashboardRoles)
}

type contextKey struct{}

// WithStore returns a context carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Store carried by ctx, or nil. All Store methods
// that read are safe on a nil Store.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(contextKey{}).(*Store)
	return s
}
