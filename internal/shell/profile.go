// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package shell

import (
	"errors"
	"time"

	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/model"
)

// Demo profile values used when no identity provider is configured.
const (
	DemoUserID    = "demo-user"
	DemoEmail     = "demo@nssf.ug"
	DemoFirstName = "Demo"
	DemoLastName  = "User"
	DemoRole      = model.RoleHRAdmin
)

// ErrRoleMissing is returned when a session carries no usable role and no
// fallback role is configured.
var ErrRoleMissing = errors.New("session has no valid role")

// DemoProfile returns the fixed demo profile stamped with now.
func DemoProfile(now time.Time) model.UserProfile {
	return model.UserProfile{
		ID:        DemoUserID,
		Email:     DemoEmail,
		FirstName: DemoFirstName,
		LastName:  DemoLastName,
		Role:      DemoRole,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProfileFromSession builds a profile from the session's user metadata.
// An absent or unknown role is replaced by fallback; an empty fallback
// yields ErrRoleMissing.
func ProfileFromSession(s identity.Session, fallback model.Role) (model.UserProfile, error) {
	u := s.User
	role, err := model.ParseRole(u.Metadata.Role)
	if err != nil {
		if !fallback.IsValid() {
			return model.UserProfile{}, ErrRoleMissing
		}
		role = fallback
	}

	return model.UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.Metadata.FirstName,
		LastName:  u.Metadata.LastName,
		Role:      role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}
