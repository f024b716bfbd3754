// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Role is the access level attached to a user profile.
type Role string

// User roles. The set is closed: ParseRole rejects anything else.
const (
	RoleAdmin           Role = "admin"
	RoleHRAdmin         Role = "hr_admin"
	RoleDepartmentHead  Role = "department_head"
	RoleTrainingEditor  Role = "training_editor"
	RoleApplicant       Role = "applicant"
	RoleTenderApplicant Role = "tender_applicant"
	RoleITSupport       Role = "it_support"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{
	RoleAdmin,
	RoleHRAdmin,
	RoleDepartmentHead,
	RoleTrainingEditor,
	RoleApplicant,
	RoleTenderApplicant,
	RoleITSupport,
}

// ParseRole converts a raw string to a Role, returning an error for
// unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleAdmin, RoleHRAdmin, RoleDepartmentHead, RoleTrainingEditor,
		RoleApplicant, RoleTenderApplicant, RoleITSupport:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Label returns the badge text for a role, e.g. "hr_admin" -> "Hr Admin".
// Only the first underscore is replaced, matching how status labels are
// rendered elsewhere in the dashboard.
func (r Role) Label() string {
	return FormatLabel(string(r))
}

// FormatLabel turns an identifier like "under_review" into "Under Review".
func FormatLabel(s string) string {
	s = strings.Replace(s, "_", " ", 1)
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RoleSet is a capability set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// DashboardRoles are the roles allowed into the management dashboard.
var DashboardRoles = NewRoleSet(RoleAdmin, RoleHRAdmin, RoleDepartmentHead, RoleTrainingEditor)

// SelfRegisterRoles are the roles a visitor may pick when creating an
// account. Admin accounts are provisioned by an operator.
var SelfRegisterRoles = NewRoleSet(
	RoleApplicant,
	RoleHRAdmin,
	RoleDepartmentHead,
	RoleTrainingEditor,
	RoleITSupport,
	RoleTenderApplicant,
)
