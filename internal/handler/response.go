// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/model"
)

// Query parameters carrying a notice to the login page.
const (
	paramMessage = "message"
	paramError   = "error"
)

// redirectWithNotice redirects to path with a notice in the query string.
// Uses http.StatusSeeOther (303) after form posts.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, param, notice string) {
	target := path
	if notice != "" {
		target += "?" + url.Values{param: {notice}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	if middleware.WantsJSON(r) {
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// PageMeta is carried by every dashboard payload.
type PageMeta struct {
	Demo      bool               `json:"demo"`
	Profile   *model.UserProfile `json:"profile,omitempty"`
	RoleLabel string             `json:"role_label,omitempty"`
	Initials  string             `json:"initials,omitempty"`
}

// pageMeta describes the signed-in user of r.
func pageMeta(r *http.Request) PageMeta {
	sh := middleware.GetShell(r)
	if sh == nil {
		return PageMeta{}
	}
	snap := sh.Snapshot()
	meta := PageMeta{Demo: snap.Demo, Profile: snap.Profile, RoleLabel: snap.RoleLabel}
	if snap.Profile != nil {
		meta.Initials = snap.Profile.Initials()
	}
	return meta
}
