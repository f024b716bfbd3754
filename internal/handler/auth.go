// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the dashboard: sign-in
// and registration, the dashboard views, the session event stream and
// health checks.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/session"
	"github.com/olegiv/talenthub/internal/shell"
	"github.com/olegiv/talenthub/web"
)

// SiteTitle is shown on the sign-in page.
const SiteTitle = "NSSF Talent Hub"

// MsgRegistered confirms a successful registration.
const MsgRegistered = "Registration successful. Please check your email."

const redirectDashboard = "/dashboard"

// Identity operations as reported to metrics.
const (
	opSignIn  = "signin"
	opSignUp  = "signup"
	opSignOut = "signout"
)

var demoFeatures = []string{
	"Complete recruitment dashboard interface",
	"Sample applications and job positions",
	"Training and development modules",
	"Mobile-responsive design showcase",
	"NSSF professional branding",
}

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

func (req *SignInRequest) decodeForm(v url.Values) {
	req.Email = v.Get("email")
	req.Password = v.Get("password")
}

// SignUpRequest is the registration form. Role defaults to applicant.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Role      string `json:"role" validate:"omitempty,role"`
}

func (req *SignUpRequest) decodeForm(v url.Values) {
	req.Email = v.Get("email")
	req.Password = v.Get("password")
	req.FirstName = v.Get("first_name")
	req.LastName = v.Get("last_name")
	req.Role = v.Get("role")
}

// SignInResponse is returned to JSON clients after signing in.
type SignInResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Redirect    string    `json:"redirect"`
}

// loginPageData feeds the sign-in template.
type loginPageData struct {
	Title        string
	Demo         bool
	Message      string
	Error        string
	DemoFeatures []string
}

// AuthConfig wires an AuthHandler.
type AuthConfig struct {
	Identity   *identity.Adapter
	Sessions   *scs.SessionManager
	Events     *service.EventService
	Protection *middleware.LoginProtection
	Metrics    *metrics.Metrics
}

// AuthHandler handles sign-in, registration and sign-out.
type AuthHandler struct {
	identity   *identity.Adapter
	sessions   *scs.SessionManager
	events     *service.EventService
	protection *middleware.LoginProtection
	metrics    *metrics.Metrics
	loginPage  *template.Template
}

// NewAuthHandler creates an AuthHandler and parses the sign-in page.
func NewAuthHandler(cfg AuthConfig) (*AuthHandler, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parsing login template: %w", err)
	}
	return &AuthHandler{
		identity:   cfg.Identity,
		sessions:   cfg.Sessions,
		events:     cfg.Events,
		protection: cfg.Protection,
		metrics:    cfg.Metrics,
		loginPage:  tmpl,
	}, nil
}

// LoginPage handles GET /login. Users with a live session go straight to
// the dashboard. Without a configured provider the page offers demo access.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if token := session.AccessToken(ctx, h.sessions); token != "" {
		if _, err := h.identity.CurrentSession(ctx, token); err == nil {
			http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
			return
		}
	}

	q := r.URL.Query()
	data := loginPageData{
		Title:   SiteTitle,
		Demo:    !h.identity.IsConfigured(),
		Message: q.Get(paramMessage),
		Error:   q.Get(paramError),
	}
	if data.Demo {
		data.DemoFeatures = demoFeatures
	}

	var buf bytes.Buffer
	if err := h.loginPage.Execute(&buf, data); err != nil {
		logAndInternalError(w, r, "failed to render login page", "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// SignIn handles POST /auth/signin from the login form or a JSON client.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := middleware.ClientIP(r)

	var req SignInRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}

	if !h.identity.IsConfigured() {
		h.metrics.AuthAttempt(opSignIn, metrics.ResultDemo)
		h.fail(w, r, http.StatusServiceUnavailable, string(identity.KindUnconfigured), identity.MsgUnconfigured, nil)
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.metrics.AuthAttempt(opSignIn, metrics.ResultFailure)
		h.fail(w, r, http.StatusBadRequest, "validation_failed", "Email and password are required", validationErrors(err))
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(req.Email); locked {
		h.metrics.AuthAttempt(opSignIn, metrics.ResultLocked)
		_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Sign-in attempt on locked account", "", clientIP,
			map[string]any{"email": req.Email})
		h.fail(w, r, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)), nil)
		return
	}

	s, err := h.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.metrics.AuthAttempt(opSignIn, metrics.ResultFailure)
		h.signInFailed(w, r, req.Email, err)
		return
	}

	h.protection.RecordSuccessfulLogin(req.Email)

	if err := session.SignIn(ctx, h.sessions, s.AccessToken, s.User.ID); err != nil {
		h.identity.SignOut(ctx, s.AccessToken)
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}

	h.metrics.AuthAttempt(opSignIn, metrics.ResultSuccess)
	slog.InfoContext(ctx, "user signed in", "user_id", s.User.ID)
	meta := service.ClientMetadata(r.UserAgent())
	meta["email"] = s.User.Email
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User signed in", s.User.ID, clientIP, meta)

	if !middleware.WantsJSON(r) {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, SignInResponse{
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt,
		UserID:      s.User.ID,
		Email:       s.User.Email,
		Redirect:    redirectDashboard,
	})
}

// signInFailed reports a rejected sign-in. Credential failures count
// towards the account lockout; the provider's message is shown verbatim.
func (h *AuthHandler) signInFailed(w http.ResponseWriter, r *http.Request, email string, err error) {
	ctx := r.Context()
	clientIP := middleware.ClientIP(r)

	var ae *identity.AuthError
	if !errors.As(err, &ae) {
		logAndInternalError(w, r, "sign-in failed", "error", err)
		return
	}

	switch ae.Kind {
	case identity.KindInvalidCredentials:
		_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Sign-in failed: invalid credentials", "", clientIP,
			map[string]any{"email": email})

		if locked, lockDuration := h.protection.RecordFailedAttempt(email); locked {
			_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Account locked due to failed attempts", "", clientIP,
				map[string]any{"email": email, "duration": lockDuration.String()})
			h.fail(w, r, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)), nil)
			return
		}

		var details map[string]string
		if remaining := h.protection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			details = map[string]string{"remaining_attempts": strconv.Itoa(remaining)}
		}
		h.fail(w, r, http.StatusUnauthorized, string(ae.Kind), ae.Message, details)
	case identity.KindValidation:
		h.fail(w, r, http.StatusBadRequest, string(ae.Kind), ae.Message, nil)
	case identity.KindUnconfigured:
		h.fail(w, r, http.StatusServiceUnavailable, string(ae.Kind), ae.Message, nil)
	default:
		slog.ErrorContext(ctx, "identity provider error during sign-in", "error", err)
		h.fail(w, r, http.StatusBadGateway, string(ae.Kind), ae.Message, nil)
	}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignUpRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}

	if !h.identity.IsConfigured() {
		h.metrics.AuthAttempt(opSignUp, metrics.ResultDemo)
		h.fail(w, r, http.StatusServiceUnavailable, string(identity.KindUnconfigured), identity.MsgUnconfigured, nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(&req); err != nil {
		h.metrics.AuthAttempt(opSignUp, metrics.ResultFailure)
		h.fail(w, r, http.StatusBadRequest, "validation_failed", "Please correct the highlighted fields", validationErrors(err))
		return
	}

	err := h.identity.SignUp(ctx, identity.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.Role(req.Role),
	})
	if err != nil {
		h.metrics.AuthAttempt(opSignUp, metrics.ResultFailure)
		var ae *identity.AuthError
		if !errors.As(err, &ae) {
			logAndInternalError(w, r, "sign-up failed", "error", err)
			return
		}
		status := http.StatusBadRequest
		if ae.Kind == identity.KindProvider {
			slog.ErrorContext(ctx, "identity provider error during sign-up", "error", err)
			status = http.StatusBadGateway
		}
		h.fail(w, r, status, string(ae.Kind), ae.Message, nil)
		return
	}

	h.metrics.AuthAttempt(opSignUp, metrics.ResultSuccess)
	slog.InfoContext(ctx, "user registered", "email", req.Email)
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User registered", "", middleware.ClientIP(r),
		map[string]any{"email": req.Email})

	if !middleware.WantsJSON(r) {
		redirectWithNotice(w, r, shell.LoginPath, paramMessage, MsgRegistered)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": MsgRegistered})
}

// SignOut handles POST /auth/signout. It always succeeds: the provider is
// told when possible and the local session is cleared regardless.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.RequestToken(r, h.sessions)
	userID := h.sessions.GetString(ctx, session.KeyUserID)

	h.identity.SignOut(ctx, token)
	if err := session.SignOut(ctx, h.sessions); err != nil {
		slog.WarnContext(ctx, "failed to clear session on sign-out", "error", err)
	}

	h.metrics.AuthAttempt(opSignOut, metrics.ResultSuccess)
	if userID != "" {
		slog.InfoContext(ctx, "user signed out", "user_id", userID)
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User signed out", userID, middleware.ClientIP(r), nil)
	}

	if !middleware.WantsJSON(r) {
		http.Redirect(w, r, shell.LoginPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": shell.LoginPath})
}

// Session handles GET /auth/session and reports the resolved shell.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sh := middleware.GetShell(r)
	if sh == nil {
		logAndInternalError(w, r, "session endpoint reached without shell")
		return
	}
	writeJSON(w, http.StatusOK, sh.Snapshot())
}

// fail answers a rejected auth request. Form posts are sent back to the
// login page with the message.
func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	if !middleware.WantsJSON(r) {
		redirectWithNotice(w, r, shell.LoginPath, paramError, message)
		return
	}
	middleware.WriteAPIError(w, status, code, message, details)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
