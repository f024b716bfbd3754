// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/scheduler"
	"github.com/olegiv/talenthub/internal/seed"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/shell"
	"github.com/olegiv/talenthub/internal/store"
	"github.com/olegiv/talenthub/internal/testutil"
	"github.com/olegiv/talenthub/internal/version"
)

const testPassword = "correct-horse-battery"

// testEnv is a fully wired router over a temporary database.
type testEnv struct {
	db         *sql.DB
	identity   *identity.Adapter
	sessions   *scs.SessionManager
	events     *service.EventService
	protection *middleware.LoginProtection
	metrics    *metrics.Metrics
	router     chi.Router
}

// newTestEnv wires the handlers. With configured false the identity
// adapter has no provider and the dashboard runs in demo mode.
func newTestEnv(t *testing.T, configured bool) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	var provider identity.Provider
	if configured {
		provider = identity.NewStoreProvider(db, time.Hour)
	}
	adapter := identity.NewAdapter(provider, identity.Options{Logger: testutil.TestLoggerSilent()})
	t.Cleanup(adapter.Close)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
	})
	t.Cleanup(lp.Close)

	env := &testEnv{
		db:         db,
		identity:   adapter,
		sessions:   scs.New(),
		events:     service.NewEventService(db),
		protection: lp,
		metrics:    metrics.New(),
	}

	authHandler, err := NewAuthHandler(AuthConfig{
		Identity:   adapter,
		Sessions:   env.sessions,
		Events:     env.events,
		Protection: lp,
		Metrics:    env.metrics,
	})
	require.NoError(t, err)

	ds := seed.MustLoad()
	dashboard := NewDashboardHandler(
		service.NewViews(ds),
		service.NewOverviewService(ds.Overview),
		service.NewAnalyticsService(ds.Analytics),
		env.metrics,
	)
	health := NewHealthHandler(HealthConfig{
		DB:      db,
		Demo:    !configured,
		Version: version.Info{Version: "v1.0.0", GitCommit: "abc1234"},
		Jobs:    fakeJobs{},
	})

	bootstrap := middleware.Bootstrap(middleware.BootstrapConfig{
		Source:   adapter,
		Sessions: env.sessions,
		Shell:    shell.Options{Logger: testutil.TestLoggerSilent()},
		Metrics:  env.metrics,
	})

	r := chi.NewRouter()
	r.Use(env.sessions.LoadAndSave)
	r.Get("/login", authHandler.LoginPage)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signout", authHandler.SignOut)
		r.With(bootstrap).Get("/session", authHandler.Session)
	})
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(bootstrap, middleware.RequireDashboard(env.events))
		r.Get("/", dashboard.Overview)
		r.Get("/nav", dashboard.Nav)
		r.Get("/applications", dashboard.Applications)
		r.Get("/positions", dashboard.Positions)
		r.Get("/talent-pool", dashboard.TalentPool)
		r.Get("/training", dashboard.Training)
		r.Get("/analytics", dashboard.Analytics)
		r.Get("/settings", dashboard.Settings)
		r.Get("/events", NewEventsHandler(env.events).List)
		r.Get("/session/events", NewStreamHandler(50*time.Millisecond).SessionEvents)
	})
	r.With(bootstrap).Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", env.metrics.Handler())

	env.router = r
	return env
}

// serve runs req through the router.
func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account with the given role.
// Admin accounts cannot self-register, so they are seeded directly.
func (e *testEnv) register(t *testing.T, email string, role model.Role) {
	t.Helper()
	if role == model.RoleAdmin {
		require.NoError(t, store.SeedAdmin(context.Background(), e.db, store.BootstrapAdmin{
			Email:     email,
			Password:  testPassword,
			FirstName: "Test",
			LastName:  "User",
		}))
		return
	}
	require.NoError(t, e.identity.SignUp(context.Background(), identity.SignUpRequest{
		Email:     email,
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}))
}

// token registers an account and signs it in, returning its access token.
func (e *testEnv) token(t *testing.T, email string, role model.Role) string {
	t.Helper()
	e.register(t, email, role)
	s, err := e.identity.SignIn(context.Background(), email, testPassword)
	require.NoError(t, err)
	return s.AccessToken
}

// metricsText returns the Prometheus exposition output.
func (e *testEnv) metricsText(t *testing.T) string {
	t.Helper()
	w := e.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// jsonRequest builds a request from an API client.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req
}

// formRequest builds a browser form post.
func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req
}

// withBearer adds an Authorization header.
func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// decodeBody parses a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// apiError extracts code and message from a middleware.APIError body.
func apiError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIError {
	t.Helper()
	var e middleware.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

type fakeJobs struct{}

func (fakeJobs) List() []scheduler.JobInfo {
	return []scheduler.JobInfo{{
		Name:            scheduler.JobEventRetention,
		Description:     "Delete old audit events",
		DefaultSchedule: scheduler.DefaultRetentionSchedule,
		Schedule:        scheduler.DefaultRetentionSchedule,
	}}
}
