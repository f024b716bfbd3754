// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/talenthub/internal/cache"
	"github.com/olegiv/talenthub/internal/config"
	"github.com/olegiv/talenthub/internal/handler"
	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/seed"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/shell"
	"github.com/olegiv/talenthub/internal/version"
)

// routerDeps carries everything the HTTP layer is built from.
type routerDeps struct {
	cfg          *config.Config
	db           *sql.DB
	identity     *identity.Adapter
	sessions     *scs.SessionManager
	events       *service.EventService
	protection   *middleware.LoginProtection
	metrics      *metrics.Metrics
	dataset      *seed.Dataset
	cache        cache.Cacher
	cacheBackend string
	jobs         handler.JobLister
	version      version.Info
}

func newRouter(d routerDeps) (http.Handler, error) {
	authHandler, err := handler.NewAuthHandler(handler.AuthConfig{
		Identity:   d.identity,
		Sessions:   d.sessions,
		Events:     d.events,
		Protection: d.protection,
		Metrics:    d.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing auth handler: %w", err)
	}
	dashboardHandler := handler.NewDashboardHandler(
		service.NewViews(d.dataset),
		service.NewOverviewService(d.dataset.Overview),
		service.NewAnalyticsService(d.dataset.Analytics),
		d.metrics,
	)
	eventsHandler := handler.NewEventsHandler(d.events)
	streamHandler := handler.NewStreamHandler(handler.DefaultKeepAlive)
	healthHandler := handler.NewHealthHandler(handler.HealthConfig{
		DB:           d.db,
		Cache:        d.cache,
		CacheBackend: d.cacheBackend,
		Jobs:         d.jobs,
		Demo:         !d.identity.IsConfigured(),
		Version:      d.version,
	})

	bootstrap := middleware.Bootstrap(middleware.BootstrapConfig{
		Source:   d.identity,
		Sessions: d.sessions,
		Shell: shell.Options{
			FallbackRole: d.cfg.FallbackRole(),
			Logger:       slog.Default(),
		},
		Metrics: d.metrics,
	})
	timeout := middleware.Timeout(d.cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestPath)
	r.Use(d.metrics.Middleware)

	securityConfig := middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !d.cfg.IsDevelopment())

	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.cfg.SessionSecret), d.cfg.IsDevelopment(), d.cfg.ServerAddr())))
	slog.Info("CSRF protection initialized", "secure", !d.cfg.IsDevelopment())

	// 10 requests per second with burst of 20 per IP
	r.Use(middleware.NewGlobalRateLimiter(10.0, 20).Middleware())
	r.Use(d.sessions.LoadAndSave)

	// Health and metrics stay outside the request timeout.
	r.With(bootstrap).Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(timeout)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/dashboard", http.StatusSeeOther)
		})
		r.Get(shell.LoginPath, authHandler.LoginPage)

		r.Route("/auth", func(r chi.Router) {
			r.With(d.protection.Middleware()).Post("/signin", authHandler.SignIn)
			r.With(d.protection.Middleware()).Post("/signup", authHandler.SignUp)
			r.Post("/signout", authHandler.SignOut)
			r.With(bootstrap).Get("/session", authHandler.Session)
		})
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(bootstrap, middleware.RequireDashboard(d.events))

		// Streams are not subject to the request timeout.
		r.Get("/session/events", streamHandler.SessionEvents)

		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Get("/", dashboardHandler.Overview)
			r.Get("/nav", dashboardHandler.Nav)
			r.Get("/applications", dashboardHandler.Applications)
			r.Get("/positions", dashboardHandler.Positions)
			r.Get("/talent-pool", dashboardHandler.TalentPool)
			r.Get("/training", dashboardHandler.Training)
			r.Get("/analytics", dashboardHandler.Analytics)
			r.Get("/settings", dashboardHandler.Settings)
			r.Get("/events", eventsHandler.List)
		})
	})

	return r, nil
}
