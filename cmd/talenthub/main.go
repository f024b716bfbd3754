// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/talenthub/internal/cache"
	"github.com/olegiv/talenthub/internal/config"
	"github.com/olegiv/talenthub/internal/identity"
	"github.com/olegiv/talenthub/internal/logging"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/scheduler"
	"github.com/olegiv/talenthub/internal/seed"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/session"
	"github.com/olegiv/talenthub/internal/store"
	"github.com/olegiv/talenthub/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Talent Hub - recruitment and talent dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_DB_PATH            SQLite database path (default: ./data/talenthub.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_IDENTITY_BACKEND   Identity backend: gotrue|local (default: gotrue)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_IDENTITY_URL       GoTrue project URL; unset runs the demo dashboard\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_IDENTITY_KEY       GoTrue anon key\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TALENTHUB_REDIS_URL          Redis URL for the session cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("talenthub %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Warnings and errors also go to the audit log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()

	sessionCache, cacheBackend, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.SessionCacheTTL,
		MaxEntries: cfg.CacheMaxSize,
	})
	if err != nil {
		slog.Warn("session cache initialized", "backend", cacheBackend, "note", "Redis unavailable, using fallback")
	} else {
		slog.Info("session cache initialized", "backend", cacheBackend)
	}
	defer func() { _ = sessionCache.Close() }()

	sched := scheduler.New(logger)
	eventService := service.NewEventService(db)
	if cfg.EventRetentionDays > 0 {
		job := scheduler.RetentionJob(eventService, cfg.EventRetention(), logger)
		if err := sched.Registry().Register(job, cfg.RetentionSchedule); err != nil {
			return fmt.Errorf("registering retention job: %w", err)
		}
	}

	var provider identity.Provider
	switch {
	case cfg.UseLocalIdentity():
		local := identity.NewStoreProvider(db, cfg.TokenTTL)
		if err := store.SeedAdmin(ctx, db, store.BootstrapAdmin{
			Email:     cfg.AdminEmail,
			Password:  cfg.AdminPassword,
			FirstName: cfg.AdminFirstName,
			LastName:  cfg.AdminLastName,
		}); err != nil {
			return fmt.Errorf("seeding admin account: %w", err)
		}
		if err := sched.Registry().Register(scheduler.TokenPurgeJob(local, logger), cfg.TokenPurgeSchedule); err != nil {
			return fmt.Errorf("registering token purge job: %w", err)
		}
		// Tokens that expired while the server was down are removed before
		// the first scheduled run.
		if err := sched.Registry().TriggerNow(ctx, scheduler.JobTokenPurge); err != nil {
			slog.Warn("initial token purge failed", "error", err)
		}
		provider = local
	case cfg.IdentityConfigured():
		provider = identity.NewGoTrueClient(cfg.IdentityURL, cfg.IdentityKey, nil)
	}

	adapter := identity.NewAdapter(provider, identity.Options{
		Cache:    sessionCache,
		CacheTTL: cfg.SessionCacheTTL,
		Logger:   logger,
	})
	defer adapter.Close()
	slog.Info("identity adapter initialized",
		"backend", cfg.IdentityBackend,
		"configured", adapter.IsConfigured(),
	)

	ds, err := seed.Load()
	if err != nil {
		return fmt.Errorf("loading seed data: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	sched.Start()
	defer sched.Stop()

	r, err := newRouter(routerDeps{
		cfg:          cfg,
		db:           db,
		identity:     adapter,
		sessions:     sessionManager,
		events:       eventService,
		protection:   loginProtection,
		metrics:      metrics.New(),
		dataset:      ds,
		cache:        sessionCache,
		cacheBackend: cacheBackend,
		jobs:         sched.Registry(),
		version:      versionInfo,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
