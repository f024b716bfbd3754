// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: audit log retention and the
// purge of expired local access tokens.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names.
const (
	JobEventRetention = "event_retention"
	JobTokenPurge     = "token_purge"
)

// Default schedules.
const (
	DefaultRetentionSchedule  = "0 3 * * *"
	DefaultTokenPurgeSchedule = "*/15 * * * *"
)

// EventPruner deletes audit events older than a cutoff.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) error
}

// TokenPurger deletes expired access tokens.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler owns the cron instance and its job registry.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
}

// New creates a stopped scheduler.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		cron:     c,
		registry: NewRegistry(c, logger),
		logger:   logger,
	}
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RetentionJob deletes audit events older than retention.
func RetentionJob(events EventPruner, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:            JobEventRetention,
		Description:     "Delete audit events past the retention period",
		DefaultSchedule: DefaultRetentionSchedule,
		Run: func(ctx context.Context) error {
			if err := events.DeleteOldEvents(ctx, retention); err != nil {
				return err
			}
			logger.Info("old events deleted", "retention", retention)
			return nil
		},
	}
}

// TokenPurgeJob deletes expired local access tokens.
func TokenPurgeJob(tokens TokenPurger, logger *slog.Logger) Job {
	return Job{
		Name:            JobTokenPurge,
		Description:     "Delete expired local access tokens",
		DefaultSchedule: DefaultTokenPurgeSchedule,
		Run: func(ctx context.Context) error {
			n, err := tokens.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("expired access tokens purged", "count", n)
			}
			return nil
		},
	}
}
