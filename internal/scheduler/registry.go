// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrJobNotFound is returned for an unknown job name.
var ErrJobNotFound = errors.New("job not found")

// Job is a named background task.
type Job struct {
	Name        string
	Description string
	// DefaultSchedule is used when Register gets no override.
	DefaultSchedule string
	// Timeout bounds a single run; zero means DefaultJobTimeout.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// DefaultJobTimeout bounds a job run without an explicit timeout.
const DefaultJobTimeout = time.Minute

type registeredJob struct {
	job      Job
	schedule string
	entryID  cron.EntryID

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultSchedule string    `json:"default_schedule"`
	Schedule        string    `json:"schedule"`
	IsOverridden    bool      `json:"is_overridden"`
	LastRun         time.Time `json:"last_run,omitzero"`
	NextRun         time.Time `json:"next_run,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
}

// Registry tracks the jobs added to a cron instance.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

// NewRegistry creates a registry adding jobs to c.
func NewRegistry(c *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   c,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds job to the cron instance. A non-empty override replaces the
// job's default schedule.
func (r *Registry) Register(job Job, override string) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job needs a name and a run function")
	}
	schedule := job.DefaultSchedule
	if override != "" {
		schedule = override
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q for %s: %w", schedule, job.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.Name]; exists {
		return fmt.Errorf("job already registered: %s", job.Name)
	}

	rj := &registeredJob{job: job, schedule: schedule}
	id, err := r.cron.AddFunc(schedule, func() { _ = r.execute(context.Background(), rj) })
	if err != nil {
		return fmt.Errorf("adding %s to cron: %w", job.Name, err)
	}
	rj.entryID = id
	r.jobs[job.Name] = rj

	r.logger.Debug("registered scheduled job", "name", job.Name, "schedule", schedule)
	return nil
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, rj := range r.jobs {
		info := JobInfo{
			Name:            rj.job.Name,
			Description:     rj.job.Description,
			DefaultSchedule: rj.job.DefaultSchedule,
			Schedule:        rj.schedule,
			IsOverridden:    rj.schedule != rj.job.DefaultSchedule,
		}
		info.NextRun = r.cron.Entry(rj.entryID).Next

		rj.mu.Lock()
		info.LastRun = rj.lastRun
		if rj.lastErr != nil {
			info.LastError = rj.lastErr.Error()
		}
		rj.mu.Unlock()

		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// TriggerNow runs a job immediately and returns its error.
func (r *Registry) TriggerNow(ctx context.Context, name string) error {
	r.mu.RLock()
	rj, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	r.logger.Info("manually triggering job", "name", name)
	return r.execute(ctx, rj)
}

// Unregister removes a job from the registry and from cron.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rj, ok := r.jobs[name]
	if !ok {
		return
	}
	r.cron.Remove(rj.entryID)
	delete(r.jobs, name)
	r.logger.Debug("unregistered scheduled job", "name", name)
}

// execute runs rj unless a previous run is still in progress.
func (r *Registry) execute(ctx context.Context, rj *registeredJob) error {
	rj.mu.Lock()
	if rj.running {
		rj.mu.Unlock()
		r.logger.Warn("skipping job run, previous run still in progress", "name", rj.job.Name)
		return nil
	}
	rj.running = true
	rj.mu.Unlock()

	timeout := rj.job.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := rj.job.Run(ctx)

	rj.mu.Lock()
	rj.running = false
	rj.lastRun = start
	rj.lastErr = err
	rj.mu.Unlock()

	if err != nil {
		r.logger.Error("scheduled job failed", "name", rj.job.Name, "error", err)
		return err
	}
	r.logger.Debug("scheduled job finished", "name", rj.job.Name, "duration", time.Since(start))
	return nil
}
