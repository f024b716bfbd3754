// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/talenthub/internal/testutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	c := cron.New()
	t.Cleanup(func() { c.Stop() })
	return NewRegistry(c, testutil.TestLoggerSilent())
}

func countingJob(name string, calls *atomic.Int32, err error) Job {
	return Job{
		Name:            name,
		Description:     "counts runs",
		DefaultSchedule: "@every 1h",
		Run: func(context.Context) error {
			calls.Add(1)
			return err
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)
	var calls atomic.Int32

	if err := r.Register(countingJob("b_job", &calls, nil), ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(countingJob("a_job", &calls, nil), "*/5 * * * *"); err != nil {
		t.Fatalf("Register with override: %v", err)
	}

	jobs := r.List()
	if len(jobs) != 2 {
		t.Fatalf("List() = %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "a_job" || jobs[1].Name != "b_job" {
		t.Errorf("List() order = %s, %s", jobs[0].Name, jobs[1].Name)
	}
	if !jobs[0].IsOverridden || jobs[0].Schedule != "*/5 * * * *" {
		t.Errorf("a_job = %+v", jobs[0])
	}
	if jobs[1].IsOverridden || jobs[1].Schedule != "@every 1h" {
		t.Errorf("b_job = %+v", jobs[1])
	}
	if calls.Load() != 0 {
		t.Error("jobs must not run on registration")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := newTestRegistry(t)
	var calls atomic.Int32

	tests := []struct {
		name     string
		job      Job
		override string
	}{
		{"missing name", Job{DefaultSchedule: "@daily", Run: func(context.Context) error { return nil }}, ""},
		{"missing run", Job{Name: "x", DefaultSchedule: "@daily"}, ""},
		{"bad default", countingJob("bad", &calls, nil), "not a schedule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Register(tt.job, tt.override); err == nil {
				t.Error("Register() accepted an invalid job")
			}
		})
	}

	if err := r.Register(countingJob("dup", &calls, nil), ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(countingJob("dup", &calls, nil), ""); err == nil {
		t.Error("duplicate registration must fail")
	}
}

func TestRegistry_TriggerNow(t *testing.T) {
	r := newTestRegistry(t)
	var calls atomic.Int32
	boom := errors.New("boom")

	_ = r.Register(countingJob("ok", &calls, nil), "")
	_ = r.Register(countingJob("fails", &calls, boom), "")

	if err := r.TriggerNow(context.Background(), "ok"); err != nil {
		t.Errorf("TriggerNow(ok) = %v", err)
	}
	if err := r.TriggerNow(context.Background(), "fails"); !errors.Is(err, boom) {
		t.Errorf("TriggerNow(fails) = %v, want boom", err)
	}
	if err := r.TriggerNow(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("TriggerNow(missing) = %v, want ErrJobNotFound", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}

	for _, j := range r.List() {
		if j.LastRun.IsZero() {
			t.Errorf("%s: LastRun not recorded", j.Name)
		}
		if j.Name == "fails" && j.LastError != "boom" {
			t.Errorf("fails: LastError = %q", j.LastError)
		}
		if j.Name == "ok" && j.LastError != "" {
			t.Errorf("ok: LastError = %q", j.LastError)
		}
	}
}

func TestRegistry_JobTimeout(t *testing.T) {
	r := newTestRegistry(t)
	job := Job{
		Name:            "slow",
		DefaultSchedule: "@daily",
		Timeout:         20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	if err := r.Register(job, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.TriggerNow(context.Background(), "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("TriggerNow = %v, want deadline exceeded", err)
	}
}

func TestRegistry_SkipsOverlappingRun(t *testing.T) {
	r := newTestRegistry(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	job := Job{
		Name:            "long",
		DefaultSchedule: "@daily",
		Run: func(context.Context) error {
			if calls.Add(1) == 1 {
				close(started)
				<-release
			}
			return nil
		},
	}
	if err := r.Register(job, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.TriggerNow(context.Background(), "long") }()
	<-started

	if err := r.TriggerNow(context.Background(), "long"); err != nil {
		t.Errorf("overlapping TriggerNow = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("first run = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := newTestRegistry(t)
	var calls atomic.Int32
	_ = r.Register(countingJob("gone", &calls, nil), "")

	r.Unregister("gone")
	r.Unregister("never-registered")

	if len(r.List()) != 0 {
		t.Error("job still listed after Unregister")
	}
	if len(r.cron.Entries()) != 0 {
		t.Error("cron entry not removed")
	}
}
