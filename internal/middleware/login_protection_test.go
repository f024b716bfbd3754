// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestLoginProtection returns a LoginProtection with a controllable clock.
func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Close)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Close()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "amina@example.com"

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("attempt %d must not lock", i)
		}
	}
	if got := lp.RemainingAttempts(email); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third attempt: locked=%v duration=%v", locked, d)
	}

	// Addresses are compared case-insensitively.
	if locked, remaining := lp.IsAccountLocked("  Amina@Example.com "); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked = %v, %v", locked, remaining)
	}

	*now = now.Add(61 * time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock must expire")
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, now := newTestLoginProtection(t, 1, time.Minute, time.Hour)
	email := "backoff@example.com"

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		locked, d := lp.RecordFailedAttempt(email)
		if !locked || d != w {
			t.Fatalf("lockout %d: locked=%v duration=%v, want %v", i+1, locked, d, w)
		}
		*now = now.Add(d + time.Second)
	}
}

func TestLoginProtectionBackoffCap(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 1, 20*time.Hour, time.Hour)
	lp.failedAttempts["cap@example.com"] = &loginAttempt{lockouts: 3, firstFailed: lp.now()}

	_, d := lp.RecordFailedAttempt("cap@example.com")
	if d != maxLockout {
		t.Errorf("duration = %v, want %v", d, maxLockout)
	}
}

func TestLoginProtectionAttemptWindowReset(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, 5*time.Minute)
	email := "window@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	*now = now.Add(6 * time.Minute)

	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts after window = %d, want 3", got)
	}
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("count must restart after the window")
	}
	if got := lp.RemainingAttempts(email); got != 2 {
		t.Errorf("RemainingAttempts = %d, want 2", got)
	}
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Minute)
	email := "ok@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, time.Minute)
	lp.RecordFailedAttempt("stale@example.com")

	*now = now.Add(2 * time.Minute)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	if len(lp.failedAttempts) != 0 {
		t.Errorf("stale entries left: %d", len(lp.failedAttempts))
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Close()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(method, ip string) int {
		req := httptest.NewRequest(method, "/auth/signin", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 5; i++ {
		if code := serve(http.MethodGet, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("GET must not be limited, got %d", code)
		}
	}
	for i := 0; i < 2; i++ {
		if code := serve(http.MethodPost, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("POST %d within burst got %d", i+1, code)
		}
	}
	if code := serve(http.MethodPost, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("POST over burst got %d, want 429", code)
	}
	if code := serve(http.MethodPost, "10.0.0.2"); code != http.StatusOK {
		t.Errorf("other IP got %d, want 200", code)
	}
}
