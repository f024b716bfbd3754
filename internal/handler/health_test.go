// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/talenthub/internal/cache"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/scheduler"
	"github.com/olegiv/talenthub/internal/testutil"
)

// pingCache is a Cacher stub whose Ping returns err.
type pingCache struct {
	err error
}

func (c pingCache) Get(context.Context, string) ([]byte, error) { return nil, cache.ErrCacheMiss }

func (c pingCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c pingCache) Delete(context.Context, string) error { return nil }

func (c pingCache) Has(context.Context, string) (bool, error) { return false, nil }

func (c pingCache) Close() error { return nil }

func (c pingCache) Ping(context.Context) error { return c.err }

func TestHealth_Public(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, map[string]any{"status": "healthy"}, resp)
}

func TestHealth_AdminDetails(t *testing.T) {
	env := newTestEnv(t, true)
	token := env.token(t, "admin@example.com", model.RoleAdmin)

	w := env.serve(withBearer(httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil), token))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "v1.0.0 (abc1234)", resp["version"])
	assert.Equal(t, false, resp["demo"])
	assert.NotEmpty(t, resp["uptime"])

	checks := resp["checks"].(map[string]any)
	db := checks["database"].(map[string]any)
	assert.Equal(t, "healthy", db["status"])
	assert.Equal(t, "Connected", db["message"])
	c := checks["cache"].(map[string]any)
	assert.Equal(t, "Disabled", c["message"])

	jobs := resp["jobs"].([]any)
	require.Len(t, jobs, 1)
	assert.Equal(t, scheduler.JobEventRetention, jobs[0].(map[string]any)["name"])

	system := resp["system"].(map[string]any)
	assert.NotEmpty(t, system["go_version"])
}

func TestHealth_NonAdminSeesMinimal(t *testing.T) {
	env := newTestEnv(t, true)
	token := env.token(t, "hr@example.com", model.RoleHRAdmin)

	w := env.serve(withBearer(httptest.NewRequest(http.MethodGet, "/health", nil), token))

	resp := decodeBody(t, w)
	assert.Len(t, resp, 1)
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealth_CacheDegraded(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	h := NewHealthHandler(HealthConfig{DB: db, Cache: pingCache{err: errors.New("connection refused")}, CacheBackend: "redis"})
	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])

	h = NewHealthHandler(HealthConfig{DB: db, Cache: pingCache{}, CacheBackend: "redis"})
	check := h.checkCache(context.Background())
	assert.Equal(t, "healthy", check.Status)
	assert.Equal(t, "redis", check.Message)
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	cleanup()

	h := NewHealthHandler(HealthConfig{DB: db})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, w)["status"])

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "not_ready", resp["status"])
	assert.NotContains(t, resp, "message")
}

func TestHealth_LiveAndReady(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.serve(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", decodeBody(t, w)["status"])

	w = env.serve(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decodeBody(t, w)["status"])
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
