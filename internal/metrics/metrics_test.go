// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.AuthAttempt("signin", ResultSuccess)
	m.AuthAttempt("signin", ResultFailure)
	m.AuthAttempt("signin", ResultFailure)
	m.ShellResolved("authorized", "")
	m.ViewServed("applications", true, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("signin", ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("signin", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shellResolutions.WithLabelValues("authorized", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewRequests.WithLabelValues("applications", "true")))
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/items/{id}", "418")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.AuthAttempt("signout", ResultSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `talenthub_auth_attempts_total{operation="signout",result="success"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
