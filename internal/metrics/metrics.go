// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus counters for sign-in traffic, shell
// resolutions, list views and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "talenthub"

// Auth operation results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDemo    = "demo"
	ResultLocked  = "locked"
)

// Metrics holds the application collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	authAttempts     *prometheus.CounterVec
	shellResolutions *prometheus.CounterVec
	viewRequests     *prometheus.CounterVec
	viewResults      *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		authAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Identity operations by operation and result.",
		}, []string{"operation", "result"}),
		shellResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shell_resolutions_total",
			Help:      "Dashboard shell resolutions by final state and reason.",
		}, []string{"state", "reason"}),
		viewRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_requests_total",
			Help:      "List view requests by view and whether a filter was active.",
		}, []string{"view", "filtered"}),
		viewResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_result_items",
			Help:      "Number of items returned by list views.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"view"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AuthAttempt counts one identity operation.
func (m *Metrics) AuthAttempt(operation, result string) {
	m.authAttempts.WithLabelValues(operation, result).Inc()
}

// ShellResolved counts one shell resolution.
func (m *Metrics) ShellResolved(state, reason string) {
	m.shellResolutions.WithLabelValues(state, reason).Inc()
}

// ViewServed records a list view response.
func (m *Metrics) ViewServed(view string, filtered bool, items int) {
	m.viewRequests.WithLabelValues(view, strconv.FormatBool(filtered)).Inc()
	m.viewResults.WithLabelValues(view).Observe(float64(items))
}

// Middleware records request counts and latency labelled by the chi route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
