// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/talenthub/internal/listing"
	"github.com/olegiv/talenthub/internal/metrics"
	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/service"
	"github.com/olegiv/talenthub/internal/shell"
)

// DashboardHandler serves the dashboard pages. Every route is expected
// behind middleware.Bootstrap and middleware.RequireDashboard.
type DashboardHandler struct {
	views     *service.Views
	overview  *service.OverviewService
	analytics *service.AnalyticsService
	metrics   *metrics.Metrics
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(views *service.Views, overview *service.OverviewService,
	analytics *service.AnalyticsService, m *metrics.Metrics) *DashboardHandler {
	return &DashboardHandler{
		views:     views,
		overview:  overview,
		analytics: analytics,
		metrics:   m,
	}
}

// OverviewResponse is the landing page payload.
type OverviewResponse struct {
	PageMeta
	service.OverviewReport
}

// NavResponse is the navigation menu payload.
type NavResponse struct {
	PageMeta
	Items []shell.NavItem `json:"items"`
}

// ViewResponse is a list-and-filter view payload.
type ViewResponse[T, S any] struct {
	PageMeta
	View string `json:"view"`
	listing.Result[T, S]
}

// AnalyticsResponse is the analytics page payload.
type AnalyticsResponse struct {
	PageMeta
	service.AnalyticsReport
}

// SettingsResponse is the account settings payload.
type SettingsResponse struct {
	PageMeta
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Overview handles GET /dashboard.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OverviewResponse{
		PageMeta:       pageMeta(r),
		OverviewReport: h.overview.Report(),
	})
}

// Nav handles GET /dashboard/nav.
func (h *DashboardHandler) Nav(w http.ResponseWriter, r *http.Request) {
	sh := middleware.GetShell(r)
	if sh == nil {
		logAndInternalError(w, r, "navigation requested without shell")
		return
	}
	writeJSON(w, http.StatusOK, NavResponse{
		PageMeta: pageMeta(r),
		Items:    shell.Navigation(sh.Store()),
	})
}

// Applications handles GET /dashboard/applications.
func (h *DashboardHandler) Applications(w http.ResponseWriter, r *http.Request) {
	serveView(w, r, h.metrics, h.views.Applications)
}

// Positions handles GET /dashboard/positions.
func (h *DashboardHandler) Positions(w http.ResponseWriter, r *http.Request) {
	serveView(w, r, h.metrics, h.views.Positions)
}

// TalentPool handles GET /dashboard/talent-pool.
func (h *DashboardHandler) TalentPool(w http.ResponseWriter, r *http.Request) {
	serveView(w, r, h.metrics, h.views.Talent)
}

// Training handles GET /dashboard/training.
func (h *DashboardHandler) Training(w http.ResponseWriter, r *http.Request) {
	serveView(w, r, h.metrics, h.views.Training)
}

// Analytics handles GET /dashboard/analytics?range=.
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Report(r.URL.Query().Get("range"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownRange) {
			options := make(map[string]string, len(service.RangeOptions))
			for _, o := range service.RangeOptions {
				options[o.Value] = o.Label
			}
			middleware.WriteAPIError(w, http.StatusBadRequest, "invalid_range", "Unknown date range", options)
			return
		}
		logAndInternalError(w, r, "analytics report failed", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyticsResponse{
		PageMeta:        pageMeta(r),
		AnalyticsReport: report,
	})
}

// Settings handles GET /dashboard/settings.
func (h *DashboardHandler) Settings(w http.ResponseWriter, r *http.Request) {
	resp := SettingsResponse{PageMeta: pageMeta(r)}
	if p := resp.Profile; p != nil {
		resp.Email = p.Email
		resp.Name = p.FullName()
	}
	writeJSON(w, http.StatusOK, resp)
}

// serveView applies the query's search and selectors to v.
func serveView[T, S any](w http.ResponseWriter, r *http.Request, m *metrics.Metrics, v *listing.View[T, S]) {
	state := listing.FromQuery(r.URL.Query(), v.DimensionNames()...)
	result := v.Apply(state)

	m.ViewServed(v.Name(), !state.IsEmpty(), result.Count)

	writeJSON(w, http.StatusOK, ViewResponse[T, S]{
		PageMeta: pageMeta(r),
		View:     v.Name(),
		Result:   result,
	})
}
