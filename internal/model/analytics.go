// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Metric is a headline figure with its period-over-period change in percent.
type Metric struct {
	Value float64 `json:"value" yaml:"value"`
	Trend float64 `json:"trend" yaml:"trend"`
}

// AnalyticsOverview holds the four headline recruitment metrics.
type AnalyticsOverview struct {
	TotalApplications Metric `json:"total_applications" yaml:"total_applications"`
	HireRate          Metric `json:"hire_rate" yaml:"hire_rate"`
	AvgTimeToHire     Metric `json:"avg_time_to_hire" yaml:"avg_time_to_hire"`
	CostPerHire       Metric `json:"cost_per_hire" yaml:"cost_per_hire"`
}

// MonthlyFigure is one point of the monthly applications/hires series.
type MonthlyFigure struct {
	Month        string `json:"month" yaml:"month"`
	Applications int    `json:"applications" yaml:"applications"`
	Hires        int    `json:"hires" yaml:"hires"`
}

// DepartmentFigure is the recruitment breakdown for one department.
type DepartmentFigure struct {
	Department   string `json:"department" yaml:"department"`
	Applications int    `json:"applications" yaml:"applications"`
	Hires        int    `json:"hires" yaml:"hires"`
	Budget       int64  `json:"budget" yaml:"budget"`
	AvgSalary    int64  `json:"avg_salary" yaml:"avg_salary"`
}

// SourceFigure is the share of applications coming from one channel.
type SourceFigure struct {
	Source     string  `json:"source" yaml:"source"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// PositionFigure summarises hiring performance for one role.
type PositionFigure struct {
	Position     string `json:"position" yaml:"position"`
	Applications int    `json:"applications" yaml:"applications"`
	Hires        int    `json:"hires" yaml:"hires"`
	AvgDays      int    `json:"avg_days" yaml:"avg_days"`
}

// AnalyticsData is the precomputed analytics dataset.
type AnalyticsData struct {
	Overview    AnalyticsOverview  `json:"overview" yaml:"overview"`
	Monthly     []MonthlyFigure    `json:"monthly" yaml:"monthly"`
	Departments []DepartmentFigure `json:"departments" yaml:"departments"`
	Sources     []SourceFigure     `json:"sources" yaml:"sources"`
	Positions   []PositionFigure   `json:"positions" yaml:"positions"`
}

// OverviewStat is one card on the dashboard landing page.
type OverviewStat struct {
	Key    string `json:"key" yaml:"key"`
	Title  string `json:"title" yaml:"title"`
	Value  int    `json:"value" yaml:"value"`
	Change string `json:"change" yaml:"change"`
}

// RecentApplication is an entry in the landing page activity list.
type RecentApplication struct {
	Name       string `json:"name" yaml:"name"`
	Position   string `json:"position" yaml:"position"`
	Department string `json:"department" yaml:"department"`
	Status     string `json:"status" yaml:"status"`
	Submitted  string `json:"submitted" yaml:"submitted"`
}

// TrainingHighlight is an enrolment summary for one training track.
type TrainingHighlight struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Enrolled    int    `json:"enrolled" yaml:"enrolled"`
}

// OverviewData is the dataset behind the dashboard landing page.
type OverviewData struct {
	Stats              []OverviewStat      `json:"stats" yaml:"stats"`
	RecentApplications []RecentApplication `json:"recent_applications" yaml:"recent_applications"`
	TrainingHighlights []TrainingHighlight `json:"training_highlights" yaml:"training_highlights"`
}
