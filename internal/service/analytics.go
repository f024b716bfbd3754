// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olegiv/talenthub/internal/model"
)

// Date range selector values.
const (
	Range30Days   = "30days"
	Range3Months  = "3months"
	Range6Months  = "6months"
	Range12Months = "12months"

	DefaultRange = Range12Months
)

// ErrUnknownRange is returned for a date range outside RangeOptions.
var ErrUnknownRange = errors.New("unknown date range")

// Trend directions.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// RangeOption is one entry of the date range selector.
type RangeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RangeOptions lists the supported date ranges.
var RangeOptions = []RangeOption{
	{Range30Days, "Last 30 Days"},
	{Range3Months, "Last 3 Months"},
	{Range6Months, "Last 6 Months"},
	{Range12Months, "Last 12 Months"},
}

// MetricView is a headline metric with its formatted trend.
type MetricView struct {
	Value      float64 `json:"value"`
	Trend      float64 `json:"trend"`
	Direction  string  `json:"direction"`
	TrendLabel string  `json:"trend_label"`
}

// OverviewView holds the headline metrics.
type OverviewView struct {
	TotalApplications MetricView `json:"total_applications"`
	HireRate          MetricView `json:"hire_rate"`
	AvgTimeToHire     MetricView `json:"avg_time_to_hire"`
	CostPerHire       MetricView `json:"cost_per_hire"`
	CostPerHireLabel  string     `json:"cost_per_hire_label"`
}

// MonthlyRow is a monthly point with its conversion rate.
type MonthlyRow struct {
	model.MonthlyFigure
	HireRate string `json:"hire_rate"`
}

// DepartmentRow is a department breakdown with derived labels.
type DepartmentRow struct {
	model.DepartmentFigure
	HireRate       string `json:"hire_rate"`
	BudgetLabel    string `json:"budget_label"`
	AvgSalaryLabel string `json:"avg_salary_label"`
}

// PositionRow is a per-role breakdown with its success rate.
type PositionRow struct {
	model.PositionFigure
	SuccessRate string `json:"success_rate"`
}

// AnalyticsReport is the analytics page payload.
type AnalyticsReport struct {
	Range       string               `json:"range"`
	Ranges      []RangeOption        `json:"ranges"`
	Overview    OverviewView         `json:"overview"`
	Monthly     []MonthlyRow         `json:"monthly"`
	Departments []DepartmentRow      `json:"departments"`
	Sources     []model.SourceFigure `json:"sources"`
	Positions   []PositionRow        `json:"positions"`
}

// AnalyticsService presents the precomputed analytics dataset. It derives
// ratios and trend directions only; the figures themselves are fixed.
type AnalyticsService struct {
	data model.AnalyticsData
}

// NewAnalyticsService creates an AnalyticsService over data.
func NewAnalyticsService(data model.AnalyticsData) *AnalyticsService {
	return &AnalyticsService{data: data}
}

// ValidRange reports whether r is a known date range.
func ValidRange(r string) bool {
	for _, o := range RangeOptions {
		if o.Value == r {
			return true
		}
	}
	return false
}

// Report builds the analytics payload. An empty range selects DefaultRange.
// The range is echoed back; the dataset does not vary with it.
func (s *AnalyticsService) Report(dateRange string) (AnalyticsReport, error) {
	if dateRange == "" {
		dateRange = DefaultRange
	}
	if !ValidRange(dateRange) {
		return AnalyticsReport{}, fmt.Errorf("%w: %q", ErrUnknownRange, dateRange)
	}

	d := s.data
	report := AnalyticsReport{
		Range:  dateRange,
		Ranges: RangeOptions,
		Overview: OverviewView{
			TotalApplications: metricView(d.Overview.TotalApplications),
			HireRate:          metricView(d.Overview.HireRate),
			AvgTimeToHire:     metricView(d.Overview.AvgTimeToHire),
			CostPerHire:       metricView(d.Overview.CostPerHire),
			CostPerHireLabel:  strconv.FormatFloat(d.Overview.CostPerHire.Value/1000, 'f', 0, 64) + "K",
		},
		Monthly:     make([]MonthlyRow, len(d.Monthly)),
		Departments: make([]DepartmentRow, len(d.Departments)),
		Sources:     append([]model.SourceFigure(nil), d.Sources...),
		Positions:   make([]PositionRow, len(d.Positions)),
	}

	for i, m := range d.Monthly {
		report.Monthly[i] = MonthlyRow{MonthlyFigure: m, HireRate: FormatPercent(m.Hires, m.Applications, 1)}
	}
	for i, dep := range d.Departments {
		report.Departments[i] = DepartmentRow{
			DepartmentFigure: dep,
			HireRate:         FormatPercent(dep.Hires, dep.Applications, 1),
			BudgetLabel:      "UGX " + strconv.FormatFloat(float64(dep.Budget)/1e6, 'f', 0, 64) + "M",
			AvgSalaryLabel:   "UGX " + strconv.FormatFloat(float64(dep.AvgSalary)/1e6, 'f', 1, 64) + "M",
		}
	}
	for i, p := range d.Positions {
		report.Positions[i] = PositionRow{PositionFigure: p, SuccessRate: FormatPercent(p.Hires, p.Applications, 1)}
	}

	return report, nil
}

func metricView(m model.Metric) MetricView {
	return MetricView{
		Value:      m.Value,
		Trend:      m.Trend,
		Direction:  TrendDirection(m.Trend),
		TrendLabel: FormatTrend(m.Trend),
	}
}

// TrendDirection maps the sign of a change to up, down or flat.
func TrendDirection(change float64) string {
	switch {
	case change > 0:
		return TrendUp
	case change < 0:
		return TrendDown
	}
	return TrendFlat
}

// FormatTrend renders a change in percent with an explicit sign, e.g. "+12.5%".
func FormatTrend(change float64) string {
	s := strconv.FormatFloat(change, 'f', 1, 64) + "%"
	if change > 0 {
		return "+" + s
	}
	return s
}

// FormatPercent renders part/whole as a percentage with the given number of
// decimals. A zero whole yields 0.
func FormatPercent(part, whole, decimals int) string {
	if whole == 0 {
		return strconv.FormatFloat(0, 'f', decimals, 64) + "%"
	}
	ratio := float64(part) / float64(whole) * 100
	return strconv.FormatFloat(roundTo(ratio, decimals), 'f', decimals, 64) + "%"
}
