// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/olegiv/talenthub/internal/model"
)

// RecentApplicationView is a landing page activity entry with its label.
type RecentApplicationView struct {
	model.RecentApplication
	StatusLabel string `json:"status_label"`
}

// OverviewReport is the dashboard landing page payload.
type OverviewReport struct {
	Stats              []model.OverviewStat      `json:"stats"`
	RecentApplications []RecentApplicationView   `json:"recent_applications"`
	TrainingHighlights []model.TrainingHighlight `json:"training_highlights"`
}

// OverviewService presents the landing page figures.
type OverviewService struct {
	data model.OverviewData
}

// NewOverviewService creates an OverviewService over data.
func NewOverviewService(data model.OverviewData) *OverviewService {
	return &OverviewService{data: data}
}

// Report builds the landing page payload.
func (s *OverviewService) Report() OverviewReport {
	recent := make([]RecentApplicationView, len(s.data.RecentApplications))
	for i, a := range s.data.RecentApplications {
		recent[i] = RecentApplicationView{RecentApplication: a, StatusLabel: model.FormatLabel(a.Status)}
	}

	return OverviewReport{
		Stats:              append([]model.OverviewStat(nil), s.data.Stats...),
		RecentApplications: recent,
		TrainingHighlights: append([]model.TrainingHighlight(nil), s.data.TrainingHighlights...),
	}
}
