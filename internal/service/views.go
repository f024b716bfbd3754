// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"math"

	"github.com/olegiv/talenthub/internal/listing"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/seed"
)

// Filter dimension names, also used as query parameters.
const (
	DimStatus       = "status"
	DimDepartment   = "department"
	DimType         = "type"
	DimAvailability = "availability"
	DimLocation     = "location"
	DimExperience   = "experience"
	DimCategory     = "category"
)

// ApplicationItem is an application with its display label.
type ApplicationItem struct {
	model.Application
	StatusLabel string `json:"status_label"`
}

// PositionItem is a job posting with its display labels.
type PositionItem struct {
	model.Position
	StatusLabel string `json:"status_label"`
	TypeLabel   string `json:"type_label"`
}

// TalentItem is a talent pool entry with its experience band.
type TalentItem struct {
	model.Talent
	AvailabilityLabel string `json:"availability_label"`
	ExperienceBand    string `json:"experience_band,omitempty"`
}

// TrainingItem is a training program with its enrolment rate.
type TrainingItem struct {
	model.TrainingProgram
	StatusLabel    string `json:"status_label"`
	EnrollmentRate string `json:"enrollment_rate"`
}

// ApplicationStats are the header counters of the applications view.
type ApplicationStats struct {
	Total              int `json:"total"`
	Submitted          int `json:"submitted"`
	UnderReview        int `json:"under_review"`
	Shortlisted        int `json:"shortlisted"`
	InterviewScheduled int `json:"interview_scheduled"`
	Hired              int `json:"hired"`
	Rejected           int `json:"rejected"`
}

// PositionStats are the header counters of the positions view.
type PositionStats struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Paused            int `json:"paused"`
	Closed            int `json:"closed"`
	TotalApplications int `json:"total_applications"`
}

// TalentStats are the header counters of the talent pool view.
type TalentStats struct {
	Total     int     `json:"total"`
	Available int     `json:"available"`
	Seeking   int     `json:"seeking"`
	AvgRating float64 `json:"avg_rating"`
}

// TrainingStats are the header counters of the training view.
type TrainingStats struct {
	TotalPrograms  int     `json:"total_programs"`
	ActivePrograms int     `json:"active_programs"`
	TotalEnrolled  int     `json:"total_enrolled"`
	AvgRating      float64 `json:"avg_rating"`
}

// Views holds the four list-and-filter views built from the seed dataset.
type Views struct {
	Applications *listing.View[ApplicationItem, ApplicationStats]
	Positions    *listing.View[PositionItem, PositionStats]
	Talent       *listing.View[TalentItem, TalentStats]
	Training     *listing.View[TrainingItem, TrainingStats]
}

// NewViews builds the views over ds.
func NewViews(ds *seed.Dataset) *Views {
	return &Views{
		Applications: newApplicationsView(ds.Applications),
		Positions:    newPositionsView(ds.Positions),
		Talent:       newTalentView(ds.Talent),
		Training:     newTrainingView(ds.Training),
	}
}

func newApplicationsView(records []model.Application) *listing.View[ApplicationItem, ApplicationStats] {
	items := make([]ApplicationItem, len(records))
	for i, a := range records {
		items[i] = ApplicationItem{Application: a, StatusLabel: model.FormatLabel(a.Status)}
	}

	return listing.New(listing.Config[ApplicationItem, ApplicationStats]{
		Name:    "applications",
		Records: items,
		SearchFields: func(a ApplicationItem) []string {
			return []string{a.Name, a.Position}
		},
		Dimensions: []listing.Dimension[ApplicationItem]{
			{
				Name:  DimStatus,
				Value: func(a ApplicationItem) string { return a.Status },
				Options: []string{
					model.ApplicationSubmitted,
					model.ApplicationUnderReview,
					model.ApplicationShortlisted,
					model.ApplicationInterviewScheduled,
					model.ApplicationRejected,
					model.ApplicationHired,
				},
			},
			{Name: DimDepartment, Value: func(a ApplicationItem) string { return a.Department }},
		},
		Stats: func(all []ApplicationItem) ApplicationStats {
			s := ApplicationStats{Total: len(all)}
			for _, a := range all {
				switch a.Status {
				case model.ApplicationSubmitted:
					s.Submitted++
				case model.ApplicationUnderReview:
					s.UnderReview++
				case model.ApplicationShortlisted:
					s.Shortlisted++
				case model.ApplicationInterviewScheduled:
					s.InterviewScheduled++
				case model.ApplicationHired:
					s.Hired++
				case model.ApplicationRejected:
					s.Rejected++
				}
			}
			return s
		},
		EmptyMessage: "No applications match your search criteria.",
	})
}

func newPositionsView(records []model.Position) *listing.View[PositionItem, PositionStats] {
	items := make([]PositionItem, len(records))
	for i, p := range records {
		items[i] = PositionItem{
			Position:    p,
			StatusLabel: model.FormatLabel(p.Status),
			TypeLabel:   model.FormatLabel(p.Type),
		}
	}

	return listing.New(listing.Config[PositionItem, PositionStats]{
		Name:    "positions",
		Records: items,
		SearchFields: func(p PositionItem) []string {
			return []string{p.Title, p.Department}
		},
		Dimensions: []listing.Dimension[PositionItem]{
			{
				Name:    DimStatus,
				Value:   func(p PositionItem) string { return p.Status },
				Options: []string{model.PositionActive, model.PositionPaused, model.PositionClosed},
			},
			{Name: DimDepartment, Value: func(p PositionItem) string { return p.Department }},
			{
				Name:    DimType,
				Value:   func(p PositionItem) string { return p.Type },
				Options: []string{model.PositionPermanent, model.PositionContract},
			},
		},
		Stats: func(all []PositionItem) PositionStats {
			s := PositionStats{Total: len(all)}
			for _, p := range all {
				switch p.Status {
				case model.PositionActive:
					s.Active++
				case model.PositionPaused:
					s.Paused++
				case model.PositionClosed:
					s.Closed++
				}
				s.TotalApplications += p.Applications
			}
			return s
		},
		EmptyMessage: "No positions match your search criteria.",
	})
}

func newTalentView(records []model.Talent) *listing.View[TalentItem, TalentStats] {
	items := make([]TalentItem, len(records))
	for i, t := range records {
		items[i] = TalentItem{
			Talent:            t,
			AvailabilityLabel: model.FormatLabel(t.Availability),
			ExperienceBand:    experienceBand(t.Experience),
		}
	}

	return listing.New(listing.Config[TalentItem, TalentStats]{
		Name:    "talent_pool",
		Records: items,
		SearchFields: func(t TalentItem) []string {
			fields := make([]string, 0, 2+len(t.Skills))
			fields = append(fields, t.Name, t.Title)
			return append(fields, t.Skills...)
		},
		Dimensions: []listing.Dimension[TalentItem]{
			{
				Name:  DimAvailability,
				Value: func(t TalentItem) string { return t.Availability },
				Options: []string{
					model.TalentAvailable,
					model.TalentSeekingOpportunities,
					model.TalentEmployedOpen,
				},
			},
			{Name: DimLocation, Value: func(t TalentItem) string { return t.Location }},
			{
				Name:    DimExperience,
				Match:   func(t TalentItem, band string) bool { return listing.InBand(t.Experience, band) },
				Options: listing.ExperienceBands,
			},
		},
		Stats: func(all []TalentItem) TalentStats {
			s := TalentStats{Total: len(all)}
			ratings := make([]float64, len(all))
			for i, t := range all {
				switch t.Availability {
				case model.TalentAvailable:
					s.Available++
				case model.TalentSeekingOpportunities:
					s.Seeking++
				}
				ratings[i] = t.Rating
			}
			s.AvgRating = averageRating(ratings)
			return s
		},
		EmptyMessage: "No candidates match your search criteria.",
	})
}

func newTrainingView(records []model.TrainingProgram) *listing.View[TrainingItem, TrainingStats] {
	items := make([]TrainingItem, len(records))
	for i, p := range records {
		items[i] = TrainingItem{
			TrainingProgram: p,
			StatusLabel:     model.FormatLabel(p.Status),
			EnrollmentRate:  FormatPercent(p.Enrolled, p.Capacity, 0),
		}
	}

	return listing.New(listing.Config[TrainingItem, TrainingStats]{
		Name:    "training",
		Records: items,
		SearchFields: func(p TrainingItem) []string {
			return []string{p.Title, p.Description}
		},
		Dimensions: []listing.Dimension[TrainingItem]{
			{
				Name:    DimStatus,
				Value:   func(p TrainingItem) string { return p.Status },
				Options: []string{model.TrainingActive, model.TrainingUpcoming, model.TrainingCompleted},
			},
			{Name: DimCategory, Value: func(p TrainingItem) string { return p.Category }},
			{
				Name:    DimType,
				Value:   func(p TrainingItem) string { return p.Type },
				Options: []string{model.TrainingOnline, model.TrainingHybrid, model.TrainingInPerson},
			},
		},
		Stats: func(all []TrainingItem) TrainingStats {
			s := TrainingStats{TotalPrograms: len(all)}
			ratings := make([]float64, len(all))
			for i, p := range all {
				if p.Status == model.TrainingActive {
					s.ActivePrograms++
				}
				s.TotalEnrolled += p.Enrolled
				ratings[i] = p.Rating
			}
			s.AvgRating = averageRating(ratings)
			return s
		},
		EmptyMessage: "No training programs match your search criteria.",
	})
}

// averageRating returns the mean rounded to one decimal place, 0 for no
// ratings.
func averageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return roundTo(sum/float64(len(ratings)), 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func experienceBand(text string) string {
	for _, band := range listing.ExperienceBands {
		if listing.InBand(text, band) {
			return band
		}
	}
	return ""
}
