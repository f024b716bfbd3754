// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Application statuses.
const (
	ApplicationSubmitted          = "submitted"
	ApplicationUnderReview        = "under_review"
	ApplicationShortlisted        = "shortlisted"
	ApplicationInterviewScheduled = "interview_scheduled"
	ApplicationRejected           = "rejected"
	ApplicationHired              = "hired"
)

// Position statuses and employment types.
const (
	PositionActive = "active"
	PositionPaused = "paused"
	PositionClosed = "closed"

	PositionPermanent = "permanent"
	PositionContract  = "contract"
)

// Talent availability values.
const (
	TalentAvailable            = "available"
	TalentSeekingOpportunities = "seeking_opportunities"
	TalentEmployedOpen         = "employed_open"
)

// Training program statuses and delivery types.
const (
	TrainingActive    = "active"
	TrainingUpcoming  = "upcoming"
	TrainingCompleted = "completed"

	TrainingOnline   = "online"
	TrainingHybrid   = "hybrid"
	TrainingInPerson = "in-person"
)

// Application is a candidate's application for a position.
type Application struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
	Position    string `json:"position" yaml:"position"`
	Department  string `json:"department" yaml:"department"`
	Location    string `json:"location" yaml:"location"`
	AppliedDate string `json:"applied_date" yaml:"applied_date"`
	Status      string `json:"status" yaml:"status"`
	Experience  string `json:"experience" yaml:"experience"`
	Education   string `json:"education" yaml:"education"`
	Score       int    `json:"score" yaml:"score"`
	Notes       string `json:"notes" yaml:"notes"`
}

// Position is an open (or closed) job posting.
type Position struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Department   string `json:"department" yaml:"department"`
	Location     string `json:"location" yaml:"location"`
	Type         string `json:"type" yaml:"type"`
	Salary       string `json:"salary" yaml:"salary"`
	Applications int    `json:"applications" yaml:"applications"`
	Posted       string `json:"posted" yaml:"posted"`
	Closing      string `json:"closing" yaml:"closing"`
	Status       string `json:"status" yaml:"status"`
	Description  string `json:"description" yaml:"description"`
	Requirements string `json:"requirements" yaml:"requirements"`
}

// Talent is a talent pool entry.
type Talent struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Email          string   `json:"email" yaml:"email"`
	Phone          string   `json:"phone" yaml:"phone"`
	Location       string   `json:"location" yaml:"location"`
	Title          string   `json:"title" yaml:"title"`
	Experience     string   `json:"experience" yaml:"experience"`
	Education      string   `json:"education" yaml:"education"`
	Skills         []string `json:"skills" yaml:"skills"`
	Rating         float64  `json:"rating" yaml:"rating"`
	Availability   string   `json:"availability" yaml:"availability"`
	LastActive     string   `json:"last_active" yaml:"last_active"`
	Salary         string   `json:"salary" yaml:"salary"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	Languages      []string `json:"languages" yaml:"languages"`
	Summary        string   `json:"summary" yaml:"summary"`
}

// TrainingProgram is a course offered to staff.
type TrainingProgram struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Description    string  `json:"description" yaml:"description"`
	Category       string  `json:"category" yaml:"category"`
	Type           string  `json:"type" yaml:"type"`
	Duration       string  `json:"duration" yaml:"duration"`
	Status         string  `json:"status" yaml:"status"`
	Enrolled       int     `json:"enrolled" yaml:"enrolled"`
	Capacity       int     `json:"capacity" yaml:"capacity"`
	Instructor     string  `json:"instructor" yaml:"instructor"`
	StartDate      string  `json:"start_date" yaml:"start_date"`
	EndDate        string  `json:"end_date" yaml:"end_date"`
	Rating         float64 `json:"rating" yaml:"rating"`
	Modules        int     `json:"modules" yaml:"modules"`
	CompletionRate int     `json:"completion_rate" yaml:"completion_rate"`
	Price          string  `json:"price" yaml:"price"`
	Level          string  `json:"level" yaml:"level"`
}
