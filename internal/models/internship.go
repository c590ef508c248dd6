// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Internship is a posted internship offer.
type Internship struct {
	ID             int64     `json:"id"`
	PosterID       int64     `json:"poster_id"`
	PosterName     string    `json:"poster_name,omitempty"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Duration       string    `json:"duration"`
	Requirements   string    `json:"requirements"`
	ApplicantCount int       `json:"applicant_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// InternshipApplication is one user's application to an internship.
type InternshipApplication struct {
	ID              int64     `json:"id"`
	InternshipID    int64     `json:"internship_id"`
	InternshipTitle string    `json:"internship_title,omitempty"`
	Company         string    `json:"company,omitempty"`
	ApplicantID     int64     `json:"applicant_id"`
	ApplicantName   string    `json:"applicant_name,omitempty"`
	ApplicantEmail  string    `json:"applicant_email,omitempty"`
	CoverLetter     string    `json:"cover_letter,omitempty"`
	ResumeURL       string    `json:"resume_url,omitempty"`
	Status          string    `json:"status"`
	AppliedAt       time.Time `json:"applied_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var applicationTransitions = map[string][]string{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionApplication reports whether an application may move between
// statuses. Accepted and rejected are terminal.
func CanTransitionApplication(from, to string) bool {
	return allowed(applicationTransitions, from, to)
}
