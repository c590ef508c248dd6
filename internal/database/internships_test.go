// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/skillswap/internal/models"
)

func TestInternships(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	poster := createTestUser(t, db, "poster")
	applicant := createTestUser(t, db, "applicant")

	_, err := db.CreateInternship(ctx, &models.Internship{PosterID: poster.ID, Title: "Backend intern"})
	assertKind(t, err, ErrInvalidInput)

	in, err := db.CreateInternship(ctx, &models.Internship{
		PosterID:     poster.ID,
		Title:        "Backend intern",
		Company:      "Cedar Labs",
		Description:  "Build APIs in Go",
		Location:     "Beirut",
		Duration:     "3 months",
		Requirements: "Basic SQL",
	})
	if err != nil {
		t.Fatalf("CreateInternship: %v", err)
	}

	_, err = db.ApplyToInternship(ctx, &models.InternshipApplication{InternshipID: in.ID, ApplicantID: poster.ID})
	assertKind(t, err, ErrForbidden)

	_, err = db.ApplyToInternship(ctx, &models.InternshipApplication{InternshipID: in.ID, ApplicantID: applicant.ID, ResumeURL: "not a url"})
	assertKind(t, err, ErrInvalidInput)

	app, err := db.ApplyToInternship(ctx, &models.InternshipApplication{
		InternshipID: in.ID,
		ApplicantID:  applicant.ID,
		CoverLetter:  "I love Go",
		ResumeURL:    "https://example.com/cv.pdf",
	})
	if err != nil {
		t.Fatalf("ApplyToInternship: %v", err)
	}
	if app.Status != models.ApplicationPending || app.InternshipTitle != "Backend intern" {
		t.Errorf("application = %+v", app)
	}

	_, err = db.ApplyToInternship(ctx, &models.InternshipApplication{InternshipID: in.ID, ApplicantID: applicant.ID})
	assertKind(t, err, ErrConflict)

	_, err = db.ListApplicants(ctx, applicant.ID, in.ID)
	assertKind(t, err, ErrForbidden)
	applicants, err := db.ListApplicants(ctx, poster.ID, in.ID)
	if err != nil || len(applicants) != 1 || applicants[0].ApplicantEmail != applicant.Email {
		t.Errorf("ListApplicants = %+v, %v", applicants, err)
	}

	listed, err := db.ListInternships(ctx)
	if err != nil || len(listed) != 1 || listed[0].ApplicantCount != 1 {
		t.Errorf("ListInternships = %+v, %v", listed, err)
	}

	_, err = db.UpdateApplicationStatus(ctx, applicant.ID, app.ID, models.ApplicationAccepted)
	assertKind(t, err, ErrForbidden)
	accepted, err := db.UpdateApplicationStatus(ctx, poster.ID, app.ID, models.ApplicationAccepted)
	if err != nil {
		t.Fatalf("UpdateApplicationStatus: %v", err)
	}
	if accepted.Status != models.ApplicationAccepted {
		t.Errorf("status = %s", accepted.Status)
	}
	_, err = db.UpdateApplicationStatus(ctx, poster.ID, app.ID, models.ApplicationRejected)
	assertKind(t, err, ErrInvalidTransition)

	applied, err := db.ListAppliedInternships(ctx, applicant.ID)
	if err != nil || len(applied) != 1 {
		t.Errorf("ListAppliedInternships = %d, %v", len(applied), err)
	}
	mine, err := db.ListPostedInternships(ctx, poster.ID)
	if err != nil || len(mine) != 1 {
		t.Errorf("ListPostedInternships = %d, %v", len(mine), err)
	}
}
