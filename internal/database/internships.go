// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/models"
)

const internshipSelect = `
	SELECT i.id, i.poster_id, COALESCE(u.name, ''), i.title, i.company, i.description, i.location,
	       i.duration, i.requirements,
	       (SELECT COUNT(*) FROM internship_applications a WHERE a.internship_id = i.id),
	       i.created_at
	FROM internships i
	LEFT JOIN users u ON u.id = i.poster_id`

const applicationSelect = `
	SELECT a.id, a.internship_id, COALESCE(i.title, ''), COALESCE(i.company, ''), a.applicant_id,
	       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(a.cover_letter, ''), COALESCE(a.resume_url, ''),
	       a.status, a.applied_at, a.updated_at
	FROM internship_applications a
	LEFT JOIN internships i ON i.id = a.internship_id
	LEFT JOIN users u ON u.id = a.applicant_id`

func scanInternship(row rowScanner) (*models.Internship, error) {
	i := &models.Internship{}
	err := row.Scan(&i.ID, &i.PosterID, &i.PosterName, &i.Title, &i.Company, &i.Description,
		&i.Location, &i.Duration, &i.Requirements, &i.ApplicantCount, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func scanApplication(row rowScanner) (*models.InternshipApplication, error) {
	a := &models.InternshipApplication{}
	err := row.Scan(&a.ID, &a.InternshipID, &a.InternshipTitle, &a.Company, &a.ApplicantID,
		&a.ApplicantName, &a.ApplicantEmail, &a.CoverLetter, &a.ResumeURL, &a.Status, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (db *DB) queryInternships(ctx context.Context, query string, args ...interface{}) ([]models.Internship, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query internships: %w", err)
	}
	defer rows.Close()

	out := make([]models.Internship, 0)
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan internship: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (db *DB) queryApplications(ctx context.Context, query string, args ...interface{}) ([]models.InternshipApplication, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	out := make([]models.InternshipApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CreateInternship posts an internship offer. Every text field is required.
func (db *DB) CreateInternship(ctx context.Context, in *models.Internship) (*models.Internship, error) {
	fields := []*string{&in.Title, &in.Company, &in.Description, &in.Location, &in.Duration, &in.Requirements}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return nil, invalidInput("All fields are required")
		}
	}

	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO internships (poster_id, title, company, description, location, duration, requirements, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		in.PosterID, in.Title, in.Company, in.Description, in.Location, in.Duration, in.Requirements,
		time.Now().UTC()).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert internship: %w", err)
	}
	return db.GetInternship(ctx, id)
}

// GetInternship returns an internship or ErrNotFound.
func (db *DB) GetInternship(ctx context.Context, id int64) (*models.Internship, error) {
	i, err := scanInternship(db.conn.QueryRowContext(ctx, internshipSelect+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Internship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get internship: %w", err)
	}
	return i, nil
}

// ListInternships returns every internship with its applicant count.
func (db *DB) ListInternships(ctx context.Context) ([]models.Internship, error) {
	return db.queryInternships(ctx, internshipSelect+` ORDER BY i.created_at DESC, i.id DESC`)
}

// ListPostedInternships returns the internships a user posted.
func (db *DB) ListPostedInternships(ctx context.Context, posterID int64) ([]models.Internship, error) {
	return db.queryInternships(ctx, internshipSelect+` WHERE i.poster_id = ? ORDER BY i.created_at DESC, i.id DESC`, posterID)
}

// ApplyToInternship records an application. Posters cannot apply to their
// own internship and a user may apply once.
func (db *DB) ApplyToInternship(ctx context.Context, app *models.InternshipApplication) (*models.InternshipApplication, error) {
	if app.ResumeURL != "" && !validLink(app.ResumeURL) {
		return nil, invalidInput("Invalid resume URL")
	}

	var id int64
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var poster int64
		err := tx.QueryRowContext(ctx, `SELECT poster_id FROM internships WHERE id = ?`, app.InternshipID).Scan(&poster)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Internship not found")
		}
		if err != nil {
			return fmt.Errorf("get internship: %w", err)
		}
		if poster == app.ApplicantID {
			return forbidden("You cannot apply to your own internship")
		}

		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM internship_applications WHERE internship_id = ? AND applicant_id = ?`,
			app.InternshipID, app.ApplicantID).Scan(&n); err != nil {
			return fmt.Errorf("check application: %w", err)
		}
		if n > 0 {
			return conflict("You have already applied to this internship")
		}

		now := time.Now().UTC()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO internship_applications (internship_id, applicant_id, cover_letter, resume_url, status, applied_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			app.InternshipID, app.ApplicantID, nullString(strings.TrimSpace(app.CoverLetter)),
			nullString(app.ResumeURL), models.ApplicationPending, now, now).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return conflict("You have already applied to this internship")
			}
			return fmt.Errorf("insert application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetApplication(ctx, id)
}

// GetApplication returns an application or ErrNotFound.
func (db *DB) GetApplication(ctx context.Context, id int64) (*models.InternshipApplication, error) {
	a, err := scanApplication(db.conn.QueryRowContext(ctx, applicationSelect+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Application not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// ListApplicants returns the applications to an internship. Only the poster
// may see them.
func (db *DB) ListApplicants(ctx context.Context, posterID, internshipID int64) ([]models.InternshipApplication, error) {
	i, err := db.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if i.PosterID != posterID {
		return nil, forbidden("Only the poster can view applicants")
	}
	return db.queryApplications(ctx, applicationSelect+` WHERE a.internship_id = ? ORDER BY a.applied_at DESC, a.id DESC`, internshipID)
}

// ListAppliedInternships returns a user's own applications.
func (db *DB) ListAppliedInternships(ctx context.Context, applicantID int64) ([]models.InternshipApplication, error) {
	return db.queryApplications(ctx, applicationSelect+` WHERE a.applicant_id = ? ORDER BY a.applied_at DESC, a.id DESC`, applicantID)
}

// UpdateApplicationStatus lets the poster accept or reject a pending
// application.
func (db *DB) UpdateApplicationStatus(ctx context.Context, posterID, applicationID int64, status string) (*models.InternshipApplication, error) {
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return nil, invalidInput("Status must be accepted or rejected")
	}
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var poster int64
		var current string
		err := tx.QueryRowContext(ctx, `
			SELECT i.poster_id, a.status
			FROM internship_applications a
			JOIN internships i ON i.id = a.internship_id
			WHERE a.id = ?`, applicationID).Scan(&poster, &current)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Application not found")
		}
		if err != nil {
			return fmt.Errorf("get application: %w", err)
		}
		if poster != posterID {
			return forbidden("Only the poster can update applications")
		}
		if !models.CanTransitionApplication(current, status) {
			return badTransition("Application has already been " + current)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE internship_applications SET status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now().UTC(), applicationID); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetApplication(ctx, applicationID)
}
