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

	"github.com/google/uuid"

	"github.com/tomtom215/skillswap/internal/models"
)

const certificateSelect = `
	SELECT c.id, c.user_id, COALESCE(u.name, ''), c.skill_id, COALESCE(s.name, ''),
	       COALESCE(t.name, ''), c.code, c.issued_date
	FROM certificates c
	LEFT JOIN users u ON u.id = c.user_id
	LEFT JOIN skills s ON s.id = c.skill_id
	LEFT JOIN users t ON t.id = s.user_id`

func scanCertificate(row rowScanner) (*models.Certificate, error) {
	c := &models.Certificate{}
	err := row.Scan(&c.ID, &c.UserID, &c.RecipientName, &c.SkillID, &c.SkillName,
		&c.TeacherName, &c.Code, &c.IssuedDate)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newCertificateCode returns a short upper-case verification code.
func newCertificateCode() string {
	return "SS-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// issueCertificate inserts the certificate for a completed learning unless
// one exists. It reports whether a new certificate was written.
func issueCertificate(ctx context.Context, tx *sql.Tx, userID, skillID int64, issued models.Date) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM certificates WHERE user_id = ? AND skill_id = ?`,
		userID, skillID).Scan(&n); err != nil {
		return false, fmt.Errorf("check certificate: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO certificates (user_id, skill_id, code, issued_date) VALUES (?, ?, ?, ?)`,
		userID, skillID, newCertificateCode(), dateArg(issued)); err != nil {
		return false, fmt.Errorf("insert certificate: %w", err)
	}
	return true, nil
}

// ListCertificates returns the certificates earned by a user.
func (db *DB) ListCertificates(ctx context.Context, userID int64) ([]models.Certificate, error) {
	if _, err := db.RefreshLearnings(ctx, userID, models.Today()); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, certificateSelect+` WHERE c.user_id = ? ORDER BY c.issued_date DESC, c.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	out := make([]models.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetCertificate returns one of a user's certificates.
func (db *DB) GetCertificate(ctx context.Context, userID, certificateID int64) (*models.Certificate, error) {
	c, err := scanCertificate(db.conn.QueryRowContext(ctx,
		certificateSelect+` WHERE c.id = ? AND c.user_id = ?`, certificateID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Certificate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return c, nil
}

// VerifyCertificate looks a certificate up by its public code.
func (db *DB) VerifyCertificate(ctx context.Context, code string) (*models.Certificate, error) {
	c, err := scanCertificate(db.conn.QueryRowContext(ctx,
		certificateSelect+` WHERE c.code = ?`, strings.ToUpper(strings.TrimSpace(code))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Certificate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("verify certificate: %w", err)
	}
	return c, nil
}
