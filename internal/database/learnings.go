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
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

const learningSelect = `
	SELECT l.user_id, l.skill_id, COALESCE(s.name, ''), COALESCE(s.user_id, 0), COALESCE(t.name, ''),
	       l.status, l.progress, l.start_date, l.completion_date, l.enrolled_at, l.updated_at
	FROM user_learnings l
	LEFT JOIN skills s ON s.id = l.skill_id
	LEFT JOIN users t ON t.id = s.user_id`

func scanLearning(row rowScanner) (*models.Learning, error) {
	l := &models.Learning{}
	err := row.Scan(&l.UserID, &l.SkillID, &l.SkillName, &l.TeacherID, &l.TeacherName,
		&l.Status, &l.Progress, &l.StartDate, &l.CompletionDate, &l.EnrolledAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// RefreshLearnings moves a user's learnings forward by calendar date and
// issues certificates for those that completed. It runs before every read.
func (db *DB) RefreshLearnings(ctx context.Context, userID int64, today models.Date) (int, error) {
	changed := 0
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		changed = 0
		rows, err := tx.QueryContext(ctx, `
			SELECT user_id, skill_id, status, progress, start_date, completion_date
			FROM user_learnings
			WHERE user_id = ? AND status <> ?`, userID, models.LearningCompleted)
		if err != nil {
			return fmt.Errorf("query learnings: %w", err)
		}

		var pending []models.Learning
		for rows.Next() {
			var l models.Learning
			if err := rows.Scan(&l.UserID, &l.SkillID, &l.Status, &l.Progress, &l.StartDate, &l.CompletionDate); err != nil {
				closeQuietly(rows)
				return fmt.Errorf("scan learning: %w", err)
			}
			if models.RefreshStatus(&l, today) {
				pending = append(pending, l)
			}
		}
		if err := rows.Err(); err != nil {
			closeQuietly(rows)
			return err
		}
		closeWithLog(rows, "rows")

		now := time.Now().UTC()
		for i := range pending {
			l := &pending[i]
			if _, err := tx.ExecContext(ctx, `
				UPDATE user_learnings SET status = ?, progress = ?, updated_at = ?
				WHERE user_id = ? AND skill_id = ?`,
				l.Status, l.Progress, now, l.UserID, l.SkillID); err != nil {
				return fmt.Errorf("refresh learning: %w", err)
			}
			if l.Status == models.LearningCompleted {
				if _, err := issueCertificate(ctx, tx, l.UserID, l.SkillID, today); err != nil {
					return err
				}
			}
		}
		changed = len(pending)
		return nil
	})
	if err == nil && changed > 0 {
		logging.Ctx(ctx).Debug().Int64("user_id", userID).Int("changed", changed).Msg("Learnings refreshed")
	}
	return changed, err
}

// ListLearnings refreshes and returns a user's learnings, optionally only
// those with the given status.
func (db *DB) ListLearnings(ctx context.Context, userID int64, status string) ([]models.Learning, error) {
	if status != "" && !models.IsValidLearningStatus(status) {
		return nil, invalidInput("Invalid learning status")
	}
	if _, err := db.RefreshLearnings(ctx, userID, models.Today()); err != nil {
		return nil, err
	}

	query := learningSelect + ` WHERE l.user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND l.status = ?`
		args = append(args, status)
	}
	rows, err := db.conn.QueryContext(ctx, query+` ORDER BY l.enrolled_at DESC, l.skill_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list learnings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Learning, 0)
	for rows.Next() {
		l, err := scanLearning(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learning: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetLearning refreshes and returns one enrollment.
func (db *DB) GetLearning(ctx context.Context, userID, skillID int64) (*models.Learning, error) {
	if _, err := db.RefreshLearnings(ctx, userID, models.Today()); err != nil {
		return nil, err
	}
	l, err := scanLearning(db.conn.QueryRowContext(ctx,
		learningSelect+` WHERE l.user_id = ? AND l.skill_id = ?`, userID, skillID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Learning not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get learning: %w", err)
	}
	return l, nil
}

// UpdateLearningProgress sets the progress of an enrollment and derives its
// status. A learning that becomes completed gets a certificate.
func (db *DB) UpdateLearningProgress(ctx context.Context, userID, skillID int64, progress int) (*models.Learning, error) {
	if progress < 0 || progress > 100 {
		return nil, invalidInput("Progress must be between 0 and 100")
	}
	today := models.Today()

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var (
			status            string
			start, completion models.Date
		)
		err := tx.QueryRowContext(ctx, `
			SELECT status, start_date, completion_date FROM user_learnings
			WHERE user_id = ? AND skill_id = ?`, userID, skillID).Scan(&status, &start, &completion)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Learning not found")
		}
		if err != nil {
			return fmt.Errorf("get learning: %w", err)
		}
		next := models.StatusForProgress(status, progress, start, completion, today)
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_learnings SET progress = ?, status = ?, updated_at = ?
			WHERE user_id = ? AND skill_id = ?`,
			progress, next, time.Now().UTC(), userID, skillID); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		if next == models.LearningCompleted {
			if _, err := issueCertificate(ctx, tx, userID, skillID, today); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetLearning(ctx, userID, skillID)
}

// SetLearningStatus overrides the status of an enrollment. Setting it to
// completed issues the certificate.
func (db *DB) SetLearningStatus(ctx context.Context, userID, skillID int64, status string) (*models.Learning, error) {
	if !models.IsValidLearningStatus(status) {
		return nil, invalidInput("Invalid learning status")
	}
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE user_learnings SET status = ?, updated_at = ?
			WHERE user_id = ? AND skill_id = ?`,
			status, time.Now().UTC(), userID, skillID)
		if err != nil {
			return fmt.Errorf("update learning status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("Learning not found")
		}
		if status == models.LearningCompleted {
			if _, err := issueCertificate(ctx, tx, userID, skillID, models.Today()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetLearning(ctx, userID, skillID)
}
