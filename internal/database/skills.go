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

const skillSelect = `
	SELECT s.id, s.user_id, COALESCE(u.name, ''), s.name, COALESCE(s.description, ''),
	       COALESCE(s.level, ''), COALESCE(s.category_id, 0), COALESCE(cat.name, ''),
	       COALESCE(s.course_code, ''), COALESCE(co.name, ''), s.coins,
	       COALESCE(s.duration_hours, 0), COALESCE(s.duration_days, 0), s.created_at, s.updated_at
	FROM skills s
	LEFT JOIN users u ON u.id = s.user_id
	LEFT JOIN categories cat ON cat.id = s.category_id
	LEFT JOIN courses co ON co.code = s.course_code`

func scanSkill(row rowScanner) (*models.Skill, error) {
	s := &models.Skill{}
	err := row.Scan(&s.ID, &s.UserID, &s.OwnerName, &s.Name, &s.Description, &s.Level,
		&s.CategoryID, &s.CategoryName, &s.CourseCode, &s.CourseName, &s.Coins,
		&s.DurationHours, &s.DurationDays, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) querySkills(ctx context.Context, query string, args ...interface{}) ([]models.Skill, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, *s)
	}
	return skills, rows.Err()
}

// checkCatalogRefs rejects unknown category IDs and course codes.
func (db *DB) checkCatalogRefs(ctx context.Context, categoryID int64, courseCode string) error {
	var n int
	if categoryID != 0 {
		if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, categoryID).Scan(&n); err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return invalidInput("Unknown category")
		}
	}
	if courseCode != "" {
		if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE code = ?`, courseCode).Scan(&n); err != nil {
			return fmt.Errorf("check course: %w", err)
		}
		if n == 0 {
			return invalidInput("Unknown course code")
		}
	}
	return nil
}

// CreateSkill inserts a skill owned by s.UserID.
func (db *DB) CreateSkill(ctx context.Context, s *models.Skill) (*models.Skill, error) {
	if err := db.checkCatalogRefs(ctx, s.CategoryID, s.CourseCode); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO skills (user_id, name, description, level, category_id, course_code, coins,
		                    duration_hours, duration_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		s.UserID, strings.TrimSpace(s.Name), s.Description, s.Level, nullID(s.CategoryID),
		nullString(s.CourseCode), s.Coins, s.DurationHours, s.DurationDays, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert skill: %w", err)
	}
	return db.GetSkill(ctx, id)
}

// GetSkill returns a skill or ErrNotFound.
func (db *DB) GetSkill(ctx context.Context, id int64) (*models.Skill, error) {
	s, err := scanSkill(db.conn.QueryRowContext(ctx, skillSelect+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Skill not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return s, nil
}

// ListSkills returns all skills, newest first.
func (db *DB) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return db.querySkills(ctx, skillSelect+` ORDER BY s.created_at DESC, s.id DESC`)
}

// ListUserSkills returns the skills a user offers.
func (db *DB) ListUserSkills(ctx context.Context, userID int64) ([]models.Skill, error) {
	return db.querySkills(ctx, skillSelect+` WHERE s.user_id = ? ORDER BY s.created_at DESC, s.id DESC`, userID)
}

// ListSkillsByCourse returns the skills attached to a course.
func (db *DB) ListSkillsByCourse(ctx context.Context, courseCode string) ([]models.Skill, error) {
	return db.querySkills(ctx, skillSelect+` WHERE s.course_code = ? ORDER BY s.created_at DESC, s.id DESC`, courseCode)
}

// UpdateSkill replaces the editable fields of a skill. Only the owner may
// update it.
func (db *DB) UpdateSkill(ctx context.Context, ownerID int64, s *models.Skill) (*models.Skill, error) {
	existing, err := db.GetSkill(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, forbidden("You can only edit your own skills")
	}
	if err := db.checkCatalogRefs(ctx, s.CategoryID, s.CourseCode); err != nil {
		return nil, err
	}

	_, err = db.conn.ExecContext(ctx, `
		UPDATE skills
		SET name = ?, description = ?, level = ?, category_id = ?, course_code = ?, coins = ?,
		    duration_hours = ?, duration_days = ?, updated_at = ?
		WHERE id = ?`,
		strings.TrimSpace(s.Name), s.Description, s.Level, nullID(s.CategoryID), nullString(s.CourseCode),
		s.Coins, s.DurationHours, s.DurationDays, time.Now().UTC(), s.ID)
	if err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return db.GetSkill(ctx, s.ID)
}

// DeleteSkill removes a skill with its favorites and pending requests. Only
// the owner may delete it.
func (db *DB) DeleteSkill(ctx context.Context, ownerID, skillID int64) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM skills WHERE id = ?`, skillID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Skill not found")
		}
		if err != nil {
			return fmt.Errorf("get skill owner: %w", err)
		}
		if owner != ownerID {
			return forbidden("You can only delete your own skills")
		}

		for _, q := range []string{
			`DELETE FROM favorites WHERE skill_id = ?`,
			`DELETE FROM skill_requests WHERE skill_id = ? AND status = 'pending'`,
			`DELETE FROM skills WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, skillID); err != nil {
				return fmt.Errorf("delete skill: %w", err)
			}
		}
		return nil
	})
}

// nullID binds 0 as NULL.
func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// nullString binds "" as NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// dateArg binds an unset date as NULL.
func dateArg(d models.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
