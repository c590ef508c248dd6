// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/skillswap/internal/models"
)

// AddFavorite bookmarks a skill. Adding an existing favorite is a no-op.
func (db *DB) AddFavorite(ctx context.Context, userID, skillID int64) error {
	if _, err := db.GetSkill(ctx, skillID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO favorites (user_id, skill_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`, userID, skillID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a bookmark. Removing a missing favorite is a no-op.
func (db *DB) RemoveFavorite(ctx context.Context, userID, skillID int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND skill_id = ?`, userID, skillID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// IsFavorite reports whether a user bookmarked a skill.
func (db *DB) IsFavorite(ctx context.Context, userID, skillID int64) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND skill_id = ?`, userID, skillID).Scan(&n); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

// ListFavorites returns a user's bookmarked skills, newest first.
func (db *DB) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	skills, err := db.querySkills(ctx, skillSelect+`
		JOIN favorites f ON f.skill_id = s.id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, err
	}

	added := make(map[int64]time.Time, len(skills))
	rows, err := db.conn.QueryContext(ctx, `SELECT skill_id, created_at FROM favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		added[id] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Favorite, 0, len(skills))
	for i := range skills {
		s := skills[i]
		out = append(out, models.Favorite{UserID: userID, SkillID: s.ID, Skill: &s, CreatedAt: added[s.ID]})
	}
	return out, nil
}
