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
	"math"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/models"
)

// Top-rated listing bounds.
const (
	DefaultTopRatedLimit = 10
	MaxTopRatedLimit     = 50
)

// ratedItemExists checks that the rated skill or community exists.
func (db *DB) ratedItemExists(ctx context.Context, itemType string, itemID int64) error {
	table := "skills"
	if itemType == models.ItemCommunity {
		table = "communities"
	}
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, itemID).Scan(&n); err != nil {
		return fmt.Errorf("check rated item: %w", err)
	}
	if n == 0 {
		return notFound("Rated item not found")
	}
	return nil
}

// SubmitRating inserts or replaces a user's rating of an item.
func (db *DB) SubmitRating(ctx context.Context, r *models.Rating) (*models.Rating, error) {
	if !models.IsValidItemType(r.ItemType) {
		return nil, invalidInput("Item type must be skill or community")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return nil, invalidInput("Rating must be between 1 and 5")
	}
	if err := db.ratedItemExists(ctx, r.ItemType, r.ItemID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := nullString(strings.TrimSpace(r.Review))
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE ratings SET rating = ?, review = ?, updated_at = ?
			WHERE user_id = ? AND item_type = ? AND item_id = ?`,
			r.Rating, review, now, r.UserID, r.ItemType, r.ItemID)
		if err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (user_id, item_type, item_id, rating, review, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.UserID, r.ItemType, r.ItemID, r.Rating, review, now, now); err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetUserRating(ctx, r.UserID, r.ItemType, r.ItemID)
}

const ratingSelect = `
	SELECT r.id, r.user_id, COALESCE(u.name, ''), r.item_type, r.item_id, r.rating,
	       COALESCE(r.review, ''), r.created_at, r.updated_at
	FROM ratings r
	LEFT JOIN users u ON u.id = r.user_id`

func scanRating(row rowScanner) (*models.Rating, error) {
	r := &models.Rating{}
	err := row.Scan(&r.ID, &r.UserID, &r.UserName, &r.ItemType, &r.ItemID, &r.Rating, &r.Review, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetUserRating returns a user's rating of an item, or nil when they have
// not rated it.
func (db *DB) GetUserRating(ctx context.Context, userID int64, itemType string, itemID int64) (*models.Rating, error) {
	r, err := scanRating(db.conn.QueryRowContext(ctx,
		ratingSelect+` WHERE r.user_id = ? AND r.item_type = ? AND r.item_id = ?`, userID, itemType, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return r, nil
}

// GetItemRatings returns the ratings of an item with their average.
func (db *DB) GetItemRatings(ctx context.Context, itemType string, itemID int64) (*models.RatingSummary, error) {
	if !models.IsValidItemType(itemType) {
		return nil, invalidInput("Item type must be skill or community")
	}
	rows, err := db.conn.QueryContext(ctx,
		ratingSelect+` WHERE r.item_type = ? AND r.item_id = ? ORDER BY r.created_at DESC, r.id DESC`, itemType, itemID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	summary := &models.RatingSummary{ItemType: itemType, ItemID: itemID, Ratings: make([]models.Rating, 0)}
	total := 0
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		total += r.Rating
		summary.Ratings = append(summary.Ratings, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	summary.Count = len(summary.Ratings)
	if summary.Count > 0 {
		summary.Average = roundRating(float64(total) / float64(summary.Count))
	}
	return summary, nil
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

// TopRated returns the best rated items of one type, or of both types when
// itemType is empty or "all".
func (db *DB) TopRated(ctx context.Context, itemType string, limit int) ([]models.TopRatedItem, error) {
	if limit <= 0 {
		limit = DefaultTopRatedLimit
	}
	if limit > MaxTopRatedLimit {
		limit = MaxTopRatedLimit
	}

	skills := `
		SELECT 'skill' AS item_type, s.id, s.name, AVG(r.rating) AS avg_rating, COUNT(*) AS cnt
		FROM ratings r JOIN skills s ON s.id = r.item_id
		WHERE r.item_type = 'skill'
		GROUP BY s.id, s.name`
	communities := `
		SELECT 'community' AS item_type, c.id, c.name, AVG(r.rating) AS avg_rating, COUNT(*) AS cnt
		FROM ratings r JOIN communities c ON c.id = r.item_id
		WHERE r.item_type = 'community'
		GROUP BY c.id, c.name`

	var inner string
	switch itemType {
	case models.ItemSkill:
		inner = skills
	case models.ItemCommunity:
		inner = communities
	case "", "all":
		inner = skills + ` UNION ALL ` + communities
	default:
		return nil, invalidInput("Item type must be skill, community or all")
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT item_type, id, name, avg_rating, cnt FROM (`+inner+`) t
		ORDER BY avg_rating DESC, cnt DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	defer rows.Close()

	out := make([]models.TopRatedItem, 0)
	for rows.Next() {
		var item models.TopRatedItem
		if err := rows.Scan(&item.ItemType, &item.ItemID, &item.Name, &item.Average, &item.Count); err != nil {
			return nil, fmt.Errorf("scan top rated: %w", err)
		}
		item.Average = roundRating(item.Average)
		out = append(out, item)
	}
	return out, rows.Err()
}
