// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/skillswap/internal/models"
)

// Search result caps.
const (
	maxCourseResults = 15
	maxSkillResults  = 20
)

// Search looks for courses by title or code and skills by name or
// description. Courses come first. Matching is case-insensitive.
func (db *DB) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}
	pattern := "%" + escapeLike(query) + "%"
	results := make([]models.SearchResult, 0)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.code, c.name, COALESCE(c.description, ''), COALESCE(cat.name, '')
		FROM courses c
		LEFT JOIN categories cat ON cat.id = c.category_id
		WHERE c.name ILIKE $1 ESCAPE '\' OR c.code ILIKE $1 ESCAPE '\'
		ORDER BY c.code
		LIMIT $2`, pattern, maxCourseResults)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	for rows.Next() {
		r := models.SearchResult{Type: "course"}
		if err := rows.Scan(&r.Code, &r.Title, &r.Description, &r.CategoryName); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("scan course: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, err
	}
	closeWithLog(rows, "rows")

	skills, err := db.querySkills(ctx, skillSelect+`
		WHERE s.name ILIKE $1 ESCAPE '\' OR s.description ILIKE $1 ESCAPE '\'
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2`, pattern, maxSkillResults)
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		results = append(results, models.SearchResult{
			Type:         "skill",
			ID:           s.ID,
			Code:         s.CourseCode,
			Title:        s.Name,
			Description:  s.Description,
			CategoryName: s.CategoryName,
			Coins:        s.Coins,
			ProviderName: s.OwnerName,
		})
	}
	return results, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
