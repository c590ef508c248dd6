// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/skillswap/internal/models"
)

// ListCategories returns the catalog categories by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListCourses returns courses, optionally limited to one category.
func (db *DB) ListCourses(ctx context.Context, categoryID int64) ([]models.Course, error) {
	query := `SELECT code, name, COALESCE(description, ''), category_id FROM courses`
	args := []interface{}{}
	if categoryID != 0 {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY code`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.Code, &c.Name, &c.Description, &c.CategoryID); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CategoriesWithCourses returns every category with its courses inlined.
// Categories without courses are included with an empty list.
func (db *DB) CategoriesWithCourses(ctx context.Context) ([]models.CategoryWithCourses, error) {
	categories, err := db.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := db.ListCourses(ctx, 0)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]models.Course, len(categories))
	for _, c := range courses {
		byCategory[c.CategoryID] = append(byCategory[c.CategoryID], c)
	}

	out := make([]models.CategoryWithCourses, 0, len(categories))
	for _, cat := range categories {
		list := byCategory[cat.ID]
		if list == nil {
			list = []models.Course{}
		}
		out = append(out, models.CategoryWithCourses{Category: cat, Courses: list})
	}
	return out, nil
}
