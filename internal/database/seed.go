// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/skillswap/internal/logging"
)

type seedCourse struct {
	code, name, description string
}

// defaultCatalog is inserted once into an empty catalog.
var defaultCatalog = []struct {
	category string
	courses  []seedCourse
}{
	{"Programming", []seedCourse{
		{"CSC201", "Introduction to Programming", "Variables, control flow and functions"},
		{"CSC245", "Data Structures", "Lists, trees, hash tables and their costs"},
		{"CSC310", "Web Development", "HTTP, HTML, CSS and server-side frameworks"},
		{"CSC375", "Mobile Development", "Building Android and iOS apps"},
	}},
	{"Design", []seedCourse{
		{"DES101", "Graphic Design Basics", "Typography, colour and layout"},
		{"DES220", "UI/UX Design", "Wireframes, prototypes and usability testing"},
	}},
	{"Languages", []seedCourse{
		{"LAN101", "English Conversation", "Everyday spoken English"},
		{"LAN110", "French for Beginners", "Grammar and vocabulary foundations"},
		{"LAN120", "Arabic Writing", "Formal and informal written Arabic"},
	}},
	{"Business", []seedCourse{
		{"BUS201", "Marketing Fundamentals", "Segmentation, positioning and campaigns"},
		{"BUS230", "Accounting Basics", "Journals, ledgers and financial statements"},
	}},
	{"Music", []seedCourse{
		{"MUS101", "Guitar for Beginners", "Chords, strumming and first songs"},
		{"MUS150", "Music Theory", "Scales, intervals and harmony"},
	}},
}

// SeedCatalog inserts the default categories and courses if the catalog is
// empty.
func (db *DB) SeedCatalog(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		for _, cat := range defaultCatalog {
			var id int64
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO categories (name) VALUES (?) RETURNING id`, cat.category).Scan(&id); err != nil {
				return fmt.Errorf("insert category %s: %w", cat.category, err)
			}
			for _, c := range cat.courses {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO courses (code, name, description, category_id) VALUES (?, ?, ?, ?)`,
					c.code, c.name, c.description, id); err != nil {
					return fmt.Errorf("insert course %s: %w", c.code, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info().Int("categories", len(defaultCatalog)).Msg("Seeded skill catalog")
	return nil
}
