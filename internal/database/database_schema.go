// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
database_schema.go - Database Schema Management

Tables:
  - users: accounts; coins is the balance, written only by the ledger
  - ledger_entries: one header per posted coin movement (idempotency key unique)
  - coin_transactions: one row per leg (debit for the payer, credit for the payee)
  - categories, courses, skills: the catalog and member-offered skills
  - skill_requests, user_learnings, certificates
  - communities, community_members, community_comments, community_resources
  - messages
  - internships, internship_applications
  - ratings, favorites, calendar_events
  - roadmap_categories, development_paths, roadmap_levels, roadmap_resources,
    roadmap_projects: the learning roadmap catalog (list columns hold JSON)
  - user_roadmaps: the one path each user follows and their progress
  - purchases: Stripe checkouts that were credited

IDs come from sequences. DuckDB has no cascading foreign keys, so ownership
is enforced by the stores and account deletion removes owned rows itself.
Timestamps are passed from Go in UTC.

Indexes are only created on columns that are never updated: DuckDB rewrites
updates of indexed columns as delete plus insert.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences and tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var sequences = []string{
	"users_seq", "coin_transactions_seq", "categories_seq", "skills_seq",
	"skill_requests_seq", "certificates_seq", "communities_seq",
	"community_comments_seq", "community_resources_seq", "messages_seq",
	"internships_seq", "internship_applications_seq", "ratings_seq",
	"calendar_events_seq", "roadmap_categories_seq", "development_paths_seq",
	"roadmap_levels_seq", "roadmap_resources_seq", "roadmap_projects_seq",
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	queries := make([]string, 0, len(sequences)+30)
	for _, seq := range sequences {
		queries = append(queries, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", seq))
	}

	return append(queries,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('users_seq'),
			name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone TEXT NOT NULL,
			bio TEXT,
			coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ledger_entries (
			entry_id TEXT PRIMARY KEY,
			idempotency_key TEXT UNIQUE,
			kind TEXT NOT NULL,
			reason TEXT NOT NULL,
			from_user_id BIGINT,
			to_user_id BIGINT,
			amount BIGINT NOT NULL CHECK (amount > 0),
			memo TEXT,
			reference TEXT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS coin_transactions (
			id BIGINT PRIMARY KEY DEFAULT nextval('coin_transactions_seq'),
			entry_id TEXT NOT NULL,
			user_id BIGINT NOT NULL,
			counterparty_id BIGINT,
			type TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
			amount BIGINT NOT NULL CHECK (amount > 0),
			reason TEXT NOT NULL,
			description TEXT,
			reference TEXT,
			status TEXT NOT NULL DEFAULT 'completed',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('categories_seq'),
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS courses (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			category_id BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS skills (
			id BIGINT PRIMARY KEY DEFAULT nextval('skills_seq'),
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			level TEXT,
			category_id BIGINT,
			course_code TEXT,
			coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
			duration_hours INTEGER,
			duration_days INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS skill_requests (
			id BIGINT PRIMARY KEY DEFAULT nextval('skill_requests_seq'),
			skill_id BIGINT NOT NULL,
			requester_id BIGINT NOT NULL,
			owner_id BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			learning_mode TEXT NOT NULL DEFAULT 'online',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			message TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (skill_id, requester_id)
		)`,

		`CREATE TABLE IF NOT EXISTS user_learnings (
			user_id BIGINT NOT NULL,
			skill_id BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'enrolled',
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			start_date DATE,
			completion_date DATE,
			enrolled_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, skill_id)
		)`,

		`CREATE TABLE IF NOT EXISTS certificates (
			id BIGINT PRIMARY KEY DEFAULT nextval('certificates_seq'),
			user_id BIGINT NOT NULL,
			skill_id BIGINT NOT NULL,
			code TEXT NOT NULL UNIQUE,
			issued_date DATE NOT NULL,
			UNIQUE (user_id, skill_id)
		)`,

		`CREATE TABLE IF NOT EXISTS communities (
			id BIGINT PRIMARY KEY DEFAULT nextval('communities_seq'),
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			level TEXT NOT NULL DEFAULT 'Beginner',
			creator_id BIGINT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS community_members (
			community_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			joined_at TIMESTAMP NOT NULL,
			PRIMARY KEY (community_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS community_comments (
			id BIGINT PRIMARY KEY DEFAULT nextval('community_comments_seq'),
			community_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS community_resources (
			id BIGINT PRIMARY KEY DEFAULT nextval('community_resources_seq'),
			community_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGINT PRIMARY KEY DEFAULT nextval('messages_seq'),
			sender_id BIGINT NOT NULL,
			receiver_id BIGINT NOT NULL,
			message TEXT NOT NULL,
			message_type TEXT NOT NULL DEFAULT 'text',
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS internships (
			id BIGINT PRIMARY KEY DEFAULT nextval('internships_seq'),
			poster_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			duration TEXT NOT NULL,
			requirements TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS internship_applications (
			id BIGINT PRIMARY KEY DEFAULT nextval('internship_applications_seq'),
			internship_id BIGINT NOT NULL,
			applicant_id BIGINT NOT NULL,
			cover_letter TEXT,
			resume_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			applied_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (internship_id, applicant_id)
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id BIGINT PRIMARY KEY DEFAULT nextval('ratings_seq'),
			user_id BIGINT NOT NULL,
			item_type TEXT NOT NULL CHECK (item_type IN ('skill', 'community')),
			item_id BIGINT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			review TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, item_type, item_id)
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL,
			skill_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, skill_id)
		)`,

		`CREATE TABLE IF NOT EXISTS calendar_events (
			id BIGINT PRIMARY KEY DEFAULT nextval('calendar_events_seq'),
			user_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			event_date DATE NOT NULL,
			start_time TEXT,
			end_time TEXT,
			color TEXT NOT NULL DEFAULT 'blue',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS roadmap_categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('roadmap_categories_seq'),
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS development_paths (
			id BIGINT PRIMARY KEY DEFAULT nextval('development_paths_seq'),
			category_id BIGINT NOT NULL,
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			detailed_description TEXT,
			difficulty TEXT NOT NULL,
			estimated_duration TEXT NOT NULL,
			key_skills TEXT NOT NULL DEFAULT '[]'
		)`,

		`CREATE TABLE IF NOT EXISTS roadmap_levels (
			id BIGINT PRIMARY KEY DEFAULT nextval('roadmap_levels_seq'),
			path_id BIGINT NOT NULL,
			level_order INTEGER NOT NULL,
			level TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			duration TEXT NOT NULL,
			topics TEXT NOT NULL DEFAULT '[]',
			UNIQUE (path_id, level_order)
		)`,

		`CREATE TABLE IF NOT EXISTS roadmap_resources (
			id BIGINT PRIMARY KEY DEFAULT nextval('roadmap_resources_seq'),
			path_id BIGINT NOT NULL,
			level TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT,
			is_free BOOLEAN NOT NULL DEFAULT true
		)`,

		`CREATE TABLE IF NOT EXISTS roadmap_projects (
			id BIGINT PRIMARY KEY DEFAULT nextval('roadmap_projects_seq'),
			path_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			level TEXT NOT NULL,
			description TEXT NOT NULL,
			technologies TEXT NOT NULL DEFAULT '[]',
			github_url TEXT,
			estimated_hours INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS user_roadmaps (
			user_id BIGINT PRIMARY KEY,
			path_id BIGINT NOT NULL,
			current_level TEXT NOT NULL DEFAULT 'Beginner',
			progress_percentage INTEGER NOT NULL DEFAULT 0 CHECK (progress_percentage BETWEEN 0 AND 100),
			started_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS purchases (
			session_id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			package_id TEXT NOT NULL,
			coins BIGINT NOT NULL,
			amount_cents BIGINT NOT NULL,
			currency TEXT NOT NULL,
			entry_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	)
}
