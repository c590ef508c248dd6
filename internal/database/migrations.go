// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL
);
`

// getMigrations returns all versioned migrations in order.
//
// Migrations MUST be append-only: never modify or remove an existing
// migration once databases carry it.
func getMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "coin_tx_user_index", Description: "Index ledger legs by user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_coin_tx_user ON coin_transactions(user_id)`},
		{Version: 2, Name: "coin_tx_entry_index", Description: "Index ledger legs by entry",
			SQL: `CREATE INDEX IF NOT EXISTS idx_coin_tx_entry ON coin_transactions(entry_id)`},
		{Version: 3, Name: "skills_user_index", Description: "Index skills by owner",
			SQL: `CREATE INDEX IF NOT EXISTS idx_skills_user ON skills(user_id)`},
		{Version: 4, Name: "skill_requests_owner_index", Description: "Index skill requests by owner",
			SQL: `CREATE INDEX IF NOT EXISTS idx_skill_requests_owner ON skill_requests(owner_id)`},
		{Version: 5, Name: "messages_receiver_index", Description: "Index messages by receiver",
			SQL: `CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id)`},
		{Version: 6, Name: "messages_sender_index", Description: "Index messages by sender",
			SQL: `CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id)`},
		{Version: 7, Name: "applications_applicant_index", Description: "Index applications by applicant",
			SQL: `CREATE INDEX IF NOT EXISTS idx_applications_applicant ON internship_applications(applicant_id)`},
	}
}

// runVersionedMigrations executes only new migrations that haven't been applied yet.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range getMigrations() {
		if applied[m.Version] {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`,
			m.Version, m.Name, m.Description, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// GetMigrationHistory returns all applied migrations in order
func (db *DB) GetMigrationHistory(ctx context.Context) ([]Migration, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer rows.Close()

	var history []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
