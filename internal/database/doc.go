// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// Package database is the DuckDB data layer of Skillswap.
//
// # Architecture
//
// Core:
//   - database.go: lifecycle (open, pool, schema, close) and InTx with
//     write-conflict retry
//   - database_schema.go: sequences, tables and indexes
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - seed.go: default categories and courses
//   - errors.go: sentinel errors and DuckDB error classification
//
// Stores (all methods on *DB):
//   - users.go: registration, login lookup, profiles, account deletion
//   - skills.go, catalog.go: skills and the category/course catalog
//   - skill_requests.go: requests and the paid acceptance flow
//   - learnings.go, certificates.go: enrollments and issued certificates
//   - communities.go, community_board.go: communities, comments, resources
//   - messages.go: direct messages and conversations
//   - internships.go: postings and applications
//   - ratings.go, favorites.go: ratings and bookmarks
//   - calendar.go, search.go: personal calendar and combined search
//   - transfers.go: peer transfers addressed by email
//   - purchases.go: Stripe purchases credited through the ledger
//
// # Coins
//
// The users.coins column is only written by internal/ledger. Flows that move
// coins run inside Ledger().Run so the domain change and the ledger entry
// commit together. DB implements ledger.Runner.
//
// # Concurrency
//
// DuckDB uses optimistic concurrency: two transactions updating the same row
// conflict and one fails at write or commit time. InTx retries such
// transactions with exponential backoff.
package database
