// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// Package cache provides a small TTL cache for read-mostly data.
//
// Two caches use it: the API keeps the course catalog (categories and
// courses) here, and authz keeps Casbin decisions per role, path and
// action. Neither changes at runtime, so entries live for minutes and no
// invalidation is needed. Lookups are counted in
// skillswap_cache_lookups_total by cache name.
package cache
