// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package main is the Skillswap HTTP server.

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB schema, migrations and the coin ledger
 4. Reset store: BadgerDB for password-reset codes
 5. Event bus: Watermill over gochannel, NATS, or embedded NATS
 6. Auth: JWT manager and the Casbin enforcer
 7. Payments: Stripe Checkout client behind a circuit breaker
 8. Supervisor tree: suture v4 running the services below

	RootSupervisor ("skillswap")
	├── data-layer: ledger-audit, duckdb-checkpoint
	├── messaging-layer: websocket-hub, event-forwarder
	└── api-layer: http-server

Ledger commits publish coins.changed on the bus; the forwarder delivers
every event to the hub, which pushes it to the affected users' sockets.

# Configuration

Common environment variables:

	HTTP_PORT            listen port (default 8080)
	DUCKDB_PATH          DuckDB file, ":memory:" for tests
	JWT_SECRET           HS256 signing secret (required, 32+ chars)
	ADMIN_EMAILS         comma-separated admin accounts
	SIGNUP_BONUS         coins minted at registration (default 25)
	STRIPE_SECRET_KEY    enables payments with PAYMENTS_ENABLED=true
	STRIPE_WEBHOOK_SECRET
	NATS_URL             external NATS; NATS_EMBEDDED=true starts one in-process

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, then the bus, the reset store and the database are closed.
*/
package main
