// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package api provides the HTTP API of Skillswap.

Routing uses go-chi/chi with a global middleware stack (request IDs, real IP,
panic recovery, CORS, access logging, Prometheus metrics) and per-group rate
limits from go-chi/httprate. Authenticated routes run auth.Middleware and
then the Casbin authorizer from internal/authz.

Handler files:

  - handlers.go: Handler struct and constructor
  - handlers_helpers.go: JSON envelope, decoding and parameter helpers
  - errors.go: mapping of store, ledger, payment and reset errors to codes
  - handlers_auth.go: register, login, logout, profile, password reset
  - handlers_coins.go: balance, history, transfers, admin grant/deduct
  - handlers_skills.go: catalog, skills, courses
  - handlers_skill_requests.go: skill requests and their decisions
  - handlers_learnings.go: learnings and certificates
  - handlers_communities.go: communities, comments, resources
  - handlers_messages.go: direct messages and conversations
  - handlers_internships.go: internships and applications
  - handlers_ratings.go: ratings and favorites
  - handlers_calendar.go: personal calendar events
  - handlers_search.go: combined course and skill search
  - handlers_payments.go: coin packages, Stripe checkout and webhook
  - handlers_health.go: liveness, readiness and health
  - handlers_ws.go: WebSocket upgrade

Every response uses the models.APIResponse envelope:

	{"success": true, "data": {...}, "metadata": {"timestamp": "..."}}

Errors carry a stable code (VALIDATION_ERROR, NOT_FOUND, CONFLICT,
FORBIDDEN, INVALID_TRANSITION, INSUFFICIENT_COINS, UNAUTHORIZED,
RATE_LIMIT_EXCEEDED, INTERNAL_ERROR, ...) and a message safe to show users.

Events for committed changes (messages, skill request decisions, internship
application decisions, community joins) are published after the store call
returns. Coin movements are published by the ledger commit hook.
*/
package api
