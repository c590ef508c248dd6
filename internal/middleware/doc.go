// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package middleware provides the infrastructure HTTP middleware mounted on
the Skillswap router.

Key Components:

  - RequestID: X-Request-ID propagation into the context and the logger
  - PrometheusMetrics: request counters and latency by chi route pattern
  - AccessLog: one zerolog line per request, warning above a latency threshold

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(500 * time.Millisecond))
	r.Use(middleware.PrometheusMetrics)

Authentication and authorization middleware live in packages auth and
authz; CORS and rate limiting are configured with the router in package api.
*/
package middleware
