// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package metrics provides Prometheus metrics for Skillswap.

All collectors are registered with the default registry through promauto and
exposed by the /metrics endpoint:

	curl http://localhost:8080/metrics

# Available Metrics

Ledger Metrics:
  - skillswap_ledger_entries_total: committed entries (counter)
    Labels: kind (transfer, mint, burn), reason
  - skillswap_ledger_coins_moved_total: coins moved (counter)
    Labels: reason
  - skillswap_ledger_rejections_total: entries rejected before commit (counter)
    Labels: reason, cause
  - skillswap_ledger_verify_mismatches: mismatches found by the last verification (gauge)

Database Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - duckdb_transaction_retries_total: conflict retries (counter)
    Labels: outcome (retried, exhausted)

HTTP Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Other:
  - skillswap_auth_attempts_total
  - websocket_connections_active, websocket_messages_sent_total, websocket_errors_total
  - skillswap_events_published_total, skillswap_events_publish_failed_total,
    skillswap_events_delivered_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total (Stripe client)
  - skillswap_payment_checkouts_total, skillswap_payment_webhooks_total

# Usage

	metrics.RecordLedgerEntry(models.EntryTransfer, models.ReasonTransfer, 15)
	metrics.RecordAPIRequest("GET", "/api/v1/coins/balance", "200", time.Since(start))
*/
package metrics
