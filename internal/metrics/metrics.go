// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBTransactionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_transaction_retries_total",
			Help: "Transactions retried after a DuckDB write-write conflict",
		},
		[]string{"outcome"}, // retried, exhausted
	)

	// Ledger Metrics
	LedgerEntriesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_ledger_entries_total",
			Help: "Ledger entries committed, by kind and reason",
		},
		[]string{"kind", "reason"},
	)

	LedgerCoinsMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_ledger_coins_moved_total",
			Help: "Coins moved by committed ledger entries, by reason",
		},
		[]string{"reason"},
	)

	LedgerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_ledger_rejections_total",
			Help: "Ledger entries rejected before commit",
		},
		[]string{"reason", "cause"}, // cause: insufficient_funds, account_not_found, duplicate, invalid
	)

	LedgerVerifyMismatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillswap_ledger_verify_mismatches",
			Help: "Balance mismatches found by the last ledger verification",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_auth_attempts_total",
			Help: "Login, registration and password reset attempts",
		},
		[]string{"action", "result"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_events_published_total",
			Help: "Domain events published to the bus",
		},
		[]string{"topic"},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_events_publish_failed_total",
			Help: "Domain events that failed to publish",
		},
		[]string{"topic"},
	)

	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_events_delivered_total",
			Help: "Domain events consumed by the realtime forwarder",
		},
		[]string{"topic"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Payment Metrics
	PaymentCheckouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_payment_checkouts_total",
			Help: "Stripe checkout sessions requested",
		},
		[]string{"package", "result"},
	)

	PaymentWebhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_payment_webhooks_total",
			Help: "Stripe webhooks received, by outcome",
		},
		[]string{"outcome"}, // credited, duplicate, ignored, invalid_signature, error
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_cache_lookups_total",
			Help: "In-memory cache lookups, by cache and result",
		},
		[]string{"cache", "result"}, // hit, miss
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordLedgerEntry records a committed ledger entry.
func RecordLedgerEntry(kind, reason string, amount int64) {
	LedgerEntriesPosted.WithLabelValues(kind, reason).Inc()
	LedgerCoinsMoved.WithLabelValues(reason).Add(float64(amount))
}

// RecordLedgerRejection records an entry that could not be posted.
func RecordLedgerRejection(reason, cause string) {
	LedgerRejections.WithLabelValues(reason, cause).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAPIStatus is RecordAPIRequest for an integer status code.
func RecordAPIStatus(method, endpoint string, status int, duration time.Duration) {
	RecordAPIRequest(method, endpoint, strconv.Itoa(status), duration)
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAuthAttempt records the outcome of an authentication action.
func RecordAuthAttempt(action string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthAttempts.WithLabelValues(action, result).Inc()
}

// RecordEventPublish records a publish attempt on topic.
func RecordEventPublish(topic string, err error) {
	if err != nil {
		EventsPublishFailed.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}
