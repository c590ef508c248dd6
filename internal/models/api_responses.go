// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// APIResponse is the envelope of every JSON API response.
//
//	{"success": true, "data": {...}, "metadata": {"timestamp": "..."}}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "Skill not found"}, ...}
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Count     *int      `json:"count,omitempty"`
}

// APIError is the error body of a failed request. Code is stable and
// machine-readable; Message is safe to show to end users.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	EventTransport    string  `json:"event_transport,omitempty"`
	WebSocketClients  int     `json:"websocket_clients"`
	PaymentsEnabled   bool    `json:"payments_enabled"`
	Uptime            float64 `json:"uptime_seconds"`
}

// ReadinessStatus is returned by the readiness probe.
type ReadinessStatus struct {
	Ready             bool    `json:"ready_to_serve"`
	DatabaseConnected bool    `json:"database_connected"`
	DatabaseLatencyMS float64 `json:"database_latency_ms"`
	Uptime            float64 `json:"uptime_seconds"`
}
