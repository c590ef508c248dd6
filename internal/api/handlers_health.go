// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

// Version is reported by the health endpoint. Set with -ldflags at build time.
var Version = "dev"

// probeTimeout bounds the database ping made by health probes.
const probeTimeout = 2 * time.Second

// transporter is implemented by publishers that can name their transport.
type transporter interface {
	Transport() string
}

type dbProbe struct {
	connected bool
	latency   time.Duration
}

func (h *Handler) probeDB(ctx context.Context) dbProbe {
	if h.db == nil {
		return dbProbe{}
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	p := dbProbe{connected: err == nil, latency: time.Since(start)}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("database ping failed")
	}
	return p
}

func (h *Handler) uptime() float64 {
	return time.Since(h.startTime).Seconds()
}

// Health reports the state of every dependency. A database outage makes
// the status "degraded"; the response code stays 200.
//
// @Summary Get system health status
// @Description Returns database connectivity, the event transport, connected WebSocket clients and uptime
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.probeDB(r.Context())

	health := models.HealthStatus{
		Status:            "healthy",
		Version:           Version,
		DatabaseConnected: db.connected,
		PaymentsEnabled:   h.payments != nil && h.payments.Enabled(),
		Uptime:            h.uptime(),
	}
	if !db.connected {
		health.Status = "degraded"
	}
	if t, ok := h.publisher.(transporter); ok {
		health.EventTransport = t.Transport()
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}

	respondData(w, r, http.StatusOK, health)
}

// HealthLive answers 200 while the process runs, whatever its dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"alive":          true,
		"uptime_seconds": h.uptime(),
	})
}

// HealthReady answers 503 until the database responds.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ReadinessStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.ReadinessStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	db := h.probeDB(r.Context())
	status := http.StatusOK
	if !db.connected {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Success: db.connected,
		Data: models.ReadinessStatus{
			Ready:             db.connected,
			DatabaseConnected: db.connected,
			DatabaseLatencyMS: float64(db.latency.Microseconds()) / 1000,
			Uptime:            h.uptime(),
		},
		Metadata: newMetadata(r),
	})
}

// WebSocket upgrades the connection and registers the caller with the hub.
// Events addressed to the caller (messages, request and application
// decisions, community joins, balance changes) are pushed on it.
//
// @Summary Establish WebSocket connection
// @Tags Core
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 503 {object} models.APIResponse "WebSocket hub not available"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "WebSocket service unavailable", nil)
		return
	}
	h.upgrader.ServeWS(h.wsHub, w, r, hctx.UserID)
}
