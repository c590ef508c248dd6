// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"context"
	"time"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/cache"
	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/payments"
	"github.com/tomtom215/skillswap/internal/reset"
	ws "github.com/tomtom215/skillswap/internal/websocket"
)

// catalogCacheTTL bounds how long catalog reads are served from memory.
const catalogCacheTTL = 10 * time.Minute

// Handler contains dependencies for API handlers.
//
// Required dependencies are passed to NewHandler. Optional ones (password
// reset, payments, event publishing) are attached with setters; handlers
// that need a missing optional dependency answer 503.
type Handler struct {
	db         *database.DB
	config     *config.Config
	jwtManager *auth.JWTManager
	wsHub      *ws.Hub
	upgrader   *ws.Upgrader
	startTime  time.Time
	catalog    *cache.Cache

	reset     *reset.Service
	payments  *payments.Service
	publisher events.Publisher
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(db, cfg, jwtManager, hub)
//	handler.SetEventPublisher(bus)
//	router := api.NewRouter(handler, enforcer)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(db *database.DB, cfg *config.Config, jwtManager *auth.JWTManager, wsHub *ws.Hub) *Handler {
	return &Handler{
		db:         db,
		config:     cfg,
		jwtManager: jwtManager,
		wsHub:      wsHub,
		upgrader:   ws.NewUpgrader(cfg.Server.CORSOrigins),
		startTime:  time.Now(),
		catalog:    cache.New("catalog", catalogCacheTTL),
	}
}

// SetResetService enables the password reset endpoints.
func (h *Handler) SetResetService(svc *reset.Service) {
	h.reset = svc
}

// SetPaymentService enables the coin purchase endpoints.
func (h *Handler) SetPaymentService(svc *payments.Service) {
	h.payments = svc
}

// SetEventPublisher sets the publisher used for domain events.
func (h *Handler) SetEventPublisher(pub events.Publisher) {
	h.publisher = pub
}

// publish sends an event for a change that is already committed. Failures
// are logged; the HTTP response does not depend on delivery.
func (h *Handler) publish(ctx context.Context, p events.Payload) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, p); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", p.Topic()).Msg("event publish failed")
	}
}
