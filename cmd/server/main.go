// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/skillswap/docs" // Import generated swagger docs
	"github.com/tomtom215/skillswap/internal/api"
	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/authz"
	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/payments"
	"github.com/tomtom215/skillswap/internal/reset"
	"github.com/tomtom215/skillswap/internal/supervisor"
	"github.com/tomtom215/skillswap/internal/supervisor/services"
	ws "github.com/tomtom215/skillswap/internal/websocket"
)

const (
	ledgerAuditInterval = 15 * time.Minute
	checkpointInterval  = 5 * time.Minute
	httpShutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Skillswap")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; cookies are not sent cross-site. Set server.cors_origins in production.")
	}
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	// ========================
	// Storage
	// ========================
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	db.SetRetryPolicy(cfg.Economy.RetryAttempts, cfg.Economy.RetryBackoff)
	logging.Info().Msg("Database initialized")

	resetStore, err := reset.OpenBadgerStore(cfg.Reset.StorePath)
	if err != nil {
		return fmt.Errorf("open reset store: %w", err)
	}
	defer func() {
		if err := resetStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing reset store")
		}
	}()

	// ========================
	// Events
	// ========================
	bus, natsServer, err := events.Open(&cfg.Messaging)
	if err != nil {
		return fmt.Errorf("open event bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
		if natsServer != nil {
			natsServer.Shutdown()
		}
	}()
	db.Ledger().OnCommit(events.LedgerCommitHook(bus))
	logging.Info().Str("transport", bus.Transport()).Msg("Event bus ready")

	hub := ws.NewHub()
	forwarder := events.NewForwarder(bus, hub, events.DefaultForwarderConfig())

	// ========================
	// Auth
	// ========================
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize JWT manager: %w", err)
	}

	enforcerCfg := authz.DefaultEnforcerConfig()
	enforcerCfg.PolicyPath = cfg.Security.CasbinPolicyPath
	enforcer, err := authz.NewEnforcer(enforcerCfg)
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}
	defer enforcer.Close()

	// ========================
	// Handlers
	// ========================
	handler := api.NewHandler(db, cfg, jwtManager, hub)
	handler.SetEventPublisher(bus)
	handler.SetResetService(reset.NewService(resetStore, db, &cfg.Reset, cfg.Security.BcryptCost))

	var checkout payments.CheckoutCreator
	if cfg.Payments.Enabled {
		checkout = payments.NewStripeClient(&cfg.Payments, payments.DefaultBreakerSettings())
	}
	paymentService := payments.NewService(&cfg.Payments, checkout, db)
	handler.SetPaymentService(paymentService)
	logging.Info().Bool("enabled", paymentService.Enabled()).Msg("Payments configured")

	router := api.NewRouter(handler, enforcer)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// ========================
	// Supervisor Tree
	// ========================
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewLedgerAuditService(db.Ledger(), ledgerAuditInterval))
	if cfg.Database.Path != ":memory:" {
		tree.AddDataService(services.NewCheckpointService(db, checkpointInterval))
	}
	tree.AddMessagingService(hub)
	tree.AddMessagingService(forwarder)
	tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Skillswap stopped")
	return nil
}
