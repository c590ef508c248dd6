// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

// maxConsecutiveFailures is how many failed runs in a row make a periodic
// service return an error so the supervisor backs off and restarts it.
const maxConsecutiveFailures = 3

// PeriodicService runs a task on a fixed interval until the context ends.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewPeriodicService creates a periodic service. interval must be positive.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		runCtx, cancel := context.WithTimeout(ctx, p.interval)
		err := p.task(runCtx)
		cancel()

		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			return ctx.Err()
		default:
			failures++
			logging.Warn().Err(err).Str("service", p.name).Int("failures", failures).Msg("periodic task failed")
			if failures >= maxConsecutiveFailures {
				return fmt.Errorf("%s: %d consecutive failures: %w", p.name, failures, err)
			}
		}
	}
}

// String names the service in supervisor logs.
func (p *PeriodicService) String() string {
	return p.name
}

// LedgerVerifier is satisfied by *ledger.Ledger.
type LedgerVerifier interface {
	Verify(ctx context.Context) (*models.LedgerReport, error)
}

// NewLedgerAuditService verifies the ledger every interval. An
// inconsistent ledger is logged at error level; the mismatch gauge is set
// by Verify itself.
func NewLedgerAuditService(l LedgerVerifier, interval time.Duration) *PeriodicService {
	return NewPeriodicService("ledger-audit", interval, func(ctx context.Context) error {
		report, err := l.Verify(ctx)
		if err != nil {
			return fmt.Errorf("verify ledger: %w", err)
		}
		if !report.OK() {
			logging.Error().
				Int("mismatches", len(report.Mismatches)).
				Int("negative", len(report.Negative)).
				Int("unbalanced", len(report.UnbalancedIDs)).
				Int64("total_supply", report.TotalSupply).
				Msg("ledger inconsistency detected")
			return nil
		}
		logging.Debug().
			Int64("entries", report.Entries).
			Int64("total_supply", report.TotalSupply).
			Msg("ledger verified")
		return nil
	})
}

// Checkpointer is satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService flushes the DuckDB WAL into the database file every
// interval.
func NewCheckpointService(db Checkpointer, interval time.Duration) *PeriodicService {
	return NewPeriodicService("duckdb-checkpoint", interval, func(ctx context.Context) error {
		start := time.Now()
		err := db.Checkpoint(ctx)
		metrics.RecordDBQuery("checkpoint", "database", time.Since(start), err)
		return err
	})
}
