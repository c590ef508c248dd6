// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package services adapts server components to suture.Service.

HTTPServerService turns http.Server's ListenAndServe/Shutdown pair into a
context-driven Serve with a bounded drain.

PeriodicService runs a task on a ticker. Three consecutive failures make
Serve return an error so the supervisor applies its backoff. Two are
built on it:

  - NewLedgerAuditService verifies balances against ledger legs
  - NewCheckpointService runs a DuckDB CHECKPOINT

The WebSocket hub and the event forwarder implement suture.Service
themselves and are added to the tree directly.
*/
package services
