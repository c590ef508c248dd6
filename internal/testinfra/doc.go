// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

//go:build integration

// Package testinfra provides containers and mock services for integration
// tests. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # NATS
//
// NewNATSContainer starts a real NATS server so the event bus and forwarder
// run against the same transport as a multi-instance deployment:
//
//	nc, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, nc)
//
//	bus, err := events.NewNATSBus(nc.URL, "skillswap.")
//
// # Stripe
//
// MockStripeServer answers POST /v1/checkout/sessions the way the Stripe API
// does and records each request. FailNext queues error responses.
//
// Tests skip when Docker is unavailable. The first run pulls the NATS image.
package testinfra
