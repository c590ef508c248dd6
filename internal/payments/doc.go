// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package payments sells coin packages through Stripe Checkout.

Checkout:

Service.Checkout creates a Checkout Session for one of models.CoinPackages
and returns its ID and hosted URL. The session carries user_id, package_id
and coins in its metadata and the user ID as client_reference_id.

Outbound calls go through StripeClient, which applies a token-bucket rate
limit (golang.org/x/time/rate) and a circuit breaker (sony/gobreaker). Only
transport errors and 5xx responses count as breaker failures; a 4xx from
Stripe is a request problem and leaves the breaker closed.

Webhooks:

Service.HandleWebhook verifies the Stripe-Signature header (HMAC-SHA256 over
"timestamp.payload", rejected outside the configured tolerance) and, for
checkout.session.completed with payment_status=paid, mints the package's
coins through the ledger. The session ID is the ledger idempotency key, so
Stripe's at-least-once delivery never credits twice.
*/
package payments
