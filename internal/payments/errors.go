// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned when payments are not configured.
	ErrDisabled = errors.New("Payments are not enabled")

	// ErrUnknownPackage is returned for a package ID not in the catalog.
	ErrUnknownPackage = errors.New("Unknown coin package")

	// ErrInvalidSignature is returned when a webhook fails verification.
	ErrInvalidSignature = errors.New("invalid Stripe signature")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("Payment provider temporarily unavailable")
)

// APIError is a non-2xx response from Stripe.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("stripe: HTTP %d", e.Status)
	}
	return fmt.Sprintf("stripe: HTTP %d: %s", e.Status, e.Message)
}

// Temporary reports whether retrying later could succeed.
func (e *APIError) Temporary() bool {
	return e.Status == 429 || e.Status >= 500
}
