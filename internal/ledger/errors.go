// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateEntry is returned when an idempotency key was already posted.
	// Nothing was changed.
	ErrDuplicateEntry = errors.New("ledger entry already posted")

	// ErrAccountNotFound is returned when a payer or payee does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidEntry is returned for entries that can never be posted.
	ErrInvalidEntry = errors.New("invalid ledger entry")

	// ErrInsufficientFunds matches any *InsufficientFundsError via errors.Is.
	ErrInsufficientFunds = errors.New("insufficient coins")
)

// InsufficientFundsError reports a debit larger than the payer's balance.
type InsufficientFundsError struct {
	UserID    int64
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient coins. Required: %d, Available: %d", e.Required, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntry, fmt.Sprintf(format, args...))
}

// isUniqueViolation matches DuckDB constraint errors for UNIQUE and PRIMARY KEY.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "violates primary key constraint")
}

// rejectionCause maps a Post error onto a metrics label.
func rejectionCause(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrDuplicateEntry):
		return "duplicate"
	case errors.Is(err, ErrInvalidEntry):
		return "invalid"
	default:
		return "error"
	}
}
