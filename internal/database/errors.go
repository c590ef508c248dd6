// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/skillswap/internal/logging"
)

// Sentinel errors returned by the stores. Match them with errors.Is; the
// wrapping *StoreError carries a message suitable for API clients.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StoreError pairs a sentinel with a user-facing message.
type StoreError struct {
	Kind    error
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Kind
}

func notFound(msg string) error     { return &StoreError{Kind: ErrNotFound, Message: msg} }
func conflict(msg string) error     { return &StoreError{Kind: ErrConflict, Message: msg} }
func forbidden(msg string) error    { return &StoreError{Kind: ErrForbidden, Message: msg} }
func invalidInput(msg string) error { return &StoreError{Kind: ErrInvalidInput, Message: msg} }
func badTransition(msg string) error {
	return &StoreError{Kind: ErrInvalidTransition, Message: msg}
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// isUniqueViolation checks if an error is a UNIQUE or PRIMARY KEY violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate key") ||
		strings.Contains(errStr, "violates unique constraint") ||
		strings.Contains(errStr, "violates primary key constraint")
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
