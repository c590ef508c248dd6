// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/payments"
	"github.com/tomtom215/skillswap/internal/reset"
)

// Error codes shared by all endpoints.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInsufficientCoins = "INSUFFICIENT_COINS"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

var (
	// ErrResetDisabled is reported when no reset store is configured.
	ErrResetDisabled = errors.New("password reset is not configured")

	// ErrPaymentsDisabled is reported when payments are turned off.
	ErrPaymentsDisabled = errors.New("payments are not enabled")
)

// respondServiceError maps an error from the stores, the ledger, the reset
// flow or the payment service onto a status and code. Unknown errors become
// 500 with a generic message and are logged with op.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	} else {
		logging.Ctx(r.Context()).Debug().Err(err).Str("op", op).Str("code", code).Msg("request rejected")
	}
	respondError(w, status, code, message, nil)
}

func classify(err error) (status int, code, message string) {
	var insufficient *ledger.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return http.StatusBadRequest, CodeInsufficientCoins, insufficient.Error()
	}

	var storeErr *database.StoreError
	if errors.As(err, &storeErr) {
		switch {
		case errors.Is(storeErr, database.ErrNotFound):
			return http.StatusNotFound, CodeNotFound, storeErr.Message
		case errors.Is(storeErr, database.ErrConflict):
			return http.StatusConflict, CodeConflict, storeErr.Message
		case errors.Is(storeErr, database.ErrForbidden):
			return http.StatusForbidden, CodeForbidden, storeErr.Message
		case errors.Is(storeErr, database.ErrInvalidTransition):
			return http.StatusConflict, CodeInvalidTransition, storeErr.Message
		case errors.Is(storeErr, database.ErrInvalidInput):
			return http.StatusBadRequest, CodeValidation, storeErr.Message
		}
	}

	var invalidCode *reset.InvalidCodeError
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound, CodeNotFound, "User not found"
	case errors.Is(err, ledger.ErrDuplicateEntry):
		return http.StatusConflict, CodeConflict, "This operation was already processed"
	case errors.Is(err, ledger.ErrInvalidEntry):
		return http.StatusBadRequest, CodeValidation, "Invalid coin amount"

	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, CodeValidation, "Password must be at least 8 characters"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"

	case errors.As(err, &invalidCode):
		return http.StatusBadRequest, "INVALID_CODE", invalidCode.Error()
	case errors.Is(err, reset.ErrUnknownAccount):
		return http.StatusNotFound, CodeNotFound, reset.ErrUnknownAccount.Error()
	case resetSentinel(err) != nil:
		return http.StatusBadRequest, "RESET_FAILED", resetSentinel(err).Error()
	case errors.Is(err, ErrResetDisabled):
		return http.StatusServiceUnavailable, CodeUnavailable, "Password reset is not available"

	case errors.Is(err, payments.ErrDisabled), errors.Is(err, ErrPaymentsDisabled):
		return http.StatusServiceUnavailable, CodeUnavailable, "Payments are not enabled"
	case errors.Is(err, payments.ErrUnknownPackage):
		return http.StatusBadRequest, CodeValidation, "Invalid package selected"
	case errors.Is(err, payments.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable, "Payment provider is temporarily unavailable"
	}

	var stripeErr *payments.APIError
	if errors.As(err, &stripeErr) {
		return http.StatusBadGateway, "PAYMENT_PROVIDER_ERROR", "Payment provider rejected the request"
	}

	return http.StatusInternalServerError, CodeInternal, "Internal server error"
}

var resetSentinels = []error{
	reset.ErrSessionNotFound,
	reset.ErrExpired,
	reset.ErrEmailMismatch,
	reset.ErrTooManyAttempts,
	reset.ErrNotVerified,
}

// resetSentinel returns the reset flow error err wraps, or nil.
func resetSentinel(err error) error {
	for _, sentinel := range resetSentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
