// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ctxFields is the immutable set of IDs attached to a request context.
// Each setter stores a modified copy so parent contexts are unaffected.
type ctxFields struct {
	requestID     string
	correlationID string
	userID        int64
	hasUser       bool
}

type ctxFieldsKey struct{}

func fieldsFrom(ctx context.Context) ctxFields {
	f, _ := ctx.Value(ctxFieldsKey{}).(ctxFields)
	return f
}

func withFields(ctx context.Context, update func(*ctxFields)) context.Context {
	f := fieldsFrom(ctx)
	update(&f)
	return context.WithValue(ctx, ctxFieldsKey{}, f)
}

// GenerateCorrelationID returns an 8 character ID, short enough to grep for
// across the bus and the HTTP log.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *ctxFields) { f.correlationID = id })
}

func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns "" when no correlation ID is set.
func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *ctxFields) { f.requestID = id })
}

// RequestIDFromContext returns "" when no request ID is set.
func RequestIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// ContextWithUserID tags every log line written through Ctx with the
// authenticated user.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return withFields(ctx, func(f *ctxFields) {
		f.userID = userID
		f.hasUser = true
	})
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	f := fieldsFrom(ctx)
	return f.userID, f.hasUser
}

// Ctx returns the global logger with the IDs carried by ctx.
//
//	logging.Ctx(ctx).Info().Int64("skill_request_id", id).Msg("skill request accepted")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith is Ctx for callers that attach more fields before building.
func CtxWith(ctx context.Context) zerolog.Context {
	f := fieldsFrom(ctx)
	lc := With()
	if f.correlationID != "" {
		lc = lc.Str("correlation_id", f.correlationID)
	}
	if f.requestID != "" {
		lc = lc.Str("request_id", f.requestID)
	}
	if f.hasUser {
		lc = lc.Int64("user_id", f.userID)
	}
	return lc
}
