// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
handler_context.go - Request Context Helpers

Handlers behind auth.Middleware read the caller's identity through
HandlerContext instead of touching the JWT claims directly:

	func (h *Handler) SomeHandler(w http.ResponseWriter, r *http.Request) {
	    hctx, ok := requireUser(w, r)
	    if !ok {
	        return
	    }
	    skills, err := h.db.ListUserSkills(r.Context(), hctx.UserID)
	    ...
	}
*/

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/models"
)

// HandlerContext is the authenticated caller of a request.
type HandlerContext struct {
	// UserID is 0 for unauthenticated requests.
	UserID int64

	// Email is the address the token was issued for.
	Email string

	// Role is models.RoleUser or models.RoleAdmin.
	Role string

	// RequestID is the X-Request-ID of this request.
	RequestID string
}

// GetHandlerContext extracts the authentication context from an HTTP request.
// UserID is 0 when the request carries no valid token.
func GetHandlerContext(r *http.Request) *HandlerContext {
	hctx := &HandlerContext{RequestID: r.Header.Get("X-Request-ID")}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		hctx.UserID = claims.UserID
		hctx.Email = claims.Email
		hctx.Role = claims.Role
	}
	return hctx
}

// IsAuthenticated reports whether the request carried a valid token.
func (h *HandlerContext) IsAuthenticated() bool {
	return h.UserID != 0
}

// IsAdmin reports whether the caller holds the admin role.
func (h *HandlerContext) IsAdmin() bool {
	return h.Role == models.RoleAdmin
}

// requireUser returns the caller or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*HandlerContext, bool) {
	hctx := GetHandlerContext(r)
	if !hctx.IsAuthenticated() {
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return hctx, true
}
