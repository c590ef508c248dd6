// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package authz

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/logging"
)

// Policy actions. Coin-moving endpoints are all "write".
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

var methodActions = map[string]string{
	http.MethodGet:     ActionRead,
	http.MethodHead:    ActionRead,
	http.MethodOptions: ActionRead,
	http.MethodPost:    ActionWrite,
	http.MethodPut:     ActionWrite,
	http.MethodPatch:   ActionWrite,
	http.MethodDelete:  ActionDelete,
}

// methodToAction maps an HTTP method to a policy action. Unknown methods
// are treated as reads.
func methodToAction(method string) string {
	if action, ok := methodActions[method]; ok {
		return action
	}
	return ActionRead
}

// Middleware gates API routes on the caller's role.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware wraps enforcer for use in a chi middleware stack.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize rejects requests whose role may not perform the method on the
// path. It reads claims set by auth.Middleware.Authenticate, so it must be
// mounted after it. Tokens without a role act as RoleUser.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := auth.ClaimsFromContext(ctx)
		if !ok {
			auth.WriteError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden: no authentication context")
			return
		}

		role := roleOf(claims)
		action := methodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(role, r.URL.Path, action)
		switch {
		case err != nil:
			logging.Ctx(ctx).Error().Err(err).Str("path", r.URL.Path).Msg("authorization error")
			auth.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		case !allowed:
			logging.Ctx(ctx).Debug().
				Int64("user_id", claims.UserID).
				Str("role", role).
				Str("action", action).
				Str("path", r.URL.Path).
				Msg("access denied")
			auth.WriteError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden: insufficient permissions")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func roleOf(claims *auth.Claims) string {
	if claims.Role == "" {
		return RoleUser
	}
	return claims.Role
}
