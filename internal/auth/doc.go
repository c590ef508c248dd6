// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package auth provides password hashing, JWT session tokens and the
authentication middleware for the Skillswap API.

Key Components:

  - JWTManager: HS256 token generation and validation
  - HashPassword / CheckPassword: bcrypt password hashes
  - Middleware: extracts the token from the Authorization header or the
    "token" cookie and stores the Claims in the request context

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager)

	r.Group(func(r chi.Router) {
	    r.Use(mw.Authenticate)
	    r.Get("/api/v1/coins/balance", h.Balance)
	})

Handlers read the caller with ClaimsFromContext or UserIDFromContext.

Roles:

Tokens carry one of two roles, "user" or "admin". Admin is granted at login
to emails listed in security.admin_emails. Path-level enforcement lives in
package authz.
*/
package auth
