// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package authz enforces role-based access to the API with Casbin.

The model and policy are embedded (model.conf, policy.csv). Two roles exist:

  - user: every member endpoint under /api/v1
  - admin: inherits user and adds /api/v1/admin/*

Requests are checked as (role, path, action) where the action is derived
from the HTTP method: GET/HEAD/OPTIONS read, POST/PUT/PATCH write, DELETE
delete. Decisions are cached per (role, path, action) for CacheTTL.

Usage:

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{PolicyPath: cfg.Security.CasbinPolicyPath})
	if err != nil {
	    return err
	}
	r.Use(authMiddleware.Authenticate, authz.NewMiddleware(enforcer).Authorize)

Ownership rules (only the poster sees applicants, only the creator deletes a
community comment, ...) are row-level and enforced by the store, not here.
*/
package authz
