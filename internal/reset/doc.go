// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package reset implements the three-step password reset flow.

 1. SendCode: the account must exist; a 6-digit code is generated and a
    reset session is stored in BadgerDB with the code TTL (15 minutes by
    default). The session ID is returned to the client.
 2. VerifyCode: session ID, email and code must match. Every wrong code
    counts as an attempt; reaching MaxAttempts destroys the session.
 3. ResetPassword: the session must be verified, unexpired and for the
    same email. The new password is hashed and stored and the session is
    consumed.

Sessions live in BadgerDB so they survive restarts when StorePath is set;
an empty path keeps them in memory. Badger's own TTL removes abandoned
sessions.

Delivering the code (email, SMS) is outside this package; the service
returns it and callers decide whether to expose it (reset.expose_code).
*/
package reset
