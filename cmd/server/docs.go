// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// @title Skillswap API
// @version 1.0
// @description Skill exchange platform. Members teach and learn skills and pay each other in coins.
// @description
// @description ## Coins
// @description
// @description Every coin movement is a ledger entry. Balances never go negative. Coin-moving
// @description endpoints accept an `Idempotency-Key` header; a retried request returns the
// @description original entry with `replayed: true`.
// @description
// @description ## Authentication
// @description
// @description Log in with `/api/v1/auth/login`. The JWT is returned in the body and set as an
// @description HTTP-only cookie; send it back as `Authorization: Bearer <token>` or the cookie.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "INSUFFICIENT_COINS", "message": "Insufficient coins. Required: 40, Available: 25"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/skillswap/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>" from /api/v1/auth/login.
//
// @tag.name Auth
// @tag.description Registration, login and password reset
// @tag.name Coins
// @tag.description Balances, history and transfers
// @tag.name Skills
// @tag.description Catalog, skills, ratings and favorites
// @tag.name Learning
// @tag.description Skill requests, learnings and certificates
// @tag.name Communities
// @tag.description Communities, comments and shared resources
// @tag.name Messages
// @tag.description Direct messages
// @tag.name Internships
// @tag.description Internship postings and applications
// @tag.name Payments
// @tag.description Coin packages and Stripe checkout
// @tag.name Admin
// @tag.description Coin grants and ledger verification
// @tag.name Core
// @tag.description Health checks and realtime updates
package main
