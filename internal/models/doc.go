// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package models defines the data structures shared by the database, ledger,
API and event layers of Skillswap.

Model Categories:

 1. Accounts:
    - User: account row including the coin balance
    - PublicProfile: user fields safe to show other members

 2. Coin economy:
    - CoinTransaction: one leg (credit or debit) of a ledger entry
    - LedgerEntry: the header of a posted ledger entry
    - LedgerReport: result of a full ledger verification

 3. Learning:
    - Skill, Category, Course
    - SkillRequest with its status transitions
    - Learning with date-driven status derivation
    - Certificate

 4. Social:
    - Community, CommunityComment, CommunityResource
    - Message, Conversation
    - Internship, InternshipApplication
    - Rating, RatingSummary, Favorite

 5. Payments:
    - CoinPackage, Purchase

Dates without a time component use the Date type, which marshals as
"2006-01-02" in JSON and maps to a DuckDB DATE column.
*/
package models
