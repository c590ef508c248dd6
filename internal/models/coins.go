// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Ledger reasons. Every coin movement carries exactly one.
const (
	ReasonSignupBonus         = "signup_bonus"
	ReasonAdminGrant          = "admin_grant"
	ReasonAdminDeduct         = "admin_deduct"
	ReasonTransfer            = "transfer"
	ReasonSkillEnrollment     = "skill_enrollment"
	ReasonCommunityJoinReward = "community_join_reward"
	ReasonPurchase            = "purchase"
	ReasonAccountClosed       = "account_closed"
)

// Ledger entry kinds.
const (
	EntryTransfer = "transfer" // payer to payee, supply unchanged
	EntryMint     = "mint"     // coins created for a payee
	EntryBurn     = "burn"     // coins destroyed from a payer
)

// Transaction leg types.
const (
	TxCredit = "credit"
	TxDebit  = "debit"
)

// CoinTransaction is one leg of a ledger entry as seen by a single user.
type CoinTransaction struct {
	ID             int64     `json:"id"`
	EntryID        string    `json:"entry_id"`
	UserID         int64     `json:"user_id"`
	CounterpartyID *int64    `json:"counterparty_id,omitempty"`
	Type           string    `json:"type"` // credit or debit
	Amount         int64     `json:"amount"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description,omitempty"`
	Reference      string    `json:"reference,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// LedgerEntry is the header row of a posted entry.
type LedgerEntry struct {
	EntryID        string    `json:"entry_id"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Kind           string    `json:"kind"`
	Reason         string    `json:"reason"`
	FromUserID     *int64    `json:"from_user_id,omitempty"`
	ToUserID       *int64    `json:"to_user_id,omitempty"`
	Amount         int64     `json:"amount"`
	Memo           string    `json:"memo,omitempty"`
	Reference      string    `json:"reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransferRecord is a peer transfer as listed to one of its parties.
type TransferRecord struct {
	EntryID       string    `json:"entry_id"`
	SenderID      int64     `json:"sender_id"`
	SenderEmail   string    `json:"sender_email"`
	ReceiverID    int64     `json:"receiver_id"`
	ReceiverEmail string    `json:"receiver_email"`
	Amount        int64     `json:"amount"`
	Memo          string    `json:"memo,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	Direction     string    `json:"direction"` // sent or received, relative to the viewer
	CreatedAt     time.Time `json:"created_at"`
}

// BalanceMismatch is a user whose stored balance disagrees with the ledger.
type BalanceMismatch struct {
	UserID   int64 `json:"user_id"`
	Stored   int64 `json:"stored"`
	Credits  int64 `json:"credits"`
	Debits   int64 `json:"debits"`
	Expected int64 `json:"expected"`
}

// LedgerReport summarises a full ledger verification.
type LedgerReport struct {
	Users         int               `json:"users"`
	Entries       int64             `json:"entries"`
	TotalSupply   int64             `json:"total_supply"`
	Minted        int64             `json:"minted"`
	Burned        int64             `json:"burned"`
	Negative      []int64           `json:"negative_balances,omitempty"`
	Mismatches    []BalanceMismatch `json:"mismatches,omitempty"`
	Balanced      bool              `json:"balanced"`
	UnbalancedIDs []string          `json:"unbalanced_entries,omitempty"`
	CheckedAt     time.Time         `json:"checked_at"`
}

// OK reports whether the ledger verified cleanly.
func (r *LedgerReport) OK() bool {
	return len(r.Negative) == 0 && len(r.Mismatches) == 0 && len(r.UnbalancedIDs) == 0 && r.Balanced
}
