// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

// Entry describes one coin movement. From == 0 mints to To; To == 0 burns
// from From; both set is a transfer.
type Entry struct {
	// IdempotencyKey makes the entry post at most once. Optional.
	IdempotencyKey string
	Reason         string
	From           int64
	To             int64
	Amount         int64
	Memo           string
	Reference      string
}

// Kind classifies the entry.
func (e *Entry) Kind() string {
	switch {
	case e.From != 0 && e.To != 0:
		return models.EntryTransfer
	case e.From != 0:
		return models.EntryBurn
	default:
		return models.EntryMint
	}
}

func (e *Entry) validate() error {
	if e.Amount <= 0 {
		return invalid("amount must be positive, got %d", e.Amount)
	}
	if e.From == 0 && e.To == 0 {
		return invalid("entry needs a payer or a payee")
	}
	if e.From == e.To {
		return invalid("payer and payee are the same account")
	}
	if e.Reason == "" {
		return invalid("reason is required")
	}
	return nil
}

// Posted is an entry that was written in a transaction.
type Posted struct {
	EntryID   string
	Kind      string
	Reason    string
	From      int64
	To        int64
	Amount    int64
	CreatedAt time.Time
}

// Users returns the accounts whose balance the entry changed.
func (p *Posted) Users() []int64 {
	users := make([]int64, 0, 2)
	if p.From != 0 {
		users = append(users, p.From)
	}
	if p.To != 0 {
		users = append(users, p.To)
	}
	return users
}

// Post writes e inside tx. On any error the caller must roll back; Run does
// that automatically.
func (l *Ledger) Post(ctx context.Context, tx *Tx, e Entry) (Posted, error) {
	p, err := l.post(ctx, tx.Tx, &e)
	if err != nil {
		metrics.RecordLedgerRejection(e.Reason, rejectionCause(err))
		return Posted{}, err
	}
	tx.posted = append(tx.posted, p)
	return p, nil
}

func (l *Ledger) post(ctx context.Context, tx *sql.Tx, e *Entry) (Posted, error) {
	if err := e.validate(); err != nil {
		return Posted{}, err
	}

	if e.IdempotencyKey != "" {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM ledger_entries WHERE idempotency_key = ?`, e.IdempotencyKey).Scan(&exists)
		if err != nil {
			return Posted{}, fmt.Errorf("idempotency check: %w", err)
		}
		if exists > 0 {
			return Posted{}, ErrDuplicateEntry
		}
	}

	now := l.now()
	if e.From != 0 {
		if err := debit(ctx, tx, e.From, e.Amount, now); err != nil {
			return Posted{}, err
		}
	}
	if e.To != 0 {
		if err := credit(ctx, tx, e.To, e.Amount, now); err != nil {
			return Posted{}, err
		}
	}

	p := Posted{
		EntryID:   uuid.New().String(),
		Kind:      e.Kind(),
		Reason:    e.Reason,
		From:      e.From,
		To:        e.To,
		Amount:    e.Amount,
		CreatedAt: now,
	}

	if e.From != 0 {
		if err := insertLeg(ctx, tx, &p, e, e.From, e.To, models.TxDebit); err != nil {
			return Posted{}, err
		}
	}
	if e.To != 0 {
		if err := insertLeg(ctx, tx, &p, e, e.To, e.From, models.TxCredit); err != nil {
			return Posted{}, err
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (
			entry_id, idempotency_key, kind, reason, from_user_id, to_user_id,
			amount, memo, reference, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.EntryID, nullString(e.IdempotencyKey), p.Kind, p.Reason,
		nullID(e.From), nullID(e.To), p.Amount, e.Memo, e.Reference, now)
	if err != nil {
		if e.IdempotencyKey != "" && isUniqueViolation(err) {
			return Posted{}, ErrDuplicateEntry
		}
		return Posted{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	return p, nil
}

// debit subtracts amount only if the balance covers it.
func debit(ctx context.Context, tx *sql.Tx, userID, amount int64, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET coins = coins - ?, updated_at = ? WHERE id = ? AND coins >= ?`,
		amount, now, userID, amount)
	if err != nil {
		return fmt.Errorf("debit user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit user %d: %w", userID, err)
	}
	if n == 1 {
		return nil
	}

	var available int64
	err = tx.QueryRowContext(ctx, `SELECT coins FROM users WHERE id = ?`, userID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("payer %d: %w", userID, ErrAccountNotFound)
	}
	if err != nil {
		return fmt.Errorf("read balance of user %d: %w", userID, err)
	}
	return &InsufficientFundsError{UserID: userID, Required: amount, Available: available}
}

func credit(ctx context.Context, tx *sql.Tx, userID, amount int64, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET coins = coins + ?, updated_at = ? WHERE id = ?`,
		amount, now, userID)
	if err != nil {
		return fmt.Errorf("credit user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit user %d: %w", userID, err)
	}
	if n != 1 {
		return fmt.Errorf("payee %d: %w", userID, ErrAccountNotFound)
	}
	return nil
}

func insertLeg(ctx context.Context, tx *sql.Tx, p *Posted, e *Entry, userID, counterparty int64, legType string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO coin_transactions (
			entry_id, user_id, counterparty_id, type, amount, reason,
			description, reference, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'completed', ?)`,
		p.EntryID, userID, nullID(counterparty), legType, p.Amount, p.Reason,
		e.Memo, e.Reference, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert %s leg for user %d: %w", legType, userID, err)
	}
	return nil
}

// nullID binds 0 as NULL.
func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
