// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// Package ledger is the single engine through which coins move.
//
// Every movement is an Entry posted inside a database transaction:
//
//	idempotency check -> conditional debit -> credit -> transaction legs -> entry header
//
// The debit is a conditional UPDATE (coins >= amount), so a balance can never
// go negative even under concurrent writers, and a CHECK constraint on the
// users table backs it up. A transfer debits and credits the same amount, so
// the sum of balances is unchanged; mints and burns change the supply by
// exactly their amount and are always logged.
//
// Flows that need more than one statement (accepting a skill request,
// joining a community) run through Ledger.Run and call Post alongside their
// own SQL, so the coin movement and the domain change commit together:
//
//	err := l.Run(ctx, func(tx *ledger.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `UPDATE skill_requests ...`); err != nil {
//	        return err
//	    }
//	    _, err := l.Post(ctx, tx, ledger.Entry{...})
//	    return err
//	})
//
// Run retries the whole function when DuckDB reports a write-write conflict.
package ledger

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/tomtom215/skillswap/internal/metrics"
)

// Runner executes fn inside a transaction, retrying on write conflicts.
// *database.DB implements it.
type Runner interface {
	InTx(ctx context.Context, fn func(*sql.Tx) error) error
	Conn() *sql.DB
}

// CommitHook observes entries after their transaction committed.
type CommitHook func(ctx context.Context, posted []Posted)

// Tx is a database transaction that records the entries posted through it.
type Tx struct {
	*sql.Tx
	posted []Posted
}

// Posted returns the entries posted so far in this transaction.
func (tx *Tx) Posted() []Posted {
	return tx.posted
}

// Ledger posts entries and answers balance queries.
type Ledger struct {
	runner Runner
	now    func() time.Time

	hooksMu sync.RWMutex
	hooks   []CommitHook
}

// New creates a ledger on top of runner.
func New(runner Runner) *Ledger {
	return &Ledger{
		runner: runner,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OnCommit registers a hook called after every successful Run.
func (l *Ledger) OnCommit(hook CommitHook) {
	l.hooksMu.Lock()
	defer l.hooksMu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Run executes fn in one transaction. Entries posted by fn are counted in
// metrics and handed to commit hooks only once the transaction committed.
func (l *Ledger) Run(ctx context.Context, fn func(*Tx) error) error {
	var committed []Posted
	err := l.runner.InTx(ctx, func(sqlTx *sql.Tx) error {
		tx := &Tx{Tx: sqlTx}
		if err := fn(tx); err != nil {
			return err
		}
		committed = tx.posted
		return nil
	})
	if err != nil {
		return err
	}

	if len(committed) == 0 {
		return nil
	}
	for _, p := range committed {
		metrics.RecordLedgerEntry(p.Kind, p.Reason, p.Amount)
	}

	l.hooksMu.RLock()
	hooks := make([]CommitHook, len(l.hooks))
	copy(hooks, l.hooks)
	l.hooksMu.RUnlock()
	for _, h := range hooks {
		h(ctx, committed)
	}
	return nil
}

// Submit posts a single entry in its own transaction.
func (l *Ledger) Submit(ctx context.Context, e Entry) (Posted, error) {
	var posted Posted
	err := l.Run(ctx, func(tx *Tx) error {
		p, err := l.Post(ctx, tx, e)
		if err != nil {
			return err
		}
		posted = p
		return nil
	})
	return posted, err
}

// Transfer moves amount from one user to another.
func (l *Ledger) Transfer(ctx context.Context, from, to, amount int64, reason, memo, key string) (Posted, error) {
	return l.Submit(ctx, Entry{
		IdempotencyKey: key,
		Reason:         reason,
		From:           from,
		To:             to,
		Amount:         amount,
		Memo:           memo,
	})
}

// Mint creates amount coins for a user.
func (l *Ledger) Mint(ctx context.Context, to, amount int64, reason, memo, key string) (Posted, error) {
	return l.Submit(ctx, Entry{IdempotencyKey: key, Reason: reason, To: to, Amount: amount, Memo: memo})
}

// Burn destroys amount coins of a user. It fails with an
// *InsufficientFundsError when the balance is too small.
func (l *Ledger) Burn(ctx context.Context, from, amount int64, reason, memo, key string) (Posted, error) {
	return l.Submit(ctx, Entry{IdempotencyKey: key, Reason: reason, From: from, Amount: amount, Memo: memo})
}
