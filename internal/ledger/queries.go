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

	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

// DefaultHistoryLimit is used when a caller passes a non-positive limit.
const DefaultHistoryLimit = 50

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Balance returns a user's current coins.
func (l *Ledger) Balance(ctx context.Context, userID int64) (int64, error) {
	return balance(ctx, l.runner.Conn(), userID)
}

// BalanceTx reads a balance inside tx.
func (l *Ledger) BalanceTx(ctx context.Context, tx *Tx, userID int64) (int64, error) {
	return balance(ctx, tx.Tx, userID)
}

func balance(ctx context.Context, q queryer, userID int64) (int64, error) {
	var coins int64
	err := q.QueryRowContext(ctx, `SELECT coins FROM users WHERE id = ?`, userID).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return coins, nil
}

// History returns a user's transaction legs, newest first.
func (l *Ledger) History(ctx context.Context, userID int64, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := l.runner.Conn().QueryContext(ctx, `
		SELECT id, entry_id, user_id, counterparty_id, type, amount, reason,
		       COALESCE(description, ''), COALESCE(reference, ''), status, created_at
		FROM coin_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history := make([]models.CoinTransaction, 0)
	for rows.Next() {
		var t models.CoinTransaction
		var counterparty sql.NullInt64
		if err := rows.Scan(&t.ID, &t.EntryID, &t.UserID, &counterparty, &t.Type, &t.Amount,
			&t.Reason, &t.Description, &t.Reference, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if counterparty.Valid {
			id := counterparty.Int64
			t.CounterpartyID = &id
		}
		history = append(history, t)
	}
	return history, rows.Err()
}

// Transfers lists peer transfers where userID is sender or receiver.
func (l *Ledger) Transfers(ctx context.Context, userID int64, limit int) ([]models.TransferRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := l.runner.Conn().QueryContext(ctx, `
		SELECT e.entry_id, e.from_user_id, COALESCE(s.email, ''), e.to_user_id, COALESCE(r.email, ''),
		       e.amount, COALESCE(e.memo, ''), COALESCE(e.reference, ''), e.created_at
		FROM ledger_entries e
		LEFT JOIN users s ON s.id = e.from_user_id
		LEFT JOIN users r ON r.id = e.to_user_id
		WHERE e.reason = ? AND (e.from_user_id = ? OR e.to_user_id = ?)
		ORDER BY e.created_at DESC
		LIMIT ?`, models.ReasonTransfer, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	transfers := make([]models.TransferRecord, 0)
	for rows.Next() {
		var t models.TransferRecord
		if err := rows.Scan(&t.EntryID, &t.SenderID, &t.SenderEmail, &t.ReceiverID, &t.ReceiverEmail,
			&t.Amount, &t.Memo, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		t.Direction = "received"
		if t.SenderID == userID {
			t.Direction = "sent"
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// EntryByKey looks up a posted entry by its idempotency key.
func (l *Ledger) EntryByKey(ctx context.Context, key string) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	var from, to sql.NullInt64
	err := l.runner.Conn().QueryRowContext(ctx, `
		SELECT entry_id, COALESCE(idempotency_key, ''), kind, reason, from_user_id, to_user_id,
		       amount, COALESCE(memo, ''), COALESCE(reference, ''), created_at
		FROM ledger_entries WHERE idempotency_key = ?`, key).
		Scan(&e.EntryID, &e.IdempotencyKey, &e.Kind, &e.Reason, &from, &to,
			&e.Amount, &e.Memo, &e.Reference, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entry by key: %w", err)
	}
	if from.Valid {
		e.FromUserID = &from.Int64
	}
	if to.Valid {
		e.ToUserID = &to.Int64
	}
	return &e, nil
}

// Verify recomputes every balance from the transaction legs and checks the
// supply against minted and burned coins.
func (l *Ledger) Verify(ctx context.Context) (*models.LedgerReport, error) {
	conn := l.runner.Conn()
	report := &models.LedgerReport{CheckedAt: l.now()}

	rows, err := conn.QueryContext(ctx, `
		SELECT u.id, u.coins,
		       CAST(COALESCE(SUM(CASE WHEN t.type = 'credit' THEN t.amount END), 0) AS BIGINT),
		       CAST(COALESCE(SUM(CASE WHEN t.type = 'debit' THEN t.amount END), 0) AS BIGINT)
		FROM users u
		LEFT JOIN coin_transactions t ON t.user_id = u.id
		GROUP BY u.id, u.coins
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	for rows.Next() {
		var m models.BalanceMismatch
		if err := rows.Scan(&m.UserID, &m.Stored, &m.Credits, &m.Debits); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan balance row: %w", err)
		}
		report.Users++
		report.TotalSupply += m.Stored
		if m.Stored < 0 {
			report.Negative = append(report.Negative, m.UserID)
		}
		m.Expected = m.Credits - m.Debits
		if m.Expected != m.Stored {
			report.Mismatches = append(report.Mismatches, m)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate balances: %w", err)
	}
	rows.Close()

	err = conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       CAST(COALESCE(SUM(CASE WHEN kind = 'mint' THEN amount END), 0) AS BIGINT),
		       CAST(COALESCE(SUM(CASE WHEN kind = 'burn' THEN amount END), 0) AS BIGINT)
		FROM ledger_entries`).Scan(&report.Entries, &report.Minted, &report.Burned)
	if err != nil {
		return nil, fmt.Errorf("query supply: %w", err)
	}
	report.Balanced = report.TotalSupply == report.Minted-report.Burned

	rows, err = conn.QueryContext(ctx, `
		SELECT e.entry_id
		FROM ledger_entries e
		LEFT JOIN coin_transactions t ON t.entry_id = e.entry_id
		GROUP BY e.entry_id, e.kind, e.amount
		HAVING CAST(COALESCE(SUM(CASE WHEN t.type = 'credit' THEN t.amount END), 0) AS BIGINT)
		           <> CASE WHEN e.kind = 'burn' THEN 0 ELSE e.amount END
		    OR CAST(COALESCE(SUM(CASE WHEN t.type = 'debit' THEN t.amount END), 0) AS BIGINT)
		           <> CASE WHEN e.kind = 'mint' THEN 0 ELSE e.amount END
		ORDER BY e.entry_id`)
	if err != nil {
		return nil, fmt.Errorf("query entry legs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entry id: %w", err)
		}
		report.UnbalancedIDs = append(report.UnbalancedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	metrics.LedgerVerifyMismatches.Set(float64(len(report.Mismatches) + len(report.Negative) + len(report.UnbalancedIDs)))
	return report, nil
}
