// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/models"
)

// CreditPurchase mints the coins of a paid checkout and records the
// purchase. The Stripe session ID is the idempotency key, so a redelivered
// webhook credits nothing and returns credited=false.
func (db *DB) CreditPurchase(ctx context.Context, p *models.Purchase) (bool, error) {
	if p.SessionID == "" || p.UserID == 0 || p.Coins <= 0 {
		return false, invalidInput("Incomplete purchase")
	}

	credited := false
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		credited = false
		posted, err := db.ledger.Post(ctx, tx, ledger.Entry{
			IdempotencyKey: p.SessionID,
			Reason:         models.ReasonPurchase,
			To:             p.UserID,
			Amount:         p.Coins,
			Memo:           "Coin purchase",
			Reference:      p.PackageID,
		})
		if errors.Is(err, ledger.ErrDuplicateEntry) {
			return nil
		}
		if err != nil {
			return err
		}

		p.EntryID = posted.EntryID
		p.CreatedAt = posted.CreatedAt
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO purchases (session_id, user_id, package_id, coins, amount_cents, currency, entry_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.SessionID, p.UserID, p.PackageID, p.Coins, p.AmountCents, p.Currency, p.EntryID, p.CreatedAt); err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		credited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return credited, nil
}

// ListPurchases returns a user's credited purchases, newest first.
func (db *DB) ListPurchases(ctx context.Context, userID int64) ([]models.Purchase, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT session_id, user_id, package_id, coins, amount_cents, currency, entry_id, created_at
		FROM purchases WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	out := make([]models.Purchase, 0)
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.PackageID, &p.Coins, &p.AmountCents,
			&p.Currency, &p.EntryID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
