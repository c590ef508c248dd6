// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package events

import (
	"context"

	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/logging"
)

// LedgerCommitHook publishes coins.changed for every entry of a committed
// ledger transaction.
func LedgerCommitHook(pub Publisher) ledger.CommitHook {
	return func(ctx context.Context, posted []ledger.Posted) {
		for i := range posted {
			p := &posted[i]
			ev := CoinsChanged{
				EntryID: p.EntryID,
				Kind:    p.Kind,
				Reason:  p.Reason,
				FromID:  p.From,
				ToID:    p.To,
				Amount:  p.Amount,
			}
			if err := pub.Publish(ctx, ev); err != nil {
				logging.Ctx(ctx).Warn().Err(err).
					Str("entry_id", p.EntryID).
					Msg("coins.changed publish failed")
			}
		}
	}
}
