// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

var (
	testDBSemaphore = make(chan struct{}, 4)
	userSeq         atomic.Int64
)

func setupLedger(t *testing.T) (*database.DB, *ledger.Ledger) {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	db.SetRetryPolicy(50, time.Millisecond)
	t.Cleanup(func() { _ = db.Close() })
	return db, db.Ledger()
}

// newAccount creates a user holding balance coins.
func newAccount(t *testing.T, db *database.DB, balance int64) int64 {
	t.Helper()
	ctx := context.Background()
	n := userSeq.Add(1)
	u, err := db.CreateUser(ctx, models.NewUser{
		Name:         "user",
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Phone:        "71123456",
	}, 0)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if balance > 0 {
		if _, err := db.Ledger().Mint(ctx, u.ID, balance, models.ReasonAdminGrant, "seed", ""); err != nil {
			t.Fatalf("Mint: %v", err)
		}
	}
	return u.ID
}

func mustBalance(t *testing.T, l *ledger.Ledger, id int64) int64 {
	t.Helper()
	b, err := l.Balance(context.Background(), id)
	if err != nil {
		t.Fatalf("Balance(%d): %v", id, err)
	}
	return b
}

func mustVerify(t *testing.T, l *ledger.Ledger) *models.LedgerReport {
	t.Helper()
	r, err := l.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !r.OK() {
		t.Fatalf("ledger does not verify: %+v", r)
	}
	return r
}

func TestTransfer(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	a := newAccount(t, db, 100)
	b := newAccount(t, db, 0)

	p, err := l.Transfer(ctx, a, b, 30, models.ReasonTransfer, "lesson", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if p.Kind != models.EntryTransfer || p.EntryID == "" {
		t.Errorf("posted = %+v", p)
	}
	if got := mustBalance(t, l, a); got != 70 {
		t.Errorf("a = %d, want 70", got)
	}
	if got := mustBalance(t, l, b); got != 30 {
		t.Errorf("b = %d, want 30", got)
	}

	hist, err := l.History(ctx, a, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[0].Type != models.TxDebit || hist[0].EntryID != p.EntryID {
		t.Errorf("history = %+v", hist)
	}
	if hist[0].CounterpartyID == nil || *hist[0].CounterpartyID != b {
		t.Errorf("counterparty = %v", hist[0].CounterpartyID)
	}

	r := mustVerify(t, l)
	if r.TotalSupply != 100 || r.Minted != 100 || r.Burned != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestInsufficientFunds(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	a := newAccount(t, db, 10)
	b := newAccount(t, db, 0)

	_, err := l.Transfer(ctx, a, b, 11, models.ReasonTransfer, "", "")
	var ife *ledger.InsufficientFundsError
	if !errors.As(err, &ife) {
		t.Fatalf("error = %v, want InsufficientFundsError", err)
	}
	if ife.Required != 11 || ife.Available != 10 || ife.UserID != a {
		t.Errorf("error fields = %+v", ife)
	}
	if err.Error() != "Insufficient coins. Required: 11, Available: 10" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Error("errors.Is(ErrInsufficientFunds) = false")
	}

	_, err = l.Burn(ctx, a, 50, models.ReasonAdminDeduct, "", "")
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("burn error = %v", err)
	}

	if got := mustBalance(t, l, a); got != 10 {
		t.Errorf("balance changed to %d", got)
	}
	if got := mustBalance(t, l, b); got != 0 {
		t.Errorf("payee balance changed to %d", got)
	}
	mustVerify(t, l)
}

func TestMissingAccountRollsBack(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	a := newAccount(t, db, 10)

	_, err := l.Transfer(ctx, a, 9999, 5, models.ReasonTransfer, "", "")
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("error = %v, want ErrAccountNotFound", err)
	}
	if got := mustBalance(t, l, a); got != 10 {
		t.Errorf("debit was not rolled back: %d", got)
	}

	_, err = l.Balance(ctx, 9999)
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Errorf("Balance(missing) = %v", err)
	}
}

func TestInvalidEntries(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()
	a := newAccount(t, db, 10)

	tests := []struct {
		name  string
		entry ledger.Entry
	}{
		{"zero amount", ledger.Entry{Reason: "x", From: a, To: 0, Amount: 0}},
		{"negative amount", ledger.Entry{Reason: "x", To: a, Amount: -5}},
		{"no accounts", ledger.Entry{Reason: "x", Amount: 5}},
		{"self transfer", ledger.Entry{Reason: "x", From: a, To: a, Amount: 5}},
		{"missing reason", ledger.Entry{To: a, Amount: 5}},
	}
	for _, tt := range tests {
		if _, err := l.Submit(ctx, tt.entry); !errors.Is(err, ledger.ErrInvalidEntry) {
			t.Errorf("%s: error = %v, want ErrInvalidEntry", tt.name, err)
		}
	}
	if got := mustBalance(t, l, a); got != 10 {
		t.Errorf("balance = %d", got)
	}
}

func TestIdempotencyKey(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	a := newAccount(t, db, 0)

	first, err := l.Mint(ctx, a, 20, models.ReasonPurchase, "", "cs_test_abc")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	_, err = l.Mint(ctx, a, 20, models.ReasonPurchase, "", "cs_test_abc")
	if !errors.Is(err, ledger.ErrDuplicateEntry) {
		t.Fatalf("replay error = %v, want ErrDuplicateEntry", err)
	}
	if got := mustBalance(t, l, a); got != 20 {
		t.Errorf("balance = %d, want 20", got)
	}

	e, err := l.EntryByKey(ctx, "cs_test_abc")
	if err != nil || e == nil || e.EntryID != first.EntryID {
		t.Errorf("EntryByKey = %+v, %v", e, err)
	}
	missing, err := l.EntryByKey(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("EntryByKey(nope) = %+v, %v", missing, err)
	}
}

func TestRunAtomicity(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	a := newAccount(t, db, 50)
	b := newAccount(t, db, 0)

	var hookCalls atomic.Int32
	l.OnCommit(func(_ context.Context, posted []ledger.Posted) {
		hookCalls.Add(1)
	})

	boom := errors.New("boom")
	err := l.Run(ctx, func(tx *ledger.Tx) error {
		if _, err := l.Post(ctx, tx, ledger.Entry{Reason: models.ReasonTransfer, From: a, To: b, Amount: 20}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v", err)
	}
	if got := mustBalance(t, l, a); got != 50 {
		t.Errorf("rolled back run changed balance: %d", got)
	}
	if hookCalls.Load() != 0 {
		t.Error("commit hook ran for a rolled back transaction")
	}

	err = l.Run(ctx, func(tx *ledger.Tx) error {
		for i := 0; i < 2; i++ {
			if _, err := l.Post(ctx, tx, ledger.Entry{Reason: models.ReasonTransfer, From: a, To: b, Amount: 10}); err != nil {
				return err
			}
		}
		if len(tx.Posted()) != 2 {
			t.Errorf("tx.Posted = %d", len(tx.Posted()))
		}
		bal, err := l.BalanceTx(ctx, tx, a)
		if err != nil {
			return err
		}
		if bal != 30 {
			t.Errorf("balance inside tx = %d, want 30", bal)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hookCalls.Load() != 1 {
		t.Errorf("hook calls = %d, want 1", hookCalls.Load())
	}
	mustVerify(t, l)
}

func TestConcurrentTransfersConserveSupply(t *testing.T) {
	t.Parallel()
	db, l := setupLedger(t)
	ctx := context.Background()

	const accounts = 4
	ids := make([]int64, accounts)
	for i := range ids {
		ids[i] = newAccount(t, db, 20)
	}

	var wg sync.WaitGroup
	var ok, rejected atomic.Int32
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				from := ids[(w+i)%accounts]
				to := ids[(w+i+1)%accounts]
				_, err := l.Transfer(ctx, from, to, 7, models.ReasonTransfer, "", "")
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, ledger.ErrInsufficientFunds):
					rejected.Add(1)
				default:
					t.Errorf("transfer: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	var total int64
	for _, id := range ids {
		b := mustBalance(t, l, id)
		if b < 0 {
			t.Errorf("account %d went negative: %d", id, b)
		}
		total += b
	}
	if total != accounts*20 {
		t.Errorf("supply = %d, want %d", total, accounts*20)
	}
	if ok.Load() == 0 {
		t.Error("no transfer succeeded")
	}
	mustVerify(t, l)
}

func TestMetricsRecordedOnCommit(t *testing.T) {
	db, l := setupLedger(t)
	ctx := context.Background()
	a := newAccount(t, db, 0)

	entries := metrics.LedgerEntriesPosted.WithLabelValues(models.EntryMint, models.ReasonCommunityJoinReward)
	coins := metrics.LedgerCoinsMoved.WithLabelValues(models.ReasonCommunityJoinReward)
	beforeEntries := testutil.ToFloat64(entries)
	beforeCoins := testutil.ToFloat64(coins)

	if _, err := l.Mint(ctx, a, 5, models.ReasonCommunityJoinReward, "", ""); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if got := testutil.ToFloat64(entries) - beforeEntries; got != 1 {
		t.Errorf("entries delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(coins) - beforeCoins; got != 5 {
		t.Errorf("coins delta = %v, want 5", got)
	}

	rejections := metrics.LedgerRejections.WithLabelValues(models.ReasonAccountClosed, "insufficient_funds")
	before := testutil.ToFloat64(rejections)
	if _, err := l.Burn(ctx, a, 500, models.ReasonAccountClosed, "", ""); err == nil {
		t.Fatal("expected burn to fail")
	}
	if got := testutil.ToFloat64(rejections) - before; got != 1 {
		t.Errorf("rejections delta = %v, want 1", got)
	}
}
