// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package reset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/models"
)

type fakeAccounts struct {
	mu     sync.Mutex
	users  map[string]*models.User
	hashes map[int64]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		users:  map[string]*models.User{"rana@example.com": {ID: 7, Email: "rana@example.com"}},
		hashes: make(map[int64]string),
	}
}

func (f *fakeAccounts) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (f *fakeAccounts) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes[id] = hash
	return nil
}

func setupService(t *testing.T) (*Service, *fakeAccounts, *BadgerStore) {
	t.Helper()
	store, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	accounts := newFakeAccounts()
	svc := NewService(store, accounts, &config.ResetConfig{CodeTTL: 15 * time.Minute, MaxAttempts: 3}, 4)
	return svc, accounts, store
}

func TestResetFlow(t *testing.T) {
	t.Parallel()
	svc, accounts, store := setupService(t)
	ctx := context.Background()

	ch, err := svc.SendCode(ctx, "  Rana@Example.com ")
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if len(ch.Code) != 6 || ch.SessionID == "" || ch.ExpiresIn != 15*time.Minute {
		t.Fatalf("challenge = %+v", ch)
	}

	if err := svc.ResetPassword(ctx, ch.SessionID, "rana@example.com", "new-password"); !errors.Is(err, ErrNotVerified) {
		t.Errorf("reset before verify = %v, want ErrNotVerified", err)
	}
	if err := svc.VerifyCode(ctx, ch.SessionID, "rana@example.com", ch.Code); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if err := svc.ResetPassword(ctx, ch.SessionID, "rana@example.com", "short"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("short password = %v", err)
	}
	if err := svc.ResetPassword(ctx, ch.SessionID, "rana@example.com", "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if err := auth.CheckPassword(accounts.hashes[7], "new-password"); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}
	if _, err := store.Get(ctx, ch.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session should be consumed, got %v", err)
	}
}

func TestSendCode_UnknownAccount(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupService(t)
	if _, err := svc.SendCode(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("error = %v, want ErrUnknownAccount", err)
	}
}

func TestVerifyCode_AttemptsExhausted(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupService(t)
	ctx := context.Background()

	ch, err := svc.SendCode(ctx, "rana@example.com")
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	wrong := "000000"
	if ch.Code == wrong {
		wrong = "111111"
	}

	for want := 2; want >= 1; want-- {
		err := svc.VerifyCode(ctx, ch.SessionID, "rana@example.com", wrong)
		var ice *InvalidCodeError
		if !errors.As(err, &ice) || ice.Remaining != want {
			t.Fatalf("attempt error = %v, want %d remaining", err, want)
		}
	}
	if err := svc.VerifyCode(ctx, ch.SessionID, "rana@example.com", wrong); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("third failure = %v, want ErrTooManyAttempts", err)
	}
	if err := svc.VerifyCode(ctx, ch.SessionID, "rana@example.com", ch.Code); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("terminated session = %v, want ErrSessionNotFound", err)
	}
}

func TestVerifyCode_MismatchAndExpiry(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupService(t)
	ctx := context.Background()

	ch, err := svc.SendCode(ctx, "rana@example.com")
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if err := svc.VerifyCode(ctx, ch.SessionID, "other@example.com", ch.Code); !errors.Is(err, ErrEmailMismatch) {
		t.Errorf("mismatch = %v", err)
	}
	if err := svc.VerifyCode(ctx, "missing", "rana@example.com", ch.Code); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session = %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	if err := svc.VerifyCode(ctx, ch.SessionID, "rana@example.com", ch.Code); !errors.Is(err, ErrExpired) {
		t.Errorf("expired = %v, want ErrExpired", err)
	}
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q has a non-digit", code)
			}
		}
	}
}
