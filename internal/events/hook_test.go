// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/skillswap/internal/ledger"
)

type recordingPublisher struct {
	mu       sync.Mutex
	payloads []Payload
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, payload Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestLedgerCommitHook(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	hook := LedgerCommitHook(pub)
	hook(context.Background(), []ledger.Posted{
		{EntryID: "a", Kind: "transfer", Reason: "skill_enrollment", From: 1, To: 2, Amount: 30},
		{EntryID: "b", Kind: "mint", Reason: "signup_bonus", To: 3, Amount: 50},
	})

	if len(pub.payloads) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.payloads))
	}
	first, ok := pub.payloads[0].(CoinsChanged)
	if !ok {
		t.Fatalf("payload type %T", pub.payloads[0])
	}
	if first.FromID != 1 || first.ToID != 2 || first.Amount != 30 || first.Reason != "skill_enrollment" {
		t.Errorf("first = %+v", first)
	}
	if got := pub.payloads[1].Recipients(); len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("raw mint recipients = %v", got)
	}
}

func TestLedgerCommitHook_PublishErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker down")}
	hook := LedgerCommitHook(pub)
	hook(context.Background(), []ledger.Posted{{EntryID: "a", Kind: "burn", From: 1, Amount: 5}})
	hook(context.Background(), nil)

	if len(pub.payloads) != 1 {
		t.Errorf("published %d events, want 1", len(pub.payloads))
	}
}
