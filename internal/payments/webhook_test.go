// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package payments

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Unix(1_760_000_000, 0)
	valid := SignPayload(payload, secret, now)

	tests := []struct {
		name    string
		payload []byte
		header  string
		now     time.Time
		wantErr bool
	}{
		{"valid", payload, valid, now, false},
		{"valid within tolerance", payload, valid, now.Add(4 * time.Minute), false},
		{"expired", payload, valid, now.Add(10 * time.Minute), true},
		{"from the future", payload, valid, now.Add(-10 * time.Minute), true},
		{"tampered payload", []byte(`{"id":"evt_2"}`), valid, now, true},
		{"wrong secret", payload, SignPayload(payload, "whsec_other", now), now, true},
		{"missing header", payload, "", now, true},
		{"no v1", payload, "t=1760000000,v0=abc", now, true},
		{"bad timestamp", payload, "t=abc,v1=00", now, true},
		{"extra signatures", payload, valid + ",v1=deadbeef", now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := VerifySignature(tt.payload, tt.header, secret, 5*time.Minute, tt.now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifySignature err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("err = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestVerifySignature_ZeroToleranceSkipsAgeCheck(t *testing.T) {
	t.Parallel()

	payload := []byte(`{}`)
	header := SignPayload(payload, "s", time.Unix(1000, 0))
	if err := VerifySignature(payload, header, "s", 0, time.Now()); err != nil {
		t.Errorf("VerifySignature: %v", err)
	}
}

func TestSignPayloadFormat(t *testing.T) {
	t.Parallel()

	header := SignPayload([]byte("x"), "s", time.Unix(1700000000, 0))
	if !strings.HasPrefix(header, "t=1700000000,v1=") || len(header) != len("t=1700000000,v1=")+64 {
		t.Errorf("header = %s", header)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	t.Parallel()

	ev, err := ParseWebhookEvent([]byte(`{"id":"evt","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_status":"paid","metadata":{"user_id":"5","package_id":"small"}}}}`))
	if err != nil {
		t.Fatalf("ParseWebhookEvent: %v", err)
	}
	if ev.Data.Object.ID != "cs_1" || ev.Data.Object.Metadata["package_id"] != "small" {
		t.Errorf("event = %+v", ev)
	}
	if _, err := ParseWebhookEvent([]byte(`{"id":"evt"}`)); err == nil {
		t.Error("expected error for missing type")
	}
}
