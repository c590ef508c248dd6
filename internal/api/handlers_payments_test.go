// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/models"
	"github.com/tomtom215/skillswap/internal/payments"
)

const testWebhookSecret = "whsec_test"

func paidSession(sessionID string, userID int64, packageID string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_%s","type":"checkout.session.completed","data":{"object":{`+
		`"id":%q,"payment_status":"paid","amount_total":2000,"currency":"usd",`+
		`"metadata":{"user_id":"%d","package_id":%q}}}}`,
		sessionID, sessionID, userID, packageID))
}

func postWebhook(t *testing.T, s *testServer, payload []byte, signature string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set(payments.SignatureHeader, signature)
	w := httptest.NewRecorder()
	s.http.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode webhook response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestStripeWebhook_CreditsOncePerSession(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.handler.SetPaymentService(payments.NewService(&config.PaymentsConfig{WebhookSecret: testWebhookSecret}, nil, s.db))
	buyer := s.createUser(t, "buyer")

	payload := paidSession("cs_test_1", buyer.ID, "medium")
	sig := payments.SignPayload(payload, testWebhookSecret, time.Now())

	code, env := postWebhook(t, s, payload, sig)
	if code != http.StatusOK {
		t.Fatalf("first delivery status = %d", code)
	}
	var out map[string]string
	decodeData(t, env, &out)
	if out["outcome"] != payments.OutcomeCredited {
		t.Errorf("outcome = %q, want %s", out["outcome"], payments.OutcomeCredited)
	}
	if got := s.balance(t, buyer.ID); got != testSignupBonus+50 {
		t.Errorf("balance = %d, want %d", got, testSignupBonus+50)
	}

	code, env = postWebhook(t, s, payload, sig)
	if code != http.StatusOK {
		t.Fatalf("redelivery status = %d", code)
	}
	decodeData(t, env, &out)
	if out["outcome"] != payments.OutcomeDuplicate {
		t.Errorf("redelivery outcome = %q, want %s", out["outcome"], payments.OutcomeDuplicate)
	}
	if got := s.balance(t, buyer.ID); got != testSignupBonus+50 {
		t.Errorf("balance after redelivery = %d, want %d", got, testSignupBonus+50)
	}

	w, env2 := s.do(t, http.MethodGet, "/api/v1/payments/purchases", buyer.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("purchases status = %d", w.Code)
	}
	var purchases []models.Purchase
	decodeData(t, env2, &purchases)
	if len(purchases) != 1 || purchases[0].SessionID != "cs_test_1" || purchases[0].Coins != 50 {
		t.Errorf("purchases = %+v", purchases)
	}
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.handler.SetPaymentService(payments.NewService(&config.PaymentsConfig{WebhookSecret: testWebhookSecret}, nil, s.db))
	buyer := s.createUser(t, "forger")

	payload := paidSession("cs_forged", buyer.ID, "large")
	sig := payments.SignPayload(payload, "whsec_wrong", time.Now())

	code, env := postWebhook(t, s, payload, sig)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if got := errorCode(env); got != "INVALID_WEBHOOK" {
		t.Errorf("error code = %q, want INVALID_WEBHOOK", got)
	}
	if got := s.balance(t, buyer.ID); got != testSignupBonus {
		t.Errorf("balance = %d, want unchanged %d", got, testSignupBonus)
	}
}

func TestPayments_Disabled(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	u := s.createUser(t, "window")

	w, env := s.do(t, http.MethodPost, "/api/v1/payments/checkout", u.token, CheckoutBody{PackageID: "small"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("checkout status = %d, want 503", w.Code)
	}
	if got := errorCode(env); got != CodeUnavailable {
		t.Errorf("error code = %q, want %s", got, CodeUnavailable)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/payments/packages", u.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("packages status = %d", w.Code)
	}
	var pkgs []models.CoinPackage
	decodeData(t, env, &pkgs)
	if len(pkgs) != len(models.CoinPackages) {
		t.Errorf("packages = %d, want %d", len(pkgs), len(models.CoinPackages))
	}
}
