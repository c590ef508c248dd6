// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/models"
)

func testPaymentsConfig(baseURL string) *config.PaymentsConfig {
	return &config.PaymentsConfig{
		Enabled:         true,
		StripeSecretKey: "sk_test_abc",
		WebhookSecret:   "whsec_test",
		APIBaseURL:      baseURL,
		SuccessURL:      "https://skillswap.test/coins?success=1",
		CancelURL:       "https://skillswap.test/coins?canceled=1",
		Currency:        "USD",
		Timeout:         2 * time.Second,
	}
}

func largePackage(t *testing.T) models.CoinPackage {
	t.Helper()
	pkg, ok := models.FindCoinPackage("large")
	if !ok {
		t.Fatal("large package missing")
	}
	return pkg
}

func TestStripeClient_CreateCheckoutSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_abc" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		checks := map[string]string{
			"mode":                                   "payment",
			"client_reference_id":                    "42",
			"customer_email":                         "ada@example.com",
			"line_items[0][price_data][currency]":    "usd",
			"line_items[0][price_data][unit_amount]": "10000",
			"metadata[user_id]":                      "42",
			"metadata[package_id]":                   "large",
			"metadata[coins]":                        "300",
		}
		for key, want := range checks {
			if got := r.PostForm.Get(key); got != want {
				t.Errorf("%s = %q, want %q", key, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.test/cs_test_1"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(testPaymentsConfig(srv.URL), DefaultBreakerSettings())
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{
		UserID:  42,
		Email:   "ada@example.com",
		Package: largePackage(t),
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_test_1" || session.URL == "" {
		t.Errorf("session = %+v", session)
	}
	if client.Currency() != "usd" {
		t.Errorf("Currency = %s", client.Currency())
	}
}

func TestStripeClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price"}}`))
	}))
	defer srv.Close()

	settings := DefaultBreakerSettings()
	settings.MinRequests = 2
	client := NewStripeClient(testPaymentsConfig(srv.URL), settings)

	for i := 0; i < 5; i++ {
		_, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: 1, Package: largePackage(t)})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("call %d: err = %v, want APIError", i, err)
		}
		if apiErr.Status != http.StatusBadRequest || apiErr.Message != "No such price" {
			t.Errorf("apiErr = %+v", apiErr)
		}
	}
	if calls.Load() != 5 {
		t.Errorf("server saw %d calls, want 5", calls.Load())
	}
}

func TestStripeClient_ServerErrorsOpenBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	settings := DefaultBreakerSettings()
	settings.MinRequests = 2
	settings.Timeout = time.Hour
	client := NewStripeClient(testPaymentsConfig(srv.URL), settings)

	for i := 0; i < 2; i++ {
		if _, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: 1, Package: largePackage(t)}); err == nil {
			t.Fatal("expected error from 502")
		}
	}

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: 1, Package: largePackage(t)})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 2 {
		t.Errorf("open breaker should not reach the server, saw %d calls", calls.Load())
	}
}

func TestStripeClient_RateLimiterHonoursContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.stripe.test/cs_1"}`))
	}))
	defer srv.Close()

	cfg := testPaymentsConfig(srv.URL)
	cfg.RequestsPerSecond = 0.01
	client := NewStripeClient(cfg, DefaultBreakerSettings())

	if _, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: 1, Package: largePackage(t)}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.CreateCheckoutSession(ctx, CheckoutRequest{UserID: 1, Package: largePackage(t)}); err == nil {
		t.Error("second call should wait on the limiter and fail with the context")
	}
}
