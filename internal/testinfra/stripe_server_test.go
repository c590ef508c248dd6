// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

//go:build integration

package testinfra_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/models"
	"github.com/tomtom215/skillswap/internal/payments"
	"github.com/tomtom215/skillswap/internal/testinfra"
)

func stripeClient(t *testing.T, mock *testinfra.MockStripeServer) *payments.StripeClient {
	t.Helper()
	return payments.NewStripeClient(&config.PaymentsConfig{
		Enabled:         true,
		StripeSecretKey: "sk_test_integration",
		WebhookSecret:   "whsec_integration",
		APIBaseURL:      mock.URL(),
		SuccessURL:      "https://skillswap.test/coins?success=1",
		CancelURL:       "https://skillswap.test/coins?canceled=1",
		Currency:        "usd",
		Timeout:         2 * time.Second,
	}, payments.DefaultBreakerSettings())
}

func TestMockStripe_CheckoutSession(t *testing.T) {
	t.Parallel()

	mock := testinfra.NewMockStripeServer(t)
	client := stripeClient(t, mock)

	pkg, ok := models.FindCoinPackage("medium")
	if !ok {
		t.Fatal("medium package missing")
	}
	session, err := client.CreateCheckoutSession(context.Background(), payments.CheckoutRequest{
		UserID:  12,
		Email:   "lin@example.com",
		Package: pkg,
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_test_0001" {
		t.Errorf("ID = %s", session.ID)
	}
	if session.AmountTotal != pkg.PriceCents {
		t.Errorf("AmountTotal = %d, want %d", session.AmountTotal, pkg.PriceCents)
	}
	if session.Metadata["package_id"] != "medium" || session.ClientRefID != "12" {
		t.Errorf("session = %+v", session)
	}

	captures := mock.Captures()
	if len(captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(captures))
	}
	if captures[0].Authorization != "Bearer sk_test_integration" {
		t.Errorf("Authorization = %q", captures[0].Authorization)
	}
}

func TestMockStripe_ErrorsSurfaceAsAPIError(t *testing.T) {
	t.Parallel()

	mock := testinfra.NewMockStripeServer(t)
	mock.FailNext(http.StatusPaymentRequired)
	client := stripeClient(t, mock)

	pkg, _ := models.FindCoinPackage("small")
	_, err := client.CreateCheckoutSession(context.Background(), payments.CheckoutRequest{UserID: 1, Package: pkg})

	var apiErr *payments.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *payments.APIError", err)
	}
	if apiErr.Status != http.StatusPaymentRequired || apiErr.Type != "api_error" {
		t.Errorf("apiErr = %+v", apiErr)
	}

	if _, err := client.CreateCheckoutSession(context.Background(), payments.CheckoutRequest{UserID: 1, Package: pkg}); err != nil {
		t.Errorf("second call: %v", err)
	}
}
