// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

//go:build integration

package testinfra

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// CheckoutCapture is a checkout session creation request seen by the mock.
type CheckoutCapture struct {
	Authorization string
	Form          url.Values
}

// MockStripeServer serves the subset of the Stripe API the payments client
// calls. Point PaymentsConfig.APIBaseURL at URL().
type MockStripeServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []CheckoutCapture
	failures []int
	seq      int
}

// NewMockStripeServer starts the mock and registers its shutdown with t.
func NewMockStripeServer(t *testing.T) *MockStripeServer {
	t.Helper()

	m := &MockStripeServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serveHTTP))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the server URL.
func (m *MockStripeServer) URL() string {
	return m.Server.URL
}

// FailNext makes the next len(statuses) requests fail with the given codes.
func (m *MockStripeServer) FailNext(statuses ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, statuses...)
}

// Captures returns the checkout requests received so far.
func (m *MockStripeServer) Captures() []CheckoutCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CheckoutCapture, len(m.captures))
	copy(out, m.captures)
	return out
}

func (m *MockStripeServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
		writeStripeError(w, http.StatusNotFound, "invalid_request_error", "Unrecognized request URL")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeStripeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
		return
	}

	m.mu.Lock()
	m.captures = append(m.captures, CheckoutCapture{
		Authorization: r.Header.Get("Authorization"),
		Form:          r.PostForm,
	})
	var status int
	if len(m.failures) > 0 {
		status, m.failures = m.failures[0], m.failures[1:]
	}
	m.seq++
	id := fmt.Sprintf("cs_test_%04d", m.seq)
	m.mu.Unlock()

	if status != 0 {
		writeStripeError(w, status, "api_error", http.StatusText(status))
		return
	}

	amount, _ := strconv.ParseInt(r.PostForm.Get("line_items[0][price_data][unit_amount]"), 10, 64)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":                  id,
		"object":              "checkout.session",
		"url":                 "https://checkout.stripe.test/pay/" + id,
		"payment_status":      "unpaid",
		"amount_total":        amount,
		"currency":            r.PostForm.Get("line_items[0][price_data][currency]"),
		"client_reference_id": r.PostForm.Get("client_reference_id"),
		"metadata": map[string]string{
			"user_id":    r.PostForm.Get("metadata[user_id]"),
			"package_id": r.PostForm.Get("metadata[package_id]"),
			"coins":      r.PostForm.Get("metadata[coins]"),
		},
	})
}

func writeStripeError(w http.ResponseWriter, status int, typ, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"type": typ, "message": msg},
	})
}
