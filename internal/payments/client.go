// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

const (
	defaultAPIBaseURL = "https://api.stripe.com"
	breakerName       = "stripe-api"

	// maxErrorBodySize bounds how much of an error response is read.
	maxErrorBodySize = 64 * 1024
)

// CheckoutRequest describes the session to create.
type CheckoutRequest struct {
	UserID  int64
	Email   string
	Package models.CoinPackage
}

// CheckoutSession is the subset of a Stripe Checkout Session we use.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	ClientRefID   string            `json:"client_reference_id"`
	Metadata      map[string]string `json:"metadata"`
}

// StripeClient calls the Stripe REST API.
type StripeClient struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	currency   string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*CheckoutSession]
}

// NewStripeClient builds a client from cfg.
func NewStripeClient(cfg *config.PaymentsConfig, breaker BreakerSettings) *StripeClient {
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}

	return &StripeClient{
		baseURL:    base,
		secretKey:  cfg.StripeSecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		currency:   currency,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    newBreaker(breakerName, breaker),
	}
}

// Currency returns the lower-case ISO currency used for sessions.
func (c *StripeClient) Currency() string {
	return c.currency
}

// CreateCheckoutSession creates a one-off payment session for req.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("stripe rate limiter: %w", err)
	}

	form := c.checkoutForm(req)
	session, err := c.breaker.Execute(func() (*CheckoutSession, error) {
		return c.post(ctx, "/v1/checkout/sessions", form)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return nil, ErrUnavailable
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return session, nil
}

func (c *StripeClient) checkoutForm(req CheckoutRequest) url.Values {
	userID := strconv.FormatInt(req.UserID, 10)
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("client_reference_id", userID)
	if req.Email != "" {
		form.Set("customer_email", req.Email)
	}
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.Package.PriceCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Package.Name)
	form.Set("metadata[user_id]", userID)
	form.Set("metadata[package_id]", req.Package.ID)
	form.Set("metadata[coins]", strconv.FormatInt(req.Package.Coins, 10))
	return form
}

func (c *StripeClient) post(ctx context.Context, path string, form url.Values) (*CheckoutSession, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build stripe request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("stripe response missing session id or url")
	}
	return &session, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
