// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

// Webhook outcomes, also used as the metric label.
const (
	OutcomeCredited         = "credited"
	OutcomeDuplicate        = "duplicate"
	OutcomeIgnored          = "ignored"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeInvalidPayload   = "invalid_payload"
	OutcomeError            = "error"
)

// CheckoutCreator creates Stripe Checkout Sessions.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// Purchases credits paid checkouts. CreditPurchase returns false when the
// session was already credited.
type Purchases interface {
	CreditPurchase(ctx context.Context, p *models.Purchase) (bool, error)
}

// WebhookResult reports what a webhook delivery did.
type WebhookResult struct {
	Outcome  string
	Purchase *models.Purchase
}

// Service implements checkout and webhook handling.
type Service struct {
	checkout      CheckoutCreator
	purchases     Purchases
	webhookSecret string
	tolerance     time.Duration
	currency      string
	enabled       bool
	now           func() time.Time
}

// NewService wires a payment service. checkout may be nil when payments
// are disabled.
func NewService(cfg *config.PaymentsConfig, checkout CheckoutCreator, purchases Purchases) *Service {
	tolerance := cfg.WebhookTolerance
	if tolerance == 0 {
		tolerance = 5 * time.Minute
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		checkout:      checkout,
		purchases:     purchases,
		webhookSecret: cfg.WebhookSecret,
		tolerance:     tolerance,
		currency:      currency,
		enabled:       cfg.Enabled && checkout != nil,
		now:           time.Now,
	}
}

// Enabled reports whether checkout is available.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Packages returns the purchasable coin packages.
func (s *Service) Packages() []models.CoinPackage {
	out := make([]models.CoinPackage, len(models.CoinPackages))
	copy(out, models.CoinPackages)
	return out
}

// Checkout starts a Stripe Checkout for packageID on behalf of userID.
func (s *Service) Checkout(ctx context.Context, userID int64, email, packageID string) (*CheckoutSession, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	pkg, ok := models.FindCoinPackage(packageID)
	if !ok {
		metrics.PaymentCheckouts.WithLabelValues("unknown", "rejected").Inc()
		return nil, ErrUnknownPackage
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, CheckoutRequest{
		UserID:  userID,
		Email:   email,
		Package: pkg,
	})
	if err != nil {
		metrics.PaymentCheckouts.WithLabelValues(pkg.ID, "error").Inc()
		return nil, err
	}
	metrics.PaymentCheckouts.WithLabelValues(pkg.ID, "created").Inc()

	logging.Ctx(ctx).Info().
		Str("session_id", session.ID).
		Str("package_id", pkg.ID).
		Msg("checkout session created")
	return session, nil
}

// HandleWebhook verifies and applies one Stripe webhook delivery. A nil
// error means the delivery should be acknowledged with 2xx.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	result, err := s.handleWebhook(ctx, payload, signature)
	metrics.PaymentWebhooks.WithLabelValues(result.Outcome).Inc()
	return result, err
}

func (s *Service) handleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if s.webhookSecret == "" {
		return &WebhookResult{Outcome: OutcomeInvalidSignature}, ErrDisabled
	}
	if err := VerifySignature(payload, signature, s.webhookSecret, s.tolerance, s.now()); err != nil {
		return &WebhookResult{Outcome: OutcomeInvalidSignature}, err
	}

	ev, err := ParseWebhookEvent(payload)
	if err != nil {
		return &WebhookResult{Outcome: OutcomeInvalidPayload}, err
	}
	if ev.Type != EventCheckoutCompleted {
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}

	session := ev.Data.Object
	if session.PaymentStatus != "paid" {
		logging.Ctx(ctx).Info().
			Str("session_id", session.ID).
			Str("payment_status", session.PaymentStatus).
			Msg("checkout completed without payment, not crediting")
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}

	purchase, err := s.purchaseFromSession(&session)
	if err != nil {
		return &WebhookResult{Outcome: OutcomeInvalidPayload}, err
	}

	credited, err := s.purchases.CreditPurchase(ctx, purchase)
	if err != nil {
		return &WebhookResult{Outcome: OutcomeError, Purchase: purchase}, err
	}
	if !credited {
		logging.Ctx(ctx).Info().Str("session_id", purchase.SessionID).Msg("duplicate checkout webhook acknowledged")
		return &WebhookResult{Outcome: OutcomeDuplicate, Purchase: purchase}, nil
	}

	logging.Ctx(ctx).Info().
		Str("session_id", purchase.SessionID).
		Int64("user_id", purchase.UserID).
		Int64("coins", purchase.Coins).
		Msg("coin purchase credited")
	return &WebhookResult{Outcome: OutcomeCredited, Purchase: purchase}, nil
}

// purchaseFromSession takes the coin amount from the package catalog, not
// from metadata, so a tampered session cannot mint arbitrary coins.
func (s *Service) purchaseFromSession(session *CheckoutSession) (*models.Purchase, error) {
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session has no id")
	}
	rawUser := session.Metadata["user_id"]
	if rawUser == "" {
		rawUser = session.ClientRefID
	}
	userID, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("checkout session %s has no valid user_id", session.ID)
	}
	pkg, ok := models.FindCoinPackage(session.Metadata["package_id"])
	if !ok {
		return nil, fmt.Errorf("checkout session %s: %w", session.ID, ErrUnknownPackage)
	}

	currency := strings.ToLower(session.Currency)
	if currency == "" {
		currency = s.currency
	}
	amount := session.AmountTotal
	if amount == 0 {
		amount = pkg.PriceCents
	}
	return &models.Purchase{
		SessionID:   session.ID,
		UserID:      userID,
		PackageID:   pkg.ID,
		Coins:       pkg.Coins,
		AmountCents: amount,
		Currency:    currency,
	}, nil
}
