// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
	"github.com/tomtom215/skillswap/internal/payments"
)

// maxWebhookBytes bounds a Stripe webhook body.
const maxWebhookBytes = 64 << 10

// CheckoutBody is the body of POST /payments/checkout.
type CheckoutBody struct {
	PackageID string `json:"package_id" validate:"required,max=32"`
}

// CheckoutResponse carries the hosted checkout page the client redirects to.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// ListPackages returns the purchasable coin packages.
//
// @Summary List coin packages
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.CoinPackage}
// @Router /payments/packages [get]
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		respondList(w, r, models.CoinPackages)
		return
	}
	respondList(w, r, h.payments.Packages())
}

// CreateCheckout starts a Stripe checkout for a coin package. Coins are
// credited when the webhook confirms payment, never here.
//
// @Summary Start a coin purchase
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutBody true "Package"
// @Success 201 {object} models.APIResponse{data=CheckoutResponse}
// @Failure 400 {object} models.APIResponse "Unknown package"
// @Failure 503 {object} models.APIResponse "Payments disabled or provider unavailable"
// @Router /payments/checkout [post]
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.payments == nil || !h.payments.Enabled() {
		respondServiceError(w, r, "checkout", ErrPaymentsDisabled)
		return
	}
	var body CheckoutBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	session, err := h.payments.Checkout(r.Context(), hctx.UserID, hctx.Email, body.PackageID)
	if err != nil {
		respondServiceError(w, r, "checkout", err)
		return
	}
	respondData(w, r, http.StatusCreated, CheckoutResponse{SessionID: session.ID, URL: session.URL})
}

// ListPurchases returns the caller's credited purchases.
//
// @Summary List my coin purchases
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Purchase}
// @Router /payments/purchases [get]
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	purchases, err := h.db.ListPurchases(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list purchases", err)
		return
	}
	respondList(w, r, purchases)
}

// StripeWebhook receives Stripe events. It is unauthenticated; the
// Stripe-Signature header is verified against the webhook secret. A paid
// checkout.session.completed credits coins once per session.
//
// @Summary Stripe webhook
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Acknowledged"
// @Failure 400 {object} models.APIResponse "Invalid signature or payload"
// @Failure 500 {object} models.APIResponse "Crediting failed, Stripe will retry"
// @Router /payments/webhook [post]
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		respondServiceError(w, r, "stripe webhook", ErrPaymentsDisabled)
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Webhook body too large", nil)
		return
	}

	result, err := h.payments.HandleWebhook(r.Context(), payload, r.Header.Get(payments.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrDisabled):
			respondServiceError(w, r, "stripe webhook", ErrPaymentsDisabled)
		case result != nil && result.Outcome == payments.OutcomeError:
			logging.Ctx(r.Context()).Error().Err(err).Msg("crediting purchase failed")
			respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to credit purchase", nil)
		default:
			logging.Ctx(r.Context()).Warn().Err(err).Msg("rejected stripe webhook")
			respondError(w, http.StatusBadRequest, "INVALID_WEBHOOK", "Invalid webhook", nil)
		}
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"outcome": result.Outcome})
}
