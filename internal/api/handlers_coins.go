// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

// IdempotencyKeyHeader lets clients retry coin operations safely.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// transferListLimit is the number of transfers GET /transfers returns.
const transferListLimit = 50

// BalanceResponse is the caller's current balance.
type BalanceResponse struct {
	UserID int64 `json:"user_id"`
	Coins  int64 `json:"coins"`
}

// TransferRequest is the body of POST /transfers.
type TransferRequest struct {
	ReceiverEmail   string `json:"receiver_email" validate:"required,email"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	SkillID         int64  `json:"skill_id" validate:"omitempty,gt=0"`
	TransactionType string `json:"transaction_type" validate:"omitempty,max=50"`
	Memo            string `json:"memo" validate:"omitempty,max=500"`
}

// TransferResponse describes a posted (or replayed) transfer.
type TransferResponse struct {
	EntryID  string                `json:"entry_id"`
	Amount   int64                 `json:"amount"`
	Receiver *models.PublicProfile `json:"receiver,omitempty"`
	Balance  int64                 `json:"balance"`
	Replayed bool                  `json:"replayed,omitempty"`
}

// AdminCoinsRequest is the body of the admin grant and deduct endpoints.
type AdminCoinsRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Memo   string `json:"memo" validate:"omitempty,max=500"`
}

// AdminCoinsResponse reports the entry and the user's new balance.
type AdminCoinsResponse struct {
	EntryID  string `json:"entry_id"`
	UserID   int64  `json:"user_id"`
	Amount   int64  `json:"amount"`
	Balance  int64  `json:"balance"`
	Replayed bool   `json:"replayed,omitempty"`
}

// idempotencyKey scopes a client-supplied Idempotency-Key to the operation
// and the caller. ok is false when the header is malformed.
func idempotencyKey(r *http.Request, op string, userID int64) (key string, ok bool) {
	raw := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if raw == "" {
		return "", true
	}
	if len(raw) > maxIdempotencyKeyLength {
		return "", false
	}
	return fmt.Sprintf("%s:%d:%s", op, userID, raw), true
}

// Balance returns the caller's coins.
//
// @Summary Get my coin balance
// @Tags Coins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=BalanceResponse}
// @Router /coins/balance [get]
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	coins, err := h.db.Ledger().Balance(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "balance", err)
		return
	}
	respondData(w, r, http.StatusOK, BalanceResponse{UserID: hctx.UserID, Coins: coins})
}

// CoinHistory returns the caller's ledger legs, newest first.
//
// @Summary Get my coin history
// @Tags Coins
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows (default economy.history_limit)"
// @Success 200 {object} models.APIResponse{data=[]models.CoinTransaction}
// @Router /coins/history [get]
func (h *Handler) CoinHistory(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	def := h.config.Economy.HistoryLimit
	limit := clamp(getIntParam(r, "limit", def), def, 500)

	history, err := h.db.Ledger().History(r.Context(), hctx.UserID, limit)
	if err != nil {
		respondServiceError(w, r, "coin history", err)
		return
	}
	respondList(w, r, history)
}

// CreateTransfer moves coins from the caller to another member.
//
// @Summary Transfer coins
// @Description Moves coins to the account registered with receiver_email. Send an Idempotency-Key header to make retries safe; a replay returns the original entry.
// @Tags Coins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body TransferRequest true "Transfer"
// @Success 201 {object} models.APIResponse{data=TransferResponse}
// @Success 200 {object} models.APIResponse{data=TransferResponse} "Replayed"
// @Failure 400 {object} models.APIResponse "Insufficient coins or validation error"
// @Failure 404 {object} models.APIResponse "Receiver not found"
// @Router /transfers [post]
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if limit := h.config.Economy.MaxTransfer; limit > 0 && req.Amount > limit {
		respondError(w, http.StatusBadRequest, CodeValidation,
			fmt.Sprintf("Amount exceeds the transfer limit of %d coins", limit), nil)
		return
	}
	key, ok := idempotencyKey(r, "transfer", hctx.UserID)
	if !ok {
		respondError(w, http.StatusBadRequest, CodeValidation, "Idempotency-Key is too long", nil)
		return
	}

	posted, receiver, err := h.db.TransferCoins(r.Context(), database.TransferRequest{
		SenderID:        hctx.UserID,
		ReceiverEmail:   req.ReceiverEmail,
		Amount:          req.Amount,
		SkillID:         req.SkillID,
		TransactionType: req.TransactionType,
		Memo:            req.Memo,
		IdempotencyKey:  key,
	})
	if errors.Is(err, ledger.ErrDuplicateEntry) {
		h.replayTransfer(w, r, hctx.UserID, key)
		return
	}
	if err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}

	balance, err := h.db.Ledger().Balance(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "balance after transfer", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("entry_id", posted.EntryID).
		Int64("receiver_id", receiver.ID).
		Int64("amount", posted.Amount).
		Msg("coins transferred")

	profile := receiver.Public()
	respondData(w, r, http.StatusCreated, TransferResponse{
		EntryID:  posted.EntryID,
		Amount:   posted.Amount,
		Receiver: &profile,
		Balance:  balance,
	})
}

func (h *Handler) replayTransfer(w http.ResponseWriter, r *http.Request, userID int64, key string) {
	entry, err := h.db.Ledger().EntryByKey(r.Context(), key)
	if err != nil || entry == nil {
		respondServiceError(w, r, "replay transfer", ledger.ErrDuplicateEntry)
		return
	}
	balance, err := h.db.Ledger().Balance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "balance after replay", err)
		return
	}
	resp := TransferResponse{EntryID: entry.EntryID, Amount: entry.Amount, Balance: balance, Replayed: true}
	if entry.ToUserID != nil {
		if u, err := h.db.GetUserByID(r.Context(), *entry.ToUserID); err == nil {
			profile := u.Public()
			resp.Receiver = &profile
		}
	}
	respondData(w, r, http.StatusOK, resp)
}

// ListTransfers returns the last transfers the caller sent or received.
//
// @Summary List my transfers
// @Tags Coins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.TransferRecord}
// @Router /transfers [get]
func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	transfers, err := h.db.Ledger().Transfers(r.Context(), hctx.UserID, transferListLimit)
	if err != nil {
		respondServiceError(w, r, "list transfers", err)
		return
	}
	respondList(w, r, transfers)
}

// AdminGrantCoins mints coins to a user.
//
// @Summary Grant coins (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body AdminCoinsRequest true "Grant"
// @Success 200 {object} models.APIResponse{data=AdminCoinsResponse}
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /admin/coins/grant [post]
func (h *Handler) AdminGrantCoins(w http.ResponseWriter, r *http.Request) {
	h.adminAdjust(w, r, models.ReasonAdminGrant)
}

// AdminDeductCoins burns coins from a user.
//
// @Summary Deduct coins (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body AdminCoinsRequest true "Deduction"
// @Success 200 {object} models.APIResponse{data=AdminCoinsResponse}
// @Failure 400 {object} models.APIResponse "Insufficient coins"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Router /admin/coins/deduct [post]
func (h *Handler) AdminDeductCoins(w http.ResponseWriter, r *http.Request) {
	h.adminAdjust(w, r, models.ReasonAdminDeduct)
}

func (h *Handler) adminAdjust(w http.ResponseWriter, r *http.Request, reason string) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req AdminCoinsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	key, ok := idempotencyKey(r, reason, hctx.UserID)
	if !ok {
		respondError(w, http.StatusBadRequest, CodeValidation, "Idempotency-Key is too long", nil)
		return
	}

	memo := req.Memo
	if memo == "" {
		memo = "admin " + hctx.Email
	}

	var (
		posted ledger.Posted
		err    error
	)
	l := h.db.Ledger()
	if reason == models.ReasonAdminGrant {
		posted, err = l.Mint(r.Context(), req.UserID, req.Amount, reason, memo, key)
	} else {
		posted, err = l.Burn(r.Context(), req.UserID, req.Amount, reason, memo, key)
	}

	resp := AdminCoinsResponse{UserID: req.UserID, Amount: req.Amount}
	switch {
	case errors.Is(err, ledger.ErrDuplicateEntry):
		entry, lookupErr := l.EntryByKey(r.Context(), key)
		if lookupErr != nil || entry == nil {
			respondServiceError(w, r, reason, err)
			return
		}
		resp.EntryID = entry.EntryID
		resp.Replayed = true
	case err != nil:
		logging.Audit(r.Context(), logging.AuditEvent{
			Action:  reason,
			UserID:  req.UserID,
			Reason:  err.Error(),
			Details: map[string]string{"admin_id": strconv.FormatInt(hctx.UserID, 10)},
		})
		respondServiceError(w, r, reason, err)
		return
	default:
		resp.EntryID = posted.EntryID
	}

	resp.Balance, err = l.Balance(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "balance after "+reason, err)
		return
	}

	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  reason,
		UserID:  req.UserID,
		Success: true,
		Details: map[string]string{
			"admin_id": strconv.FormatInt(hctx.UserID, 10),
			"amount":   strconv.FormatInt(req.Amount, 10),
			"entry_id": resp.EntryID,
		},
	})
	respondData(w, r, http.StatusOK, resp)
}

// AdminUserCoins returns a user's balance and recent ledger history.
//
// @Summary Inspect a user's coins (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse
// @Router /admin/users/{id}/coins [get]
func (h *Handler) AdminUserCoins(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.db.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "admin get user", err)
		return
	}
	history, err := h.db.Ledger().History(r.Context(), userID, h.config.Economy.HistoryLimit)
	if err != nil {
		respondServiceError(w, r, "admin coin history", err)
		return
	}
	if history == nil {
		history = []models.CoinTransaction{}
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"user":    user,
		"coins":   user.Coins,
		"history": history,
	})
}

// AdminVerifyLedger recomputes every balance from the ledger.
//
// @Summary Verify the coin ledger (admin)
// @Description Checks that every stored balance equals credits minus debits, that no balance is negative and that the supply equals minted minus burned coins.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.LedgerReport}
// @Failure 409 {object} models.APIResponse{data=models.LedgerReport} "Ledger inconsistent"
// @Router /admin/ledger/verify [get]
func (h *Handler) AdminVerifyLedger(w http.ResponseWriter, r *http.Request) {
	report, err := h.db.Ledger().Verify(r.Context())
	if err != nil {
		respondServiceError(w, r, "verify ledger", err)
		return
	}
	if !report.OK() {
		logging.Ctx(r.Context()).Error().
			Int("mismatches", len(report.Mismatches)).
			Int("negative", len(report.Negative)).
			Msg("ledger verification failed")
		respondJSON(w, http.StatusConflict, &models.APIResponse{
			Success:  false,
			Data:     report,
			Metadata: newMetadata(r),
			Error: &models.APIError{
				Code:    "LEDGER_INCONSISTENT",
				Message: "Ledger verification failed",
			},
		})
		return
	}
	respondData(w, r, http.StatusOK, report)
}
