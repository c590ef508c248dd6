// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/logging"
)

// SendCodeRequest starts a password reset.
type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendCodeResponse identifies the reset session. Code is only filled in
// when reset.expose_code is enabled for development.
type SendCodeResponse struct {
	SessionID        string `json:"session_id"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	Code             string `json:"code,omitempty"`
}

// VerifyCodeRequest checks a reset code.
type VerifyCodeRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest sets the new password on a verified session.
type ResetPasswordRequest struct {
	SessionID   string `json:"session_id" validate:"required,uuid"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// SendResetCode issues a 6-digit code for a registered email.
//
// @Summary Request a password reset code
// @Description Issues a 6-digit code valid for 15 minutes and returns the reset session ID.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SendCodeRequest true "Account email"
// @Success 200 {object} models.APIResponse{data=SendCodeResponse}
// @Failure 404 {object} models.APIResponse "No account with this email"
// @Router /auth/password/send-code [post]
func (h *Handler) SendResetCode(w http.ResponseWriter, r *http.Request) {
	if h.reset == nil {
		respondServiceError(w, r, "send reset code", ErrResetDisabled)
		return
	}
	var req SendCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	challenge, err := h.reset.SendCode(r.Context(), req.Email)
	if err != nil {
		logging.Audit(r.Context(), logging.AuditEvent{
			Action: "password_reset_requested",
			Email:  req.Email,
			IP:     r.RemoteAddr,
			Reason: err.Error(),
		})
		respondServiceError(w, r, "send reset code", err)
		return
	}

	resp := SendCodeResponse{
		SessionID:        challenge.SessionID,
		ExpiresInSeconds: int(challenge.ExpiresIn.Seconds()),
	}
	if h.config.Reset.ExposeCode {
		resp.Code = challenge.Code
	}
	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  "password_reset_requested",
		Email:   req.Email,
		IP:      r.RemoteAddr,
		Success: true,
	})
	respondData(w, r, http.StatusOK, resp)
}

// VerifyResetCode checks a code. Three wrong codes destroy the session.
//
// @Summary Verify a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Session, email and code"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid or expired code"
// @Router /auth/password/verify-code [post]
func (h *Handler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	if h.reset == nil {
		respondServiceError(w, r, "verify reset code", ErrResetDisabled)
		return
	}
	var req VerifyCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.reset.VerifyCode(r.Context(), req.SessionID, req.Email, req.Code); err != nil {
		respondServiceError(w, r, "verify reset code", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Code verified"})
}

// ResetPassword sets a new password on a verified session.
//
// @Summary Reset the password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Verified session and new password"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Session not verified, expired or email mismatch"
// @Router /auth/password/reset [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if h.reset == nil {
		respondServiceError(w, r, "reset password", ErrResetDisabled)
		return
	}
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.reset.ResetPassword(r.Context(), req.SessionID, req.Email, req.NewPassword)
	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  "password_reset",
		Email:   req.Email,
		IP:      r.RemoteAddr,
		Success: err == nil,
	})
	if err != nil {
		respondServiceError(w, r, "reset password", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Password updated"})
}
