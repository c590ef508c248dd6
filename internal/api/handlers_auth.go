// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
	"github.com/tomtom215/skillswap/internal/validation"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"required,lbphone"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Role      string       `json:"role"`
	User      *models.User `json:"user"`
}

// UpdateProfileRequest is the body of PUT /me. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" validate:"omitempty,lbphone"`
	Bio   *string `json:"bio" validate:"omitempty,max=1000"`
}

// Register creates an account and credits the signup bonus.
//
// @Summary Register a new account
// @Description Creates a user. The phone must be a Lebanese number; it is stored without the country code. The account starts with the configured signup bonus, minted through the ledger.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} models.APIResponse "Validation error"
// @Failure 409 {object} models.APIResponse "Email or username already registered"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	phone, ok := validation.NormalizeLebanesePhone(req.Phone)
	if !ok {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid Lebanese phone number", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		respondServiceError(w, r, "hash password", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), models.NewUser{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        phone,
	}, h.config.Economy.SignupBonus)
	if err != nil {
		metrics.RecordAuthAttempt("register", false)
		respondServiceError(w, r, "create user", err)
		return
	}

	metrics.RecordAuthAttempt("register", true)
	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  "register",
		UserID:  user.ID,
		Email:   user.Email,
		IP:      r.RemoteAddr,
		Success: true,
	})
	respondData(w, r, http.StatusCreated, user)
}

// Login verifies credentials and issues a JWT.
//
// @Summary Log in
// @Description Verifies email and password. The token is returned in the body and set as an HTTP-only cookie. Accounts listed in security.admin_emails receive the admin role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=LoginResponse}
// @Failure 401 {object} models.APIResponse "Invalid email or password"
// @Failure 429 {object} models.APIResponse "Too many attempts"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondServiceError(w, r, "login lookup", err)
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		metrics.RecordAuthAttempt("login", false)
		logging.Audit(r.Context(), logging.AuditEvent{
			Action: "login",
			Email:  req.Email,
			IP:     r.RemoteAddr,
			Reason: "invalid credentials",
		})
		respondServiceError(w, r, "login", auth.ErrInvalidCredentials)
		return
	}

	role := models.RoleUser
	if h.config.IsAdminEmail(user.Email) {
		role = models.RoleAdmin
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		respondServiceError(w, r, "generate token", err)
		return
	}
	auth.SetTokenCookie(w, token, h.jwtManager.Timeout(), h.config.Security.CookieSecure)

	metrics.RecordAuthAttempt("login", true)
	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  "login",
		UserID:  user.ID,
		Email:   user.Email,
		IP:      r.RemoteAddr,
		Success: true,
		Details: map[string]string{"role": role},
	})

	respondData(w, r, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtManager.Timeout()),
		Role:      role,
		User:      user,
	})
}

// Logout clears the session cookie.
//
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.config.Security.CookieSecure)
	respondData(w, r, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the caller's account including the coin balance.
//
// @Summary Get my account
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User}
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.db.GetUserByID(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "get me", err)
		return
	}
	respondData(w, r, http.StatusOK, user)
}

// UpdateMe changes name, phone or bio.
//
// @Summary Update my profile
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} models.APIResponse "Validation error"
// @Router /me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	upd := models.ProfileUpdate{Name: req.Name, Bio: req.Bio}
	if req.Phone != nil {
		phone, ok := validation.NormalizeLebanesePhone(*req.Phone)
		if !ok {
			respondError(w, http.StatusBadRequest, CodeValidation, "Invalid Lebanese phone number", nil)
			return
		}
		upd.Phone = &phone
	}

	user, err := h.db.UpdateProfile(r.Context(), hctx.UserID, upd)
	if err != nil {
		respondServiceError(w, r, "update profile", err)
		return
	}
	respondData(w, r, http.StatusOK, user)
}

// DeleteMe closes the caller's account. The remaining balance is burned
// through the ledger; ledger rows stay for audit.
//
// @Summary Delete my account
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /me [delete]
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	burned, err := h.db.DeleteUser(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "delete user", err)
		return
	}

	auth.ClearTokenCookie(w, h.config.Security.CookieSecure)
	logging.Audit(r.Context(), logging.AuditEvent{
		Action:  "account_closed",
		UserID:  hctx.UserID,
		Email:   hctx.Email,
		IP:      r.RemoteAddr,
		Success: true,
	})
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"message":      "Account deleted",
		"coins_burned": burned,
	})
}
