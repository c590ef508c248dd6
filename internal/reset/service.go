// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package reset

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
	"github.com/tomtom215/skillswap/internal/models"
)

// Errors returned by the flow. Their messages are shown to users as-is.
var (
	ErrUnknownAccount  = errors.New("No account found with this email")
	ErrSessionNotFound = errors.New("Verification session expired. Request new code.")
	ErrExpired         = errors.New("Verification code expired. Request new code.")
	ErrEmailMismatch   = errors.New("Email mismatch. Use the same address as the code request.")
	ErrTooManyAttempts = errors.New("Too many failed attempts. Session terminated.")
	ErrNotVerified     = errors.New("Verification required. Complete code verification first.")
)

// InvalidCodeError is a wrong code that still leaves attempts.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("Invalid verification code. Attempts left: %d", e.Remaining)
}

// Store persists reset sessions.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Accounts is the slice of the user store the flow needs.
type Accounts interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}

// Challenge is returned by SendCode.
type Challenge struct {
	SessionID string
	Code      string
	ExpiresIn time.Duration
}

// Service runs the reset flow.
type Service struct {
	store       Store
	accounts    Accounts
	ttl         time.Duration
	maxAttempts int
	bcryptCost  int
	now         func() time.Time
}

// NewService creates a reset service.
func NewService(store Store, accounts Accounts, cfg *config.ResetConfig, bcryptCost int) *Service {
	ttl := cfg.CodeTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Service{
		store:       store,
		accounts:    accounts,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		bcryptCost:  bcryptCost,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendCode starts a reset for the account registered with email.
func (s *Service) SendCode(ctx context.Context, email string) (*Challenge, error) {
	email = normalizeEmail(email)
	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.RecordAuthAttempt("reset_send_code", false)
		return nil, ErrUnknownAccount
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store reset session: %w", err)
	}

	metrics.RecordAuthAttempt("reset_send_code", true)
	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("password reset code issued")
	return &Challenge{SessionID: session.ID, Code: code, ExpiresIn: s.ttl}, nil
}

// load fetches a live session for email.
func (s *Service) load(ctx context.Context, sessionID, email string) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(s.now()) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, ErrExpired
	}
	if session.Email != normalizeEmail(email) {
		return nil, ErrEmailMismatch
	}
	return session, nil
}

// VerifyCode checks code against the session. A wrong code uses up one
// attempt; the last allowed failure destroys the session.
func (s *Service) VerifyCode(ctx context.Context, sessionID, email, code string) error {
	session, err := s.load(ctx, sessionID, email)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(session.Code), []byte(strings.TrimSpace(code))) != 1 {
		session.Attempts++
		metrics.RecordAuthAttempt("reset_verify_code", false)
		if session.Attempts >= s.maxAttempts {
			if err := s.store.Delete(ctx, sessionID); err != nil {
				return err
			}
			logging.Ctx(ctx).Warn().Int64("user_id", session.UserID).Msg("password reset session terminated after failed attempts")
			return ErrTooManyAttempts
		}
		if err := s.store.Put(ctx, session); err != nil {
			return err
		}
		return &InvalidCodeError{Remaining: s.maxAttempts - session.Attempts}
	}

	session.Verified = true
	session.Attempts = 0
	metrics.RecordAuthAttempt("reset_verify_code", true)
	return s.store.Put(ctx, session)
}

// ResetPassword sets a new password on a verified session and consumes it.
func (s *Service) ResetPassword(ctx context.Context, sessionID, email, newPassword string) error {
	if len(newPassword) < auth.MinPasswordLength {
		return auth.ErrWeakPassword
	}

	session, err := s.load(ctx, sessionID, email)
	if errors.Is(err, ErrEmailMismatch) {
		_ = s.store.Delete(ctx, sessionID)
		return err
	}
	if err != nil {
		return err
	}
	if !session.Verified {
		return ErrNotVerified
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.accounts.SetPasswordHash(ctx, session.UserID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to delete consumed reset session")
	}

	metrics.RecordAuthAttempt("reset_password", true)
	logging.Ctx(ctx).Info().Int64("user_id", session.UserID).Msg("password reset completed")
	return nil
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
