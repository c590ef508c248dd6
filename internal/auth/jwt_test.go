// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/skillswap/internal/config"
)

// testSecurityConfig returns a standard test security config for JWT
func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:      "test-secret-key-that-is-at-least-32-characters-long",
		SessionTimeout: time.Hour,
	}
}

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("NewJWTManager() expected error for empty secret")
	}

	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "this_is_a_very_long_secret_key_with_32_plus_characters"})
	if err != nil {
		t.Fatalf("NewJWTManager() unexpected error = %v", err)
	}
	if m.Timeout() != 24*time.Hour {
		t.Errorf("default timeout = %v, want 24h", m.Timeout())
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tests := []struct {
		name   string
		userID int64
		email  string
		role   string
	}{
		{"user", 1, "rana@example.com", "user"},
		{"admin", 42, "admin@example.com", "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := m.GenerateToken(tt.userID, tt.email, tt.role)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			claims, err := m.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != tt.userID || claims.Email != tt.email || claims.Role != tt.role {
				t.Errorf("claims = %+v", claims)
			}
			if claims.Subject == "" || claims.Issuer != issuer {
				t.Errorf("registered claims = %+v", claims.RegisteredClaims)
			}
			if claims.IsAdmin() != (tt.role == "admin") {
				t.Errorf("IsAdmin() = %v", claims.IsAdmin())
			}
		})
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	expired := newTestManager(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken(1, "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "a-completely-different-secret-of-enough-length"})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	foreignToken, err := other.GenerateToken(1, "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	zeroUser, err := m.GenerateToken(0, "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"alg none", noneToken},
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"no user id", zeroUser},
	}
	for _, tt := range tests {
		if _, err := m.ValidateToken(tt.token); err == nil {
			t.Errorf("%s: ValidateToken() expected error", tt.name)
		}
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Errorf("hash = %q, want bcrypt cost 4", hash)
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword(wrong) = %v, want ErrInvalidCredentials", err)
	}

	if _, err := HashPassword("short", 4); err != ErrWeakPassword {
		t.Errorf("HashPassword(short) = %v, want ErrWeakPassword", err)
	}
	if _, err := HashPassword(strings.Repeat("x", 73), 4); err == nil {
		t.Error("HashPassword() expected error above 72 bytes")
	}
}
