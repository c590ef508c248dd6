// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"rate limit too high", func(c *Config) { c.Server.RateLimitReqs = 1_000_000 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}, ""},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"production with explicit origins", func(c *Config) {
			c.Server.Environment = "production"
			c.Server.CORSOrigins = []string{"https://skillswap.app"}
		}, ""},
		{"empty db path", func(c *Config) { c.Database.Path = " " }, "DUCKDB_PATH"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "abc" }, "JWT_SECRET"},
		{"bcrypt cost", func(c *Config) { c.Security.BcryptCost = 99 }, "BCRYPT_COST"},
		{"negative signup bonus", func(c *Config) { c.Economy.SignupBonus = -1 }, "SIGNUP_BONUS"},
		{"zero retries", func(c *Config) { c.Economy.RetryAttempts = 0 }, "LEDGER_RETRY_ATTEMPTS"},
		{"payments without key", func(c *Config) { c.Payments.Enabled = true }, "STRIPE_SECRET_KEY"},
		{"payments without webhook secret", func(c *Config) {
			c.Payments.Enabled = true
			c.Payments.StripeSecretKey = "sk_test_123"
		}, "STRIPE_WEBHOOK_SECRET"},
		{"payments ok", func(c *Config) {
			c.Payments.Enabled = true
			c.Payments.StripeSecretKey = "sk_test_123"
			c.Payments.WebhookSecret = "whsec_123"
		}, ""},
		{"bad nats url", func(c *Config) { c.Messaging.NATSURL = "http://localhost:4222" }, "NATS_URL"},
		{"nats url ok", func(c *Config) { c.Messaging.NATSURL = "nats://localhost:4222" }, ""},
		{"short reset ttl", func(c *Config) { c.Reset.CodeTTL = time.Second }, "RESET_CODE_TTL"},
		{"expose code in production", func(c *Config) {
			c.Server.Environment = "prod"
			c.Server.CORSOrigins = []string{"https://skillswap.app"}
			c.Reset.ExposeCode = true
		}, "RESET_EXPOSE_CODE"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard default should warn")
	}
	cfg.Server.CORSOrigins = []string{"https://skillswap.app"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}
