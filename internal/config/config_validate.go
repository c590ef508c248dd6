// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const (
	minJWTSecretLength = 32

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that the configuration is complete and coherent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateRateLimits,
		c.validateCORS,
		c.validateDatabase,
		c.validateSecurity,
		c.validateEconomy,
		c.validatePayments,
		c.validateMessaging,
		c.validateReset,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateCORS rejects wildcard origins in production: the API authenticates
// with cookies and a wildcard would let any site replay them.
func (c *Config) validateCORS() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, o := range c.Server.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS configuration outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (c *Config) validateEconomy() error {
	e := c.Economy
	if e.SignupBonus < 0 {
		return fmt.Errorf("SIGNUP_BONUS must not be negative")
	}
	if e.CommunityJoinReward < 0 {
		return fmt.Errorf("COMMUNITY_JOIN_REWARD must not be negative")
	}
	if e.HistoryLimit < 1 || e.HistoryLimit > 1000 {
		return fmt.Errorf("COIN_HISTORY_LIMIT must be between 1 and 1000")
	}
	if e.MaxTransfer < 1 {
		return fmt.Errorf("MAX_TRANSFER must be positive")
	}
	if e.RetryAttempts < 1 || e.RetryAttempts > 20 {
		return fmt.Errorf("LEDGER_RETRY_ATTEMPTS must be between 1 and 20")
	}
	return nil
}

func (c *Config) validatePayments() error {
	p := c.Payments
	if !p.Enabled {
		return nil
	}
	if p.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENTS_ENABLED=true")
	}
	if p.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required when PAYMENTS_ENABLED=true")
	}
	if err := validateHTTPURL(p.APIBaseURL, "STRIPE_API_BASE_URL"); err != nil {
		return err
	}
	if p.WebhookTolerance <= 0 {
		return fmt.Errorf("STRIPE_WEBHOOK_TOLERANCE must be positive")
	}
	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("STRIPE_REQUESTS_PER_SECOND must be positive")
	}
	return nil
}

func (c *Config) validateMessaging() error {
	m := c.Messaging
	if m.NATSURL != "" {
		u, err := url.Parse(m.NATSURL)
		if err != nil || (u.Scheme != "nats" && u.Scheme != "tls") || u.Host == "" {
			return fmt.Errorf("NATS_URL must be a nats:// or tls:// URL")
		}
	}
	if m.EmbeddedNATS && (m.NATSPort < 0 || m.NATSPort > 65535) {
		return fmt.Errorf("NATS_PORT must be between 0 and 65535")
	}
	if m.TopicPrefix == "" {
		return fmt.Errorf("EVENT_TOPIC_PREFIX is required")
	}
	return nil
}

func (c *Config) validateReset() error {
	if c.Reset.CodeTTL < time.Minute {
		return fmt.Errorf("RESET_CODE_TTL must be at least 1m")
	}
	if c.Reset.MaxAttempts < 1 {
		return fmt.Errorf("RESET_MAX_ATTEMPTS must be positive")
	}
	if c.Reset.ExposeCode && c.IsProduction() {
		return fmt.Errorf("RESET_EXPOSE_CODE is not allowed when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func validateHTTPURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
