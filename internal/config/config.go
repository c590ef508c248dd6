// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// Package config loads Skillswap configuration.
//
// Loading order (later wins):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/skillswap/config.yaml)
//  3. Environment variables mapped through envTransformFunc
//
// The returned Config is immutable after Load and safe for concurrent reads.
package config

import (
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Economy   EconomyConfig   `koanf:"economy"`
	Payments  PaymentsConfig  `koanf:"payments"`
	Messaging MessagingConfig `koanf:"messaging"`
	Reset     ResetConfig     `koanf:"reset"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
	CORSOrigins []string      `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds DuckDB settings. Path ":memory:" opens an in-memory database.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
	// SeedCatalog inserts the default categories, courses and learning
	// roadmaps on first start.
	SeedCatalog bool `koanf:"seed_catalog"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	CookieSecure   bool          `koanf:"cookie_secure"`
	// AdminEmails receive the admin role at login.
	AdminEmails []string `koanf:"admin_emails"`
	// BcryptCost is the bcrypt work factor for password hashes.
	BcryptCost int `koanf:"bcrypt_cost"`
	// CasbinPolicyPath overrides the embedded RBAC policy when set.
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// EconomyConfig holds coin economy parameters.
type EconomyConfig struct {
	SignupBonus         int64 `koanf:"signup_bonus"`
	CommunityJoinReward int64 `koanf:"community_join_reward"`
	HistoryLimit        int   `koanf:"history_limit"`
	MaxTransfer         int64 `koanf:"max_transfer"`
	// RetryAttempts bounds how often a ledger transaction is retried after a
	// write-write conflict.
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryBackoff  time.Duration `koanf:"retry_backoff"`
}

// PaymentsConfig holds Stripe Checkout settings.
type PaymentsConfig struct {
	Enabled          bool          `koanf:"enabled"`
	StripeSecretKey  string        `koanf:"stripe_secret_key"`
	WebhookSecret    string        `koanf:"webhook_secret"`
	APIBaseURL       string        `koanf:"api_base_url"`
	SuccessURL       string        `koanf:"success_url"`
	CancelURL        string        `koanf:"cancel_url"`
	Currency         string        `koanf:"currency"`
	Timeout          time.Duration `koanf:"timeout"`
	WebhookTolerance time.Duration `koanf:"webhook_tolerance"`
	// RequestsPerSecond limits outbound Stripe API calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// MessagingConfig selects the event bus transport.
// An empty NATSURL with EmbeddedNATS disabled keeps events in-process.
type MessagingConfig struct {
	NATSURL      string `koanf:"nats_url"`
	EmbeddedNATS bool   `koanf:"embedded_nats"`
	NATSHost     string `koanf:"nats_host"`
	NATSPort     int    `koanf:"nats_port"`
	TopicPrefix  string `koanf:"topic_prefix"`
}

// ResetConfig holds password-reset settings.
type ResetConfig struct {
	// StorePath is the BadgerDB directory; empty keeps codes in memory.
	StorePath   string        `koanf:"store_path"`
	CodeTTL     time.Duration `koanf:"code_ttl"`
	MaxAttempts int           `koanf:"max_attempts"`
	// ExposeCode returns the code in the API response. Development only.
	ExposeCode bool `koanf:"expose_code"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsAdminEmail reports whether email is configured as an administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Security.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
