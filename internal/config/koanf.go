// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skillswap/config.yaml",
	"/etc/skillswap/config.yml",
}

// ConfigPathEnvVar names the variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:        "/data/skillswap.duckdb",
			MaxMemory:   "1GB",
			SeedCatalog: true,
		},
		Security: SecurityConfig{
			SessionTimeout: 24 * time.Hour,
			CookieSecure:   true,
			AdminEmails:    []string{},
			BcryptCost:     12,
		},
		Economy: EconomyConfig{
			SignupBonus:         25,
			CommunityJoinReward: 5,
			HistoryLimit:        50,
			MaxTransfer:         10000,
			RetryAttempts:       5,
			RetryBackoff:        10 * time.Millisecond,
		},
		Payments: PaymentsConfig{
			APIBaseURL:        "https://api.stripe.com",
			SuccessURL:        "https://skillswap.app/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:         "https://skillswap.app/payments/cancel",
			Currency:          "usd",
			Timeout:           15 * time.Second,
			WebhookTolerance:  5 * time.Minute,
			RequestsPerSecond: 20,
		},
		Messaging: MessagingConfig{
			NATSHost:    "127.0.0.1",
			NATSPort:    4222,
			TopicPrefix: "skillswap",
		},
		Reset: ResetConfig{
			CodeTTL:     15 * time.Minute,
			MaxAttempts: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with the koanf provider chain and validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
	"security.admin_emails",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"environment":         "server.environment",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_catalog":      "database.seed_catalog",

	"jwt_secret":         "security.jwt_secret",
	"session_timeout":    "security.session_timeout",
	"cookie_secure":      "security.cookie_secure",
	"admin_emails":       "security.admin_emails",
	"bcrypt_cost":        "security.bcrypt_cost",
	"casbin_policy_path": "security.casbin_policy_path",

	"signup_bonus":          "economy.signup_bonus",
	"community_join_reward": "economy.community_join_reward",
	"coin_history_limit":    "economy.history_limit",
	"max_transfer":          "economy.max_transfer",
	"ledger_retry_attempts": "economy.retry_attempts",
	"ledger_retry_backoff":  "economy.retry_backoff",

	"payments_enabled":           "payments.enabled",
	"stripe_secret_key":          "payments.stripe_secret_key",
	"stripe_webhook_secret":      "payments.webhook_secret",
	"stripe_api_base_url":        "payments.api_base_url",
	"stripe_success_url":         "payments.success_url",
	"stripe_cancel_url":          "payments.cancel_url",
	"stripe_currency":            "payments.currency",
	"stripe_timeout":             "payments.timeout",
	"stripe_webhook_tolerance":   "payments.webhook_tolerance",
	"stripe_requests_per_second": "payments.requests_per_second",

	"nats_url":           "messaging.nats_url",
	"nats_embedded":      "messaging.embedded_nats",
	"nats_host":          "messaging.nats_host",
	"nats_port":          "messaging.nats_port",
	"event_topic_prefix": "messaging.topic_prefix",

	"reset_store_path":   "reset.store_path",
	"reset_code_ttl":     "reset.code_ttl",
	"reset_max_attempts": "reset.max_attempts",
	"reset_expose_code":  "reset.expose_code",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names onto koanf paths.
// Unmapped variables return "" and are ignored.
//
//	HTTP_PORT          -> server.port
//	STRIPE_SECRET_KEY  -> payments.stripe_secret_key
//	SIGNUP_BONUS       -> economy.signup_bonus
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
