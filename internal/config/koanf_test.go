// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Economy.SignupBonus != 25 {
		t.Errorf("Economy.SignupBonus = %d, want 25", cfg.Economy.SignupBonus)
	}
	if cfg.Economy.CommunityJoinReward != 5 {
		t.Errorf("Economy.CommunityJoinReward = %d, want 5", cfg.Economy.CommunityJoinReward)
	}
	if cfg.Economy.HistoryLimit != 50 {
		t.Errorf("Economy.HistoryLimit = %d, want 50", cfg.Economy.HistoryLimit)
	}
	if cfg.Reset.CodeTTL != 15*time.Minute {
		t.Errorf("Reset.CodeTTL = %v, want 15m", cfg.Reset.CodeTTL)
	}
	if cfg.Reset.MaxAttempts != 3 {
		t.Errorf("Reset.MaxAttempts = %d, want 3", cfg.Reset.MaxAttempts)
	}
	if cfg.Payments.Enabled {
		t.Error("payments should be disabled by default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HTTP_PORT":             "server.port",
		"JWT_SECRET":            "security.jwt_secret",
		"SIGNUP_BONUS":          "economy.signup_bonus",
		"STRIPE_WEBHOOK_SECRET": "payments.webhook_secret",
		"NATS_URL":              "messaging.nats_url",
		"RESET_CODE_TTL":        "reset.code_ttl",
		"PATH":                  "",
		"HOME":                  "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SIGNUP_BONUS", "40")
	t.Setenv("ADMIN_EMAILS", "ops@skillswap.app, root@skillswap.app")
	t.Setenv("LEDGER_RETRY_BACKOFF", "25ms")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Economy.SignupBonus != 40 {
		t.Errorf("Economy.SignupBonus = %d, want 40", cfg.Economy.SignupBonus)
	}
	if cfg.Economy.RetryBackoff != 25*time.Millisecond {
		t.Errorf("Economy.RetryBackoff = %v, want 25ms", cfg.Economy.RetryBackoff)
	}
	want := []string{"ops@skillswap.app", "root@skillswap.app"}
	if !reflect.DeepEqual(cfg.Security.AdminEmails, want) {
		t.Errorf("AdminEmails = %v, want %v", cfg.Security.AdminEmails, want)
	}
	if !cfg.IsAdminEmail("OPS@skillswap.app") {
		t.Error("IsAdminEmail should be case-insensitive")
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7000
security:
  jwt_secret: "` + testSecret + `"
economy:
  community_join_reward: 9
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Economy.CommunityJoinReward != 9 {
		t.Errorf("CommunityJoinReward = %d, want 9", cfg.Economy.CommunityJoinReward)
	}
	if cfg.Economy.SignupBonus != 25 {
		t.Errorf("defaults should survive a partial file: signup bonus = %d", cfg.Economy.SignupBonus)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_MissingSecret(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}
