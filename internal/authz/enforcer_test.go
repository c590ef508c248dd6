// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/skillswap/internal/auth"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforce_EmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)

	tests := []struct {
		role, path, action string
		want               bool
	}{
		{RoleUser, "/api/v1/skills", "read", true},
		{RoleUser, "/api/v1/skills/12", "delete", true},
		{RoleUser, "/api/v1/coins/balance", "read", true},
		{RoleUser, "/api/v1/coins/balance", "write", false},
		{RoleUser, "/api/v1/users/3", "read", true},
		{RoleUser, "/api/v1/users/3", "delete", false},
		{RoleUser, "/api/v1/roadmaps/paths/2/projects", "read", true},
		{RoleUser, "/api/v1/roadmaps/paths/2", "write", false},
		{RoleUser, "/api/v1/roadmaps/me/progress", "write", true},
		{RoleUser, "/api/v1/admin/coins/grant", "write", false},
		{RoleUser, "/api/v1/admin/ledger/verify", "read", false},
		{RoleAdmin, "/api/v1/admin/coins/grant", "write", true},
		{RoleAdmin, "/api/v1/skills", "write", true},
		{"guest", "/api/v1/skills", "read", false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.path, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%s, %s, %s) error = %v", tt.role, tt.path, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
		}
	}
}

func TestEnforce_CachesDecisions(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)

	for i := 0; i < 3; i++ {
		if _, err := e.Enforce(RoleUser, "/api/v1/search", "read"); err != nil {
			t.Fatalf("Enforce() error = %v", err)
		}
	}
	stats := e.cache.GetStats()
	if stats.TotalKeys != 1 || stats.Hits != 2 {
		t.Errorf("cache stats = %+v, want 1 key and 2 hits", stats)
	}

	noCache, err := NewEnforcer(&EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if noCache.cache != nil {
		t.Error("zero CacheTTL should disable the cache")
	}
}

func TestNewEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	policy := "p, user, /api/v1/skills*, read\n"
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	e, err := NewEnforcer(&EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce(RoleUser, "/api/v1/skills", "read"); !ok {
		t.Error("file policy should allow reading skills")
	}
	if ok, _ := e.Enforce(RoleUser, "/api/v1/communities", "read"); ok {
		t.Error("file policy replaces the embedded one")
	}

	if _, err := NewEnforcer(&EnforcerConfig{PolicyPath: filepath.Join(dir, "missing.csv")}); err == nil {
		t.Error("missing policy file should fail")
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)
	if err := loadEmbeddedPolicy(e.enforcer, "p, user\n"); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestPolicyRules(t *testing.T) {
	t.Parallel()

	perms, groups, err := policyRules("# roles\np, user, /api/v1/skills*, read\n\ng, admin, user\n")
	if err != nil {
		t.Fatalf("policyRules() error = %v", err)
	}
	if len(perms) != 1 || perms[0][1] != "/api/v1/skills*" {
		t.Errorf("perms = %v", perms)
	}
	if len(groups) != 1 || groups[0][0] != "admin" || groups[0][1] != "user" {
		t.Errorf("groups = %v", groups)
	}

	_, _, err = policyRules("p, user, /a, read\nx, broken\n")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want one naming line 2", err)
	}
}

func TestAuthorizeMiddleware(t *testing.T) {
	t.Parallel()
	mw := NewMiddleware(newTestEnforcer(t))
	handler := mw.Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		claims *auth.Claims
		method string
		path   string
		want   int
	}{
		{"no claims", nil, http.MethodGet, "/api/v1/skills", http.StatusForbidden},
		{"user reads skills", &auth.Claims{UserID: 1, Role: RoleUser}, http.MethodGet, "/api/v1/skills", http.StatusOK},
		{"empty role is user", &auth.Claims{UserID: 1}, http.MethodGet, "/api/v1/skills", http.StatusOK},
		{"user on admin", &auth.Claims{UserID: 1, Role: RoleUser}, http.MethodPost, "/api/v1/admin/coins/grant", http.StatusForbidden},
		{"admin on admin", &auth.Claims{UserID: 2, Role: RoleAdmin}, http.MethodPost, "/api/v1/admin/coins/grant", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.claims != nil {
			req = req.WithContext(auth.ContextWithClaims(context.Background(), tt.claims))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		http.MethodGet:    "read",
		http.MethodHead:   "read",
		http.MethodPost:   "write",
		http.MethodPatch:  "write",
		http.MethodPut:    "write",
		http.MethodDelete: "delete",
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(authzDecisionsTotal.WithLabelValues("auditor", "read", "deny"))
	recordDecision("auditor", "read", false, false, time.Microsecond)
	after := testutil.ToFloat64(authzDecisionsTotal.WithLabelValues("auditor", "read", "deny"))
	if after-before != 1 {
		t.Errorf("decision counter delta = %v, want 1", after-before)
	}
}
