// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/skillswap/internal/cache"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Role names carried in JWT claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// PolicyPath is a CSV policy file. If empty, uses the embedded policy.
	PolicyPath string

	// CacheTTL is how long decisions are cached. Zero disables the cache.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{CacheTTL: 5 * time.Minute}
}

// Enforcer wraps the Casbin enforcer with a decision cache.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *cache.Cache
}

// NewEnforcer creates a new authorization enforcer.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if _, statErr := os.Stat(cfg.PolicyPath); statErr != nil {
			return nil, fmt.Errorf("casbin policy %s: %w", cfg.PolicyPath, statErr)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	e := &Enforcer{enforcer: enforcer}
	if cfg.CacheTTL > 0 {
		e.cache = cache.New("authz", cfg.CacheTTL)
	}
	return e, nil
}

// policyRules splits a policy CSV into permission ("p") and role
// inheritance ("g") rules. Blank lines and # comments are skipped.
func policyRules(policy string) (perms, groups [][]string, err error) {
	for n, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		switch {
		case fields[0] == "p" && len(fields) == 4:
			perms = append(perms, fields[1:])
		case fields[0] == "g" && len(fields) == 3:
			groups = append(groups, fields[1:])
		default:
			return nil, nil, fmt.Errorf("policy line %d: malformed rule %q", n+1, line)
		}
	}
	return perms, groups, nil
}

func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	perms, groups, err := policyRules(policy)
	if err != nil {
		return err
	}
	if len(perms) > 0 {
		if _, err := enforcer.AddPolicies(perms); err != nil {
			return fmt.Errorf("add %d policies: %w", len(perms), err)
		}
	}
	if len(groups) > 0 {
		if _, err := enforcer.AddGroupingPolicies(groups); err != nil {
			return fmt.Errorf("add %d role grants: %w", len(groups), err)
		}
	}
	return nil
}

// Enforce checks if role may perform action on the object path.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	start := time.Now()

	key := decisionKey(role, object, action)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			allowed := v.(bool)
			recordDecision(role, action, allowed, true, time.Since(start))
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforce %s %s for %s: %w", action, object, role, err)
	}

	if e.cache != nil {
		e.cache.Set(key, allowed)
		authzCacheSize.Set(float64(e.cache.GetStats().TotalKeys))
	}
	recordDecision(role, action, allowed, false, time.Since(start))
	return allowed, nil
}

func decisionKey(role, object, action string) string {
	return strings.Join([]string{role, object, action}, "\x00")
}

// Close drops cached decisions.
func (e *Enforcer) Close() {
	if e.cache != nil {
		e.cache.Clear()
		authzCacheSize.Set(0)
	}
}
