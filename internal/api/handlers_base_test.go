// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/authz"
	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/models"
	ws "github.com/tomtom215/skillswap/internal/websocket"
)

// testDBSemaphore limits how many in-memory DuckDB instances exist at once.
var testDBSemaphore = make(chan struct{}, 4)

var userSeq atomic.Int64

const (
	testSignupBonus = 25
	testJoinReward  = 5
	testAdminEmail  = "admin@example.com"
)

// recordingPublisher keeps every published payload.
type recordingPublisher struct {
	mu       sync.Mutex
	payloads []events.Payload
}

func (p *recordingPublisher) Publish(_ context.Context, payload events.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.payloads))
	for _, pl := range p.payloads {
		out = append(out, pl.Topic())
	}
	return out
}

type testServer struct {
	handler   *Handler
	db        *database.DB
	cfg       *config.Config
	publisher *recordingPublisher
	http      http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		Security: config.SecurityConfig{
			JWTSecret:      "test-secret-that-is-long-enough-for-hs256-signing",
			SessionTimeout: time.Hour,
			AdminEmails:    []string{testAdminEmail},
			BcryptCost:     4,
		},
		Economy: config.EconomyConfig{
			SignupBonus:         testSignupBonus,
			CommunityJoinReward: testJoinReward,
			HistoryLimit:        50,
			MaxTransfer:         10000,
		},
		Reset: config.ResetConfig{
			CodeTTL:     10 * time.Minute,
			MaxAttempts: 3,
		},
	}
}

// newTestServer builds the full router over an in-memory database. mutate
// may adjust the config before anything is wired.
func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	db, err := database.New(&config.DatabaseConfig{
		Path:        ":memory:",
		MaxMemory:   "256MB",
		Threads:     2,
		SeedCatalog: true,
	})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close: %v", err)
		}
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	pub := &recordingPublisher{}
	h := NewHandler(db, cfg, jwtManager, ws.NewHub())
	h.SetEventPublisher(pub)

	return &testServer{
		handler:   h,
		db:        db,
		cfg:       cfg,
		publisher: pub,
		http:      NewRouter(h, enforcer).SetupChi(),
	}
}

// testUser is a member created directly in the store with a signed token.
type testUser struct {
	*models.User
	token string
}

func (s *testServer) createUser(t *testing.T, name string) *testUser {
	t.Helper()
	return s.createUserWithEmail(t, name, fmt.Sprintf("%s%d@example.com", name, userSeq.Add(1)))
}

func (s *testServer) createUserWithEmail(t *testing.T, name, email string) *testUser {
	t.Helper()
	n := userSeq.Add(1)
	hash, err := auth.HashPassword("password123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := s.db.CreateUser(context.Background(), models.NewUser{
		Name:         name,
		Username:     fmt.Sprintf("%s%d", name, n),
		Email:        email,
		PasswordHash: hash,
		Phone:        "71123456",
	}, s.cfg.Economy.SignupBonus)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}

	role := models.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = models.RoleAdmin
	}
	token, err := s.handler.jwtManager.GenerateToken(u.ID, u.Email, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &testUser{User: u, token: token}
}

// envelope mirrors models.APIResponse with the data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *models.APIError `json:"error"`
}

// do sends a request through the router. body is JSON-encoded unless nil.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.http.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

// decodeData unmarshals the data member of an envelope into dst.
func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func (s *testServer) balance(t *testing.T, userID int64) int64 {
	t.Helper()
	b, err := s.db.Ledger().Balance(context.Background(), userID)
	if err != nil {
		t.Fatalf("Balance(%d): %v", userID, err)
	}
	return b
}

func errorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}
