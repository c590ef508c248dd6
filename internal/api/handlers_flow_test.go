// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Rana",
		"username": "rana",
		"email":    "rana@example.com",
		"password": "password123",
		"phone":    "+961 71 123 456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var user models.User
	decodeData(t, env, &user)
	if user.Coins != testSignupBonus {
		t.Errorf("coins after signup = %d, want %d", user.Coins, testSignupBonus)
	}
	if user.Phone != "71123456" {
		t.Errorf("phone = %q, want normalized 71123456", user.Phone)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Rana Again",
		"username": "rana2",
		"email":    "rana@example.com",
		"password": "password123",
		"phone":    "71123456",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate email status = %d, want 409 (body %s)", w.Code, w.Body.String())
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "rana@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	decodeData(t, env, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	if login.Role != models.RoleUser {
		t.Errorf("role = %q, want user", login.Role)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "HttpOnly") {
		t.Errorf("token cookie not HttpOnly: %q", w.Header().Get("Set-Cookie"))
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/me", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"name": "A", "username": "abc", "email": "a@example.com", "password": "short", "phone": "71123456"}},
		{"bad email", map[string]string{"name": "A", "username": "abc", "email": "nope", "password": "password123", "phone": "71123456"}},
		{"foreign phone", map[string]string{"name": "A", "username": "abc", "email": "a@example.com", "password": "password123", "phone": "+1 555 0100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if env.Success {
				t.Error("success = true on a validation error")
			}
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	u := s.createUser(t, "sami")

	for _, body := range []map[string]string{
		{"email": u.Email, "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login(%s) status = %d, want 401", body["email"], w.Code)
		}
		if got := errorCode(env); got != "INVALID_CREDENTIALS" {
			t.Errorf("error code = %q, want INVALID_CREDENTIALS", got)
		}
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/v1/me", "/api/v1/coins/balance", "/api/v1/skills", "/api/v1/ws"} {
		w, _ := s.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, w.Code)
		}
	}

	w, _ := s.do(t, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /me with garbage token = %d, want 401", w.Code)
	}
}

func TestTransfer_IdempotentReplayAndInsufficientFunds(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	alice := s.createUser(t, "alice")
	bob := s.createUser(t, "bob")

	body := TransferRequest{ReceiverEmail: bob.Email, Amount: 10, Memo: "thanks"}
	w, env := s.do(t, http.MethodPost, "/api/v1/transfers", alice.token, body, IdempotencyKeyHeader, "tx-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("transfer status = %d, body %s", w.Code, w.Body.String())
	}
	var first TransferResponse
	decodeData(t, env, &first)
	if first.Balance != 15 {
		t.Errorf("sender balance = %d, want 15", first.Balance)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/transfers", alice.token, body, IdempotencyKeyHeader, "tx-1")
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d, body %s", w.Code, w.Body.String())
	}
	var replay TransferResponse
	decodeData(t, env, &replay)
	if !replay.Replayed || replay.EntryID != first.EntryID {
		t.Errorf("replay = %+v, want replayed entry %s", replay, first.EntryID)
	}
	if got := s.balance(t, alice.ID); got != 15 {
		t.Errorf("balance after replay = %d, want 15", got)
	}
	if got := s.balance(t, bob.ID); got != 35 {
		t.Errorf("receiver balance = %d, want 35", got)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/transfers", alice.token,
		TransferRequest{ReceiverEmail: bob.Email, Amount: 100})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("overdraft status = %d, want 400", w.Code)
	}
	if got := errorCode(env); got != CodeInsufficientCoins {
		t.Errorf("error code = %q, want %s", got, CodeInsufficientCoins)
	}
	if env.Error != nil && env.Error.Message != "Insufficient coins. Required: 100, Available: 15" {
		t.Errorf("message = %q", env.Error.Message)
	}

	w, _ = s.do(t, http.MethodPost, "/api/v1/transfers", alice.token,
		TransferRequest{ReceiverEmail: alice.Email, Amount: 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("self transfer status = %d, want 400", w.Code)
	}

	w, _ = s.do(t, http.MethodPost, "/api/v1/transfers", alice.token,
		TransferRequest{ReceiverEmail: "ghost@example.com", Amount: 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown receiver status = %d, want 404", w.Code)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/coins/history", alice.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var history []models.CoinTransaction
	decodeData(t, env, &history)
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2 (signup bonus and transfer)", len(history))
	}
}

func TestListUsers_ByEmail(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	viewer := s.createUser(t, "viewer")
	target := s.createUser(t, "target")

	w, env := s.do(t, http.MethodGet, "/api/v1/users?email="+strings.ToUpper(target.Email), viewer.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lookup status = %d, body %s", w.Code, w.Body.String())
	}
	var found []models.PublicProfile
	decodeData(t, env, &found)
	if len(found) != 1 || found[0].ID != target.ID || found[0].Username != target.Username {
		t.Errorf("lookup = %+v", found)
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/users?email=ghost@example.com", viewer.token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown email status = %d, want 404", w.Code)
	}
}

func TestTransfer_KeepsTransactionType(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	alice := s.createUser(t, "alice")
	bob := s.createUser(t, "bob")

	w, _ := s.do(t, http.MethodPost, "/api/v1/transfers", alice.token,
		TransferRequest{ReceiverEmail: bob.Email, Amount: 3, TransactionType: "tip"})
	if w.Code != http.StatusCreated {
		t.Fatalf("transfer status = %d, body %s", w.Code, w.Body.String())
	}

	w, env := s.do(t, http.MethodGet, "/api/v1/transfers", bob.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list transfers status = %d", w.Code)
	}
	var transfers []models.TransferRecord
	decodeData(t, env, &transfers)
	if len(transfers) != 1 || transfers[0].Reference != "type:tip" || transfers[0].Memo != "" {
		t.Errorf("transfers = %+v", transfers)
	}
}

func TestSkillRequest_AcceptMovesCoinsAndEnrolls(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	owner := s.createUser(t, "mentor")
	learner := s.createUser(t, "learner")

	w, env := s.do(t, http.MethodPost, "/api/v1/skills", owner.token, SkillBody{
		Name:       "Guitar basics",
		Level:      "Beginner",
		Coins:      10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create skill status = %d, body %s", w.Code, w.Body.String())
	}
	var skill models.Skill
	decodeData(t, env, &skill)

	start := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")

	w, _ = s.do(t, http.MethodPost, "/api/v1/skill-requests", owner.token, CreateSkillRequestBody{
		SkillID: skill.ID, StartDate: start, EndDate: end,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("requesting own skill status = %d, want 400", w.Code)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/skill-requests", learner.token, CreateSkillRequestBody{
		SkillID: skill.ID, LearningMode: models.ModeOnline, StartDate: start, EndDate: end,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create request status = %d, body %s", w.Code, w.Body.String())
	}
	var req models.SkillRequest
	decodeData(t, env, &req)

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/skill-requests/%d/status", req.ID), learner.token,
		DecisionBody{Status: models.RequestAccepted})
	if w.Code != http.StatusForbidden {
		t.Errorf("requester deciding status = %d, want 403", w.Code)
	}

	w, env = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/skill-requests/%d/status", req.ID), owner.token,
		DecisionBody{Status: models.RequestAccepted})
	if w.Code != http.StatusOK {
		t.Fatalf("accept status = %d, body %s", w.Code, w.Body.String())
	}
	var decision models.RequestDecision
	decodeData(t, env, &decision)
	if decision.CoinsTransferred != 10 || !decision.Enrolled {
		t.Errorf("decision = %+v, want 10 coins and enrolled", decision)
	}
	if got := s.balance(t, learner.ID); got != 15 {
		t.Errorf("learner balance = %d, want 15", got)
	}
	if got := s.balance(t, owner.ID); got != 35 {
		t.Errorf("owner balance = %d, want 35", got)
	}

	w, env = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/skill-requests/%d/status", req.ID), owner.token,
		DecisionBody{Status: models.RequestRejected})
	if w.Code != http.StatusConflict || errorCode(env) != CodeInvalidTransition {
		t.Errorf("second decision = %d %s, want 409 %s", w.Code, errorCode(env), CodeInvalidTransition)
	}

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/learnings/%d", skill.ID), learner.token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("learning after accept status = %d, body %s", w.Code, w.Body.String())
	}

	topics := s.publisher.topics()
	if n := countTopic(topics, events.TopicSkillRequestUpdated); n != 2 {
		t.Errorf("skill request events = %d, want 2 (created, accepted); topics %v", n, topics)
	}
}

func TestSkillRequest_AcceptWithoutFundsFails(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	owner := s.createUser(t, "pricey")
	learner := s.createUser(t, "broke")

	_, env := s.do(t, http.MethodPost, "/api/v1/skills", owner.token, SkillBody{Name: "Piano", Coins: 40})
	var skill models.Skill
	decodeData(t, env, &skill)

	start := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	_, env = s.do(t, http.MethodPost, "/api/v1/skill-requests", learner.token, CreateSkillRequestBody{
		SkillID: skill.ID, StartDate: start, EndDate: end,
	})
	var req models.SkillRequest
	decodeData(t, env, &req)

	w, env := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/skill-requests/%d/status", req.ID), owner.token,
		DecisionBody{Status: models.RequestAccepted})
	if w.Code != http.StatusBadRequest || errorCode(env) != CodeInsufficientCoins {
		t.Fatalf("accept = %d %s, want 400 %s", w.Code, errorCode(env), CodeInsufficientCoins)
	}
	if got := s.balance(t, learner.ID); got != testSignupBonus {
		t.Errorf("learner balance = %d, want unchanged %d", got, testSignupBonus)
	}

	_, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/skill-requests/check?skill_id=%d", skill.ID), learner.token, nil)
	var check CheckRequestResponse
	decodeData(t, env, &check)
	if check.Status != models.RequestPending {
		t.Errorf("request status after failed accept = %q, want pending", check.Status)
	}
}

func TestCommunityJoin_RewardsCreator(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	creator := s.createUser(t, "creator")
	member := s.createUser(t, "member")

	w, env := s.do(t, http.MethodPost, "/api/v1/communities", creator.token, CommunityBody{
		Name:      "Go Beirut",
		Level:     models.LevelAll,
		StartDate: "2026-01-01",
		EndDate:   "2026-12-31",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create community status = %d, body %s", w.Code, w.Body.String())
	}
	var c models.Community
	decodeData(t, env, &c)

	w, env = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/communities/%d/join", c.ID), member.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("join status = %d, body %s", w.Code, w.Body.String())
	}
	var res models.JoinResult
	decodeData(t, env, &res)
	if res.CreatorReward != testJoinReward || res.CreatorID != creator.ID {
		t.Errorf("join result = %+v", res)
	}
	if got := s.balance(t, creator.ID); got != testSignupBonus+testJoinReward {
		t.Errorf("creator balance = %d, want %d", got, testSignupBonus+testJoinReward)
	}

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/communities/%d/join", c.ID), member.token, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second join status = %d, want 409", w.Code)
	}
	if got := s.balance(t, creator.ID); got != testSignupBonus+testJoinReward {
		t.Errorf("creator balance after duplicate join = %d", got)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/communities?scope=joined", member.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("joined list status = %d", w.Code)
	}
	var joined []models.Community
	decodeData(t, env, &joined)
	if len(joined) != 1 || joined[0].ID != c.ID {
		t.Errorf("joined = %+v", joined)
	}

	if n := countTopic(s.publisher.topics(), events.TopicCommunityJoined); n != 1 {
		t.Errorf("community joined events = %d, want 1", n)
	}
}

func TestMessages_SendAndThread(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	a := s.createUser(t, "nour")
	b := s.createUser(t, "karim")

	w, _ := s.do(t, http.MethodPost, "/api/v1/messages", a.token, SendMessageBody{ReceiverID: b.ID, Message: "hello"})
	if w.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body %s", w.Code, w.Body.String())
	}

	_, env := s.do(t, http.MethodGet, "/api/v1/messages/unread", b.token, nil)
	var unread UnreadResponse
	decodeData(t, env, &unread)
	if unread.Unread != 1 {
		t.Errorf("unread = %d, want 1", unread.Unread)
	}

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", a.ID), b.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("thread status = %d", w.Code)
	}
	var thread []models.Message
	decodeData(t, env, &thread)
	if len(thread) != 1 || thread[0].Text != "hello" {
		t.Errorf("thread = %+v", thread)
	}

	w, _ = s.do(t, http.MethodPost, "/api/v1/messages", a.token, SendMessageBody{ReceiverID: a.ID, Message: "me"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("message to self status = %d, want 400", w.Code)
	}

	if n := countTopic(s.publisher.topics(), events.TopicMessageSent); n != 1 {
		t.Errorf("message events = %d, want 1", n)
	}
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	user := s.createUser(t, "regular")
	admin := s.createUserWithEmail(t, "boss", testAdminEmail)

	w, _ := s.do(t, http.MethodGet, "/api/v1/admin/ledger/verify", user.token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("user verify ledger = %d, want 403", w.Code)
	}
	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/coins/grant", user.token, AdminCoinsRequest{UserID: user.ID, Amount: 100})
	if w.Code != http.StatusForbidden {
		t.Errorf("user grant = %d, want 403", w.Code)
	}

	w, env := s.do(t, http.MethodPost, "/api/v1/admin/coins/grant", admin.token,
		AdminCoinsRequest{UserID: user.ID, Amount: 100, Memo: "prize"}, IdempotencyKeyHeader, "grant-1")
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		t.Fatalf("admin grant status = %d, body %s", w.Code, w.Body.String())
	}
	var grant AdminCoinsResponse
	decodeData(t, env, &grant)
	if grant.Balance != testSignupBonus+100 {
		t.Errorf("balance after grant = %d, want %d", grant.Balance, testSignupBonus+100)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/admin/coins/deduct", admin.token,
		AdminCoinsRequest{UserID: user.ID, Amount: 1000})
	if w.Code != http.StatusBadRequest || errorCode(env) != CodeInsufficientCoins {
		t.Errorf("overdrawing deduct = %d %s, want 400 %s", w.Code, errorCode(env), CodeInsufficientCoins)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/admin/ledger/verify", admin.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin verify ledger = %d, body %s", w.Code, w.Body.String())
	}
	var report models.LedgerReport
	decodeData(t, env, &report)
	if !report.OK() {
		t.Errorf("ledger report not OK: %+v", report)
	}
}

func TestRateLimit_ReturnsJSON429(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimitDisabled = false
		cfg.Server.RateLimitReqs = 2
	})
	u := s.createUser(t, "spammer")

	for i := 0; i < 2; i++ {
		if w, _ := s.do(t, http.MethodGet, "/api/v1/categories", u.token, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
	w, env := s.do(t, http.MethodGet, "/api/v1/categories", u.token, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", w.Code)
	}
	if got := errorCode(env); got != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error code = %q, want RATE_LIMIT_EXCEEDED", got)
	}
}

func TestCertificateVerify_IsPublic(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w, env := s.do(t, http.MethodGet, "/api/v1/certificates/verify/NOPE1234", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown certificate status = %d, want 404", w.Code)
	}
	if got := errorCode(env); got != CodeNotFound {
		t.Errorf("error code = %q, want %s", got, CodeNotFound)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w, env := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	var health models.HealthStatus
	decodeData(t, env, &health)
	if health.Status != "healthy" || !health.DatabaseConnected {
		t.Errorf("health = %+v", health)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/health/ready", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d", w.Code)
	}
	var ready models.ReadinessStatus
	decodeData(t, env, &ready)
	if !ready.Ready || !ready.DatabaseConnected {
		t.Errorf("readiness = %+v", ready)
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		w, _ := s.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
}

func countTopic(topics []string, topic string) int {
	n := 0
	for _, t := range topics {
		if t == topic {
			n++
		}
	}
	return n
}

func TestCatalog_ServedFromCache(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	u := s.createUser(t, "catalog")

	for range 3 {
		if w, _ := s.do(t, http.MethodGet, "/api/v1/categories", u.token, nil); w.Code != http.StatusOK {
			t.Fatalf("categories status = %d", w.Code)
		}
	}

	stats := s.handler.catalog.GetStats()
	if stats.Misses != 1 || stats.Hits != 2 {
		t.Errorf("catalog stats = %+v, want 1 miss and 2 hits", stats)
	}
}
