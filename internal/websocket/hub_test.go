// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/skillswap/internal/events"
)

// startHub runs a hub and an httptest server that upgrades ?user=<id>.
func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Serve(ctx)
	}()

	up := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		if err != nil {
			http.Error(w, "bad user", http.StatusBadRequest)
			return
		}
		up.ServeWS(hub, w, r, id)
	}))

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID int64) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + strconv.FormatInt(userID, 10)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func mustEvent(t *testing.T, p events.Payload) *events.Event {
	t.Helper()
	ev, err := events.NewEvent(p)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	return ev
}

func TestHub_DeliversOnlyToRecipients(t *testing.T) {
	t.Parallel()

	hub, srv := startHub(t)
	alice := dial(t, srv, 1)
	bob := dial(t, srv, 2)
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })

	hub.Deliver(mustEvent(t, events.MessageSent{MessageID: 5, SenderID: 3, ReceiverID: 1, Text: "hi"}))
	hub.Deliver(mustEvent(t, events.CoinsChanged{EntryID: "e", Kind: "mint", ToID: 2, Amount: 50}))

	got := readMessage(t, alice)
	if got.Type != events.TopicMessageSent {
		t.Errorf("alice got %s, want %s", got.Type, events.TopicMessageSent)
	}
	if !strings.Contains(string(got.Data), `"hi"`) {
		t.Errorf("alice data = %s", got.Data)
	}

	// Bob was not a recipient of the message, so the first frame he sees is
	// his own coin event.
	got = readMessage(t, bob)
	if got.Type != events.TopicCoinsChanged {
		t.Errorf("bob got %s, want %s", got.Type, events.TopicCoinsChanged)
	}
}

func TestHub_MultipleConnectionsPerUser(t *testing.T) {
	t.Parallel()

	hub, srv := startHub(t)
	tab1 := dial(t, srv, 7)
	tab2 := dial(t, srv, 7)
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })
	if !hub.IsOnline(7) || hub.IsOnline(8) {
		t.Error("IsOnline mismatch")
	}

	hub.Deliver(mustEvent(t, events.CommunityJoined{CommunityID: 1, UserID: 9, CreatorID: 7, Reward: 5}))

	for i, conn := range []*websocket.Conn{tab1, tab2} {
		if got := readMessage(t, conn); got.Type != events.TopicCommunityJoined {
			t.Errorf("tab %d got %s", i+1, got.Type)
		}
	}
}

func TestHub_PingPong(t *testing.T) {
	t.Parallel()

	_, srv := startHub(t)
	conn := dial(t, srv, 1)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := readMessage(t, conn); got.Type != MessageTypePong {
		t.Errorf("got %s, want pong", got.Type)
	}
}

func TestHub_UnregisterOnClose(t *testing.T) {
	t.Parallel()

	hub, srv := startHub(t)
	conn := dial(t, srv, 4)
	waitFor(t, func() bool { return hub.IsOnline(4) })

	_ = conn.Close()
	waitFor(t, func() bool { return !hub.IsOnline(4) && hub.GetClientCount() == 0 })
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Serve(ctx) }()

	client := &Client{id: clientIDCounter.Add(1), userID: 1, hub: hub, send: make(chan Message, 1)}
	hub.Register <- client
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-client.send; ok {
		t.Error("client send channel should be closed")
	}
	if hub.GetClientCount() != 0 {
		t.Error("clients should be cleared on shutdown")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	slow := &Client{id: clientIDCounter.Add(1), userID: 3, hub: hub, send: make(chan Message)}
	hub.add(slow)

	hub.sendToUsers(mustEvent(t, events.CoinsChanged{EntryID: "x", Kind: "mint", ToID: 3, Amount: 1}))

	if hub.IsOnline(3) {
		t.Error("client with a full buffer should be disconnected")
	}
}

func TestUpgrader_RejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	up := NewUpgrader([]string{"https://app.example.com"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.ServeWS(hub, w, r, 1)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected handshake failure for foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %v, want 403", resp)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}

	header.Set("Origin", "https://app.example.com")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	_ = resp.Body.Close()
	_ = conn.Close()
}
