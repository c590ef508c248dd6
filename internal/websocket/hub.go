// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Client-originated message types. Server pushes use the event topic as type.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is the frame written to clients.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected clients per user and routes events to them.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[int64]map[*Client]bool
	deliver    chan *events.Event
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		deliver:    make(chan *events.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byUser:     make(map[int64]map[*Client]bool),
	}
}

// Serve runs the hub until ctx is cancelled. It implements suture.Service.
//
// Lifecycle events are drained before deliveries so that a client that
// registered before an event was queued always receives it.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case ev := <-h.deliver:
			h.sendToUsers(ev)
		}
	}
}

// String names the service in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	set, ok := h.byUser[client.userID]
	if !ok {
		set = make(map[*Client]bool)
		h.byUser[client.userID] = set
	}
	set[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Debug().Int64("user_id", client.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	removed := h.dropLocked(client)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		logging.Debug().Int64("user_id", client.userID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// dropLocked must be called with mu held.
func (h *Hub) dropLocked(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	if set, ok := h.byUser[client.userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byUser, client.userID)
		}
	}
	close(client.send)
	metrics.WSConnections.Dec()
	return true
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// Deliver queues ev for the hub loop. It implements events.Sink and never
// blocks: when the queue is full the event is dropped.
func (h *Hub) Deliver(ev *events.Event) {
	select {
	case h.deliver <- ev:
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("topic", ev.Topic).Msg("websocket delivery queue full, dropping event")
	}
}

// sendToUsers writes ev to every connection of its recipients in client ID
// order. Slow clients whose buffer is full are disconnected.
func (h *Hub) sendToUsers(ev *events.Event) {
	at := ev.OccurredAt
	msg := Message{Type: ev.Topic, ID: ev.ID, OccurredAt: &at, Data: ev.Data}

	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	for _, userID := range ev.Recipients {
		for client := range h.byUser[userID] {
			targets = append(targets, client)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].id < targets[j].id
	})

	for _, client := range targets {
		select {
		case client.send <- msg:
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSErrors.WithLabelValues("slow_client").Inc()
			h.dropLocked(client)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		h.dropLocked(client)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsOnline reports whether userID has at least one open connection.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID]) > 0
}
