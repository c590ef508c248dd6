// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
)

// Sink receives decoded events. Implementations must not block for long;
// the router processes one message at a time per topic.
type Sink interface {
	Deliver(ev *Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev *Event)

// Deliver calls f(ev).
func (f SinkFunc) Deliver(ev *Event) { f(ev) }

// ForwarderConfig tunes the delivery router.
type ForwarderConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	// DedupTTL drops redelivered event IDs seen within the window. 0 disables.
	DedupTTL time.Duration
}

// DefaultForwarderConfig returns production defaults.
func DefaultForwarderConfig() ForwarderConfig {
	return ForwarderConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		DedupTTL:             time.Minute,
	}
}

// Forwarder consumes every topic on the bus and hands events to a Sink.
// It implements suture.Service through Serve.
type Forwarder struct {
	bus  *Bus
	sink Sink
	cfg  ForwarderConfig

	readyOnce sync.Once
	ready     chan struct{}
}

// NewForwarder creates a forwarder for bus.
func NewForwarder(bus *Bus, sink Sink, cfg ForwarderConfig) *Forwarder {
	return &Forwarder{
		bus:   bus,
		sink:  sink,
		cfg:   cfg,
		ready: make(chan struct{}),
	}
}

// Ready is closed once the first router run has subscribed to every topic
// and, on NATS, the broker has acknowledged the subscriptions.
func (f *Forwarder) Ready() <-chan struct{} {
	return f.ready
}

// Serve runs the router until ctx is cancelled.
func (f *Forwarder) Serve(ctx context.Context) error {
	router, err := f.newRouter()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-router.Running():
		case <-ctx.Done():
			return
		}
		if err := f.bus.WaitSubscribed(ctx); err != nil {
			if ctx.Err() == nil {
				logging.Error().Err(err).Msg("event subscriptions not confirmed by broker")
			}
			return
		}
		f.readyOnce.Do(func() { close(f.ready) })
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (f *Forwarder) String() string {
	return "event-forwarder"
}

func (f *Forwarder) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: f.cfg.CloseTimeout,
	}, f.bus.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      f.cfg.RetryMaxRetries,
		InitialInterval: f.cfg.RetryInitialInterval,
		MaxInterval:     f.cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          f.bus.logger,
	}
	router.AddMiddleware(retry.Middleware)

	if f.cfg.DedupTTL > 0 {
		repo, err := middleware.NewMapExpiringKeyRepository(f.cfg.DedupTTL)
		if err != nil {
			return nil, fmt.Errorf("create dedup repository: %w", err)
		}
		dedup := middleware.Deduplicator{
			KeyFactory: func(msg *message.Message) (string, error) {
				return msg.UUID, nil
			},
			Repository: repo,
		}
		router.AddMiddleware(dedup.Middleware)
	}

	for _, topic := range Topics {
		router.AddConsumerHandler(
			"forward_"+topic,
			f.bus.subject(topic),
			f.bus.subscriber,
			f.handle,
		)
	}
	return router, nil
}

func (f *Forwarder) handle(msg *message.Message) error {
	ev, err := Decode(msg.Payload)
	if err != nil {
		// Undecodable payloads can never succeed; ack and drop.
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed event")
		return nil
	}
	f.sink.Deliver(ev)
	metrics.EventsDelivered.WithLabelValues(ev.Topic).Inc()
	return nil
}
