// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	goccyjson "github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/metrics"
)

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, p Payload) error
}

// Bus is a Watermill publisher/subscriber pair.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	prefix     string
	transport  string
	logger     watermill.LoggerAdapter
	// subConn is the subscriber's NATS connection; nil for gochannel.
	subConn *natsgo.Conn
	closers []io.Closer

	mu     sync.RWMutex
	closed bool
}

// NewInProcessBus returns a bus backed by a Watermill gochannel.
func NewInProcessBus(prefix string) *Bus {
	logger := logging.NewWatermillAdapter()
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
	return &Bus{
		publisher:  ch,
		subscriber: ch,
		prefix:     prefix,
		transport:  "gochannel",
		logger:     logger,
		closers:    []io.Closer{ch},
	}
}

// NewNATSBus connects a core NATS publisher and subscriber to url. Every
// instance receives every event, so no queue group is used.
func NewNATSBus(url, prefix string) (*Bus, error) {
	logger := logging.NewWatermillAdapter()

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	marshaler := &wmNats.NATSMarshaler{}
	jsDisabled := wmNats.JetStreamConfig{Disabled: true}

	pubConn, err := natsgo.Connect(url, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect NATS publisher: %w", err)
	}
	pubCfg := wmNats.PublisherConfig{
		URL:       url,
		Marshaler: marshaler,
		JetStream: jsDisabled,
	}
	pub, err := wmNats.NewPublisherWithNatsConn(pubConn, pubCfg.GetPublisherPublishConfig(), logger)
	if err != nil {
		pubConn.Close()
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	subConn, err := natsgo.Connect(url, natsOpts...)
	if err != nil {
		_ = pub.Close()
		pubConn.Close()
		return nil, fmt.Errorf("connect NATS subscriber: %w", err)
	}
	subCfg := wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     10 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		Unmarshaler:      marshaler,
		JetStream:        jsDisabled,
	}
	sub, err := wmNats.NewSubscriberWithNatsConn(subConn, subCfg.GetSubscriberSubscriptionConfig(), logger)
	if err != nil {
		_ = pub.Close()
		pubConn.Close()
		subConn.Close()
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	// Publisher.Close closes pubConn and Subscriber.Close drains subConn.
	return &Bus{
		publisher:  pub,
		subscriber: sub,
		prefix:     prefix,
		transport:  "nats",
		logger:     logger,
		subConn:    subConn,
		closers:    []io.Closer{pub, sub},
	}, nil
}

// subscribeFlushTimeout bounds one PING/PONG round trip in WaitSubscribed.
const subscribeFlushTimeout = 2 * time.Second

// WaitSubscribed blocks until every subscription already made through the
// bus is registered with the NATS server, so a publish that follows is
// delivered. It returns at once for the in-process transport.
func (b *Bus) WaitSubscribed(ctx context.Context) error {
	if b.subConn == nil {
		return nil
	}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if b.subConn.IsConnected() {
			flushCtx, cancel := context.WithTimeout(ctx, subscribeFlushTimeout)
			err := b.subConn.FlushWithContext(flushCtx)
			cancel()
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Open builds the bus selected by cfg. The returned server is non-nil when
// an embedded NATS server was started; the caller owns its shutdown.
func Open(cfg *config.MessagingConfig) (*Bus, *EmbeddedServer, error) {
	switch {
	case cfg.EmbeddedNATS:
		srv, err := NewEmbeddedServer(cfg.NATSHost, cfg.NATSPort)
		if err != nil {
			return nil, nil, err
		}
		bus, err := NewNATSBus(srv.ClientURL(), cfg.TopicPrefix)
		if err != nil {
			srv.Shutdown()
			return nil, nil, err
		}
		return bus, srv, nil
	case cfg.NATSURL != "":
		bus, err := NewNATSBus(cfg.NATSURL, cfg.TopicPrefix)
		return bus, nil, err
	default:
		return NewInProcessBus(cfg.TopicPrefix), nil, nil
	}
}

// Transport names the backing pub/sub: gochannel or nats.
func (b *Bus) Transport() string {
	return b.transport
}

func (b *Bus) subject(topic string) string {
	return b.prefix + topic
}

// Publish wraps p in an Event and sends it.
func (b *Bus) Publish(ctx context.Context, p Payload) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errors.New("event bus is closed")
	}

	ev, err := NewEvent(p)
	if err != nil {
		return err
	}
	data, err := goccyjson.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set("topic", ev.Topic)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	err = b.publisher.Publish(b.subject(ev.Topic), msg)
	metrics.RecordEventPublish(ev.Topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic, err)
	}
	return nil
}

// PublishAsync publishes and only logs failures. Callers use it after the
// change has committed, where a lost notification must not fail the request.
func (b *Bus) PublishAsync(ctx context.Context, p Payload) {
	if err := b.Publish(ctx, p); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", p.Topic()).Msg("event publish failed")
	}
}

// Close shuts down publisher and subscriber.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
