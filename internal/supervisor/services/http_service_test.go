// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// fakeServer blocks in ListenAndServe until Shutdown, unless listenErr is set.
type fakeServer struct {
	listenErr   error
	shutdownErr error

	started  chan struct{}
	released chan struct{}
	once     sync.Once

	mu        sync.Mutex
	listens   int
	shutdowns int
	deadline  time.Time
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started:  make(chan struct{}, 8),
		released: make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	f.mu.Lock()
	f.listens++
	f.mu.Unlock()
	f.started <- struct{}{}

	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.released
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	f.shutdowns++
	f.deadline, _ = ctx.Deadline()
	f.mu.Unlock()
	f.once.Do(func() { close(f.released) })
	return f.shutdownErr
}

func (f *fakeServer) counts() (listens, shutdowns int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listens, f.shutdowns
}

func waitStarted(t *testing.T, f *fakeServer) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(time.Second):
		t.Fatal("ListenAndServe not called")
	}
}

func TestNewHTTPServerService_DrainTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{in: 3 * time.Second, want: 3 * time.Second},
		{in: 0, want: defaultDrainTimeout},
		{in: -time.Second, want: defaultDrainTimeout},
	}
	for _, tt := range tests {
		if got := NewHTTPServerService(newFakeServer(), tt.in).drainTimeout; got != tt.want {
			t.Errorf("drainTimeout(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := NewHTTPServerService(newFakeServer(), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_DrainsOnCancel(t *testing.T) {
	t.Parallel()

	srv := newFakeServer()
	svc := NewHTTPServerService(srv, 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitStarted(t, srv)
	before := time.Now()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}

	listens, shutdowns := srv.counts()
	if listens != 1 || shutdowns != 1 {
		t.Errorf("listens=%d shutdowns=%d, want 1 and 1", listens, shutdowns)
	}
	if srv.deadline.Before(before.Add(time.Second)) {
		t.Errorf("drain deadline %v too early; the canceled context must not be reused", srv.deadline)
	}
}

func TestHTTPServerService_Errors(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	drainErr := errors.New("context deadline exceeded")

	tests := []struct {
		name     string
		listen   error
		shutdown error
		cancel   bool
		want     error
	}{
		{name: "listener fails", listen: bindErr, want: bindErr},
		{name: "drain fails", shutdown: drainErr, cancel: true, want: drainErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newFakeServer()
			srv.listenErr = tt.listen
			srv.shutdownErr = tt.shutdown
			svc := NewHTTPServerService(srv, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- svc.Serve(ctx) }()

			waitStarted(t, srv)
			if tt.cancel {
				cancel()
			}

			select {
			case err := <-done:
				if !errors.Is(err, tt.want) {
					t.Errorf("Serve() = %v, want %v", err, tt.want)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}
		})
	}
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	t.Parallel()

	srv := newFakeServer()
	sup := suture.New("api-layer", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(NewHTTPServerService(srv, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	waitStarted(t, srv)
	cancel()
	<-errCh

	if _, shutdowns := srv.counts(); shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", shutdowns)
	}
}
