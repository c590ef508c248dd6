// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/skillswap/internal/logging"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the API server under the api-layer supervisor.
// When the supervisor stops it, in-flight requests get drainTimeout to
// finish; a ledger transaction already inside DuckDB completes either way.
type HTTPServerService struct {
	srv          HTTPServer
	drainTimeout time.Duration
}

// NewHTTPServerService wraps srv. A non-positive drain timeout means 10s.
func NewHTTPServerService(srv HTTPServer, drainTimeout time.Duration) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	return &HTTPServerService{srv: srv, drainTimeout: drainTimeout}
}

// Serve implements suture.Service. A listener failure is returned so the
// supervisor restarts the server; http.ErrServerClosed is a clean stop.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	stopped := make(chan error, 1)
	go func() {
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		stopped <- err
	}()

	select {
	case err := <-stopped:
		if err != nil {
			return fmt.Errorf("http listener: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Dur("drain_timeout", s.drainTimeout).Msg("Draining HTTP connections")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drainTimeout)
	defer cancel()

	if err := s.srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http drain: %w", err)
	}
	<-stopped
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *HTTPServerService) String() string {
	return "http-server"
}
