// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips t when the container provider is not reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// WaitForReady polls check until it passes, ctx ends or timeout elapses.
// Use it for readiness the container wait strategy cannot see, such as an
// application-level endpoint.
func WaitForReady(ctx context.Context, _ testcontainers.Container, check func() bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if check() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CleanupContainer terminates c and logs instead of failing the test.
func CleanupContainer(t *testing.T, _ context.Context, c testcontainers.Container) {
	t.Helper()
	if err := testcontainers.TerminateContainer(c); err != nil {
		t.Logf("terminate container: %v", err)
	}
}

// ContainerInfo summarizes a running container for test logs.
type ContainerInfo struct {
	ID        string
	Host      string
	State     string
	StartedAt string
	Ports     map[string]string
}

// GetContainerInfo reads the container state and port bindings.
func GetContainerInfo(ctx context.Context, c testcontainers.Container) (*ContainerInfo, error) {
	state, err := c.State(ctx)
	if err != nil {
		return nil, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	ports, err := c.Ports(ctx)
	if err != nil {
		return nil, err
	}

	info := &ContainerInfo{
		ID:        c.GetContainerID(),
		Host:      host,
		State:     state.Status,
		StartedAt: state.StartedAt,
		Ports:     make(map[string]string, len(ports)),
	}
	if len(info.ID) > 12 {
		info.ID = info.ID[:12]
	}
	for port, bindings := range ports {
		if len(bindings) > 0 {
			info.Ports[string(port)] = bindings[0].HostPort
		}
	}
	return info, nil
}
