// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// MockService counts starts and can fail a set number of times before
// running normally.
type MockService struct {
	name      string
	starts    atomic.Int32
	failsLeft atomic.Int32
}

func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// SetFailCount makes the next n runs return an error immediately.
func (m *MockService) SetFailCount(n int) {
	m.failsLeft.Store(int32(n))
}

func (m *MockService) StartCount() int {
	return int(m.starts.Load())
}

func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failsLeft.Load() > 0 {
		m.failsLeft.Add(-1)
		return errors.New(m.name + ": simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockService) String() string {
	return m.name
}
