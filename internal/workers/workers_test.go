// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 O-dots

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := &Workers{workers: []Worker{w1, w2, w3}}
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
}

// mockTokenRepository implements store.TokenRepository; only
// DeleteExpiredTokens matters to the sweeper.
type mockTokenRepository struct {
	deleteExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockTokenRepository) SaveToken(ctx context.Context, token models.Token) (models.Token, error) {
	return token, nil
}

func (m *mockTokenRepository) FindToken(ctx context.Context, token string, purpose string) (models.Token, error) {
	return models.Token{}, nil
}

func (m *mockTokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	return nil
}

func (m *mockTokenRepository) DeleteUserTokens(ctx context.Context, userID string, purpose string) error {
	return nil
}

func (m *mockTokenRepository) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, before)
	}
	return 0, nil
}

func TestTokenSweeper_SweepsOnInterval(t *testing.T) {
	swept := make(chan time.Time, 1)
	tokens := &mockTokenRepository{
		deleteExpiredFn: func(ctx context.Context, before time.Time) (int64, error) {
			select {
			case swept <- before:
			default:
			}
			return 3, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := newTokenSweeper(tokens, 5*time.Millisecond, logger.Nop())
	sweeper.Run(ctx)

	select {
	case before := <-swept:
		if time.Since(before) > time.Minute {
			t.Errorf("sweep cutoff too far in the past: %v", before)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}
}

func TestTokenSweeper_StopsOnCancel(t *testing.T) {
	calls := make(chan struct{}, 64)
	tokens := &mockTokenRepository{
		deleteExpiredFn: func(ctx context.Context, before time.Time) (int64, error) {
			calls <- struct{}{}
			return 0, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())

	sweeper := newTokenSweeper(tokens, 5*time.Millisecond, logger.Nop())
	sweeper.Run(ctx)

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}

	cancel()
	// drain anything in flight, then expect silence
	time.Sleep(20 * time.Millisecond)
	for len(calls) > 0 {
		<-calls
	}

	select {
	case <-calls:
		t.Error("sweeper kept running after cancel")
	case <-time.After(30 * time.Millisecond):
	}
}
