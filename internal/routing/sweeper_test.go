package routing_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripfolio/backend/internal/routing"
)

type fakeExpiryStore struct {
	calls   atomic.Int64
	lastAge atomic.Value
}

func (f *fakeExpiryStore) DeleteOlderThan(_ context.Context, age time.Duration) (int64, error) {
	f.calls.Add(1)
	f.lastAge.Store(age)
	return 3, nil
}

func TestSweeper_SweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	store := &fakeExpiryStore{}
	sweeper := routing.NewSweeper(store, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// The first sweep happens before the first tick.
	assert.Eventually(t, func() bool { return store.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, routing.CacheMaxAge, store.lastAge.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
