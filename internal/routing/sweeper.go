package routing

import (
	"context"
	"log/slog"
	"time"
)

// ExpiryStore is the deletion capability the sweeper needs.
type ExpiryStore interface {
	// DeleteOlderThan removes cache entries older than age and returns how
	// many rows went away.
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Sweeper periodically deletes route cache entries past the retention window.
// The sweep is idempotent and safe to run concurrently with reads and writes:
// it only ever deletes rows that reads already ignore by age.
type Sweeper struct {
	store    ExpiryStore
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper constructs a Sweeper that runs every interval.
func NewSweeper(store ExpiryStore, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, log: log}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
// Intended to be started as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.store.DeleteOlderThan(ctx, CacheMaxAge)
	if err != nil {
		s.log.WarnContext(ctx, "route cache sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.InfoContext(ctx, "route cache sweep", "deleted", deleted)
	}
}
