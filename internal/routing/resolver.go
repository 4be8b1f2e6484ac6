package routing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tripfolio/backend/internal/domain"
)

const (
	// CoordTolerance is the coordinate proximity window (degrees, ~100 m)
	// within which two points are treated as cache-equivalent.
	CoordTolerance = 0.001

	// CacheMaxAge is the retention window for cached routes. Reads ignore
	// older entries; the sweeper deletes them.
	CacheMaxAge = 30 * 24 * time.Hour
)

// CacheStore is the persistence capability the resolver needs. The Postgres
// implementation lives in the repo package.
type CacheStore interface {
	// FindNear returns the newest cached entry whose origin and destination
	// both fall within tolerance of the given points, for the same profile,
	// no older than maxAge. Returns domain.ErrNotFound on a miss.
	FindNear(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile, tolerance float64, maxAge time.Duration) (domain.RouteCacheEntry, error)

	// Insert persists a freshly resolved route. Entries are never updated.
	Insert(ctx context.Context, entry domain.RouteCacheEntry) error
}

// Resolver produces travel estimates, cheapest source first: cache, then the
// external service, then the haversine approximation. It never fails the
// calling request — every degradation path ends in an estimate.
type Resolver struct {
	cache  CacheStore
	client Client // nil when no routing credential is configured
	log    *slog.Logger
	now    func() time.Time
}

// NewResolver constructs a Resolver. client may be nil, which pins every
// resolution to haversine mode — a valid, expected state, not an error.
func NewResolver(cache CacheStore, client Client, log *slog.Logger) *Resolver {
	return &Resolver{cache: cache, client: client, log: log, now: time.Now}
}

// Estimate resolves distance and duration between two points. The returned
// estimate always carries the haversine distance for diagnostics, whatever
// its Source.
func (r *Resolver) Estimate(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile) (domain.RouteEstimate, error) {
	hav := HaversineKm(from, to)

	if entry, err := r.cache.FindNear(ctx, from, to, profile, CoordTolerance, CacheMaxAge); err == nil {
		return domain.RouteEstimate{
			DistanceKm:  entry.DistanceKm,
			DurationMin: entry.DurationMin,
			HaversineKm: hav,
			Source:      domain.SourceRoute,
			Geometry:    entry.Geometry,
		}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		// A broken cache read is just a miss.
		r.log.WarnContext(ctx, "route cache read failed", "error", err)
	}

	if r.client != nil && from != to {
		route, err := r.client.Directions(ctx, from, to, profile)
		if err != nil {
			r.log.WarnContext(ctx, "routing service failed, falling back to haversine", "error", err)
		} else {
			r.store(ctx, from, to, profile, route)
			return domain.RouteEstimate{
				DistanceKm:  route.DistanceKm,
				DurationMin: route.DurationMin,
				HaversineKm: hav,
				Source:      domain.SourceRoute,
				Geometry:    route.Geometry,
			}, nil
		}
	}

	return domain.RouteEstimate{
		DistanceKm:  hav,
		DurationMin: estimateDurationMin(hav, profile),
		HaversineKm: hav,
		Source:      domain.SourceHaversine,
	}, nil
}

// store persists a resolved route, best-effort. A cache-write failure must
// never fail the calling request; it only costs a future cache miss.
func (r *Resolver) store(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile, route Route) {
	entry := domain.RouteCacheEntry{
		From:        from,
		To:          to,
		Profile:     profile,
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		Geometry:    route.Geometry,
		CreatedAt:   r.now(),
	}
	if err := r.cache.Insert(ctx, entry); err != nil {
		r.log.WarnContext(ctx, "route cache write failed", "error", err)
	}
}
