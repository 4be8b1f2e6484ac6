package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripfolio/backend/internal/domain"
)

// RouteCacheRepo stores resolved routes. It satisfies routing.CacheStore and
// routing.ExpiryStore. The table is append-only: rows are inserted once,
// found by an approximate-match range scan, and deleted only by age. Two
// concurrent writers may insert near-duplicate rows; that costs a duplicate
// row, not correctness, so there is no locking.
type RouteCacheRepo interface {
	FindNear(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile, tolerance float64, maxAge time.Duration) (domain.RouteCacheEntry, error)
	Insert(ctx context.Context, entry domain.RouteCacheEntry) error
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// pgRouteCacheRepo is the Postgres implementation of RouteCacheRepo.
type pgRouteCacheRepo struct {
	db db
}

// NewRouteCacheRepo constructs a RouteCacheRepo backed by the provided db connection.
func NewRouteCacheRepo(db db) RouteCacheRepo {
	return &pgRouteCacheRepo{db: db}
}

// FindNear runs the tolerance range scan: both endpoints must fall within
// tolerance degrees of the requested points, same profile, within maxAge.
// Newest entry wins. Returns domain.ErrNotFound on a miss.
func (r *pgRouteCacheRepo) FindNear(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile, tolerance float64, maxAge time.Duration) (domain.RouteCacheEntry, error) {
	const q = `
		SELECT id, from_lat, from_lon, to_lat, to_lon, profile, distance_km, duration_min, geometry, created_at
		FROM route_cache
		WHERE profile = @profile
		  AND from_lat BETWEEN @from_lat - @tol AND @from_lat + @tol
		  AND from_lon BETWEEN @from_lon - @tol AND @from_lon + @tol
		  AND to_lat   BETWEEN @to_lat   - @tol AND @to_lat   + @tol
		  AND to_lon   BETWEEN @to_lon   - @tol AND @to_lon   + @tol
		  AND created_at > now() - make_interval(secs => @max_age_secs)
		ORDER BY created_at DESC
		LIMIT 1`

	args := pgx.NamedArgs{
		"profile":  profile,
		"from_lat": from.Lat,
		"from_lon": from.Lon,
		"to_lat":   to.Lat,
		"to_lon":   to.Lon,
		"tol":      tolerance,

		// pgx has no built-in time.Duration encoding for intervals, so the
		// age window travels as seconds and make_interval rebuilds it.
		"max_age_secs": maxAge.Seconds(),
	}

	row := r.db.QueryRow(ctx, q, args)
	entry, err := scanRouteCacheEntry(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RouteCacheEntry{}, domain.ErrNotFound
		}
		return domain.RouteCacheEntry{}, fmt.Errorf("repo.RouteCacheRepo.FindNear: %w", err)
	}
	return entry, nil
}

func (r *pgRouteCacheRepo) Insert(ctx context.Context, entry domain.RouteCacheEntry) error {
	const q = `
		INSERT INTO route_cache (from_lat, from_lon, to_lat, to_lon, profile, distance_km, duration_min, geometry)
		VALUES (@from_lat, @from_lon, @to_lat, @to_lon, @profile, @distance_km, @duration_min, @geometry)`

	args := pgx.NamedArgs{
		"from_lat":     entry.From.Lat,
		"from_lon":     entry.From.Lon,
		"to_lat":       entry.To.Lat,
		"to_lon":       entry.To.Lon,
		"profile":      entry.Profile,
		"distance_km":  entry.DistanceKm,
		"duration_min": entry.DurationMin,
		"geometry":     entry.Geometry,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.RouteCacheRepo.Insert: %w", err)
	}
	return nil
}

func (r *pgRouteCacheRepo) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	const q = `DELETE FROM route_cache WHERE created_at < now() - make_interval(secs => @age_secs)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"age_secs": age.Seconds()})
	if err != nil {
		return 0, fmt.Errorf("repo.RouteCacheRepo.DeleteOlderThan: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanRouteCacheEntry maps a single database row into a domain.RouteCacheEntry.
func scanRouteCacheEntry(s scanner) (domain.RouteCacheEntry, error) {
	var (
		e  domain.RouteCacheEntry
		id pgtype.UUID
	)

	err := s.Scan(&id, &e.From.Lat, &e.From.Lon, &e.To.Lat, &e.To.Lon,
		&e.Profile, &e.DistanceKm, &e.DurationMin, &e.Geometry, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RouteCacheEntry{}, domain.ErrNotFound
		}
		return domain.RouteCacheEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	return e, nil
}
