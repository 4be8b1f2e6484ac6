package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/repo"
)

var (
	amboise = domain.Coordinates{Lat: 47.4136, Lon: 0.9846}
	tours   = domain.Coordinates{Lat: 47.3941, Lon: 0.6848}
)

func cacheEntry() domain.RouteCacheEntry {
	return domain.RouteCacheEntry{
		From:        amboise,
		To:          tours,
		Profile:     domain.ProfileDriving,
		DistanceKm:  27.4,
		DurationMin: 24.0,
		Geometry:    "encoded-polyline",
	}
}

func TestRouteCacheRepo_InsertAndFindNear(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))

	got, err := r.FindNear(ctx, amboise, tours, domain.ProfileDriving, 0.001, 30*24*time.Hour)

	require.NoError(t, err)
	assert.InDelta(t, 27.4, got.DistanceKm, 1e-9)
	assert.InDelta(t, 24.0, got.DurationMin, 1e-9)
	assert.Equal(t, "encoded-polyline", got.Geometry)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

// A lookup within the coordinate tolerance must hit even when the points do
// not match exactly.
func TestRouteCacheRepo_FindNear_WithinTolerance(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))

	nearFrom := domain.Coordinates{Lat: amboise.Lat + 0.0005, Lon: amboise.Lon - 0.0005}
	got, err := r.FindNear(ctx, nearFrom, tours, domain.ProfileDriving, 0.001, 30*24*time.Hour)

	require.NoError(t, err)
	assert.InDelta(t, 27.4, got.DistanceKm, 1e-9)
}

func TestRouteCacheRepo_FindNear_OutsideTolerance(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))

	farFrom := domain.Coordinates{Lat: amboise.Lat + 0.01, Lon: amboise.Lon}
	_, err := r.FindNear(ctx, farFrom, tours, domain.ProfileDriving, 0.001, 30*24*time.Hour)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Entries for one travel profile must never answer a lookup for another.
func TestRouteCacheRepo_FindNear_ProfileMismatch(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))

	_, err := r.FindNear(ctx, amboise, tours, domain.ProfileWalking, 0.001, 30*24*time.Hour)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteCacheRepo_FindNear_ExpiredEntry(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))

	// Backdate the row past the age window.
	_, err := tx.Exec(ctx, `UPDATE route_cache SET created_at = now() - interval '40 days'`)
	require.NoError(t, err)

	_, err = r.FindNear(ctx, amboise, tours, domain.ProfileDriving, 0.001, 30*24*time.Hour)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteCacheRepo_DeleteOlderThan(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	r := repo.NewRouteCacheRepo(tx)

	require.NoError(t, r.Insert(ctx, cacheEntry()))
	require.NoError(t, r.Insert(ctx, cacheEntry()))

	// Backdate one of the two rows.
	_, err := tx.Exec(ctx, `
		UPDATE route_cache SET created_at = now() - interval '40 days'
		WHERE id = (SELECT id FROM route_cache LIMIT 1)`)
	require.NoError(t, err)

	deleted, err := r.DeleteOlderThan(ctx, 30*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM route_cache`).Scan(&remaining)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}
