package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ActivityLocationRepo resolves the external link table between activities
// and locations. Activities reference locations through this table rather
// than a foreign key, so the engine receives the mapping as an injected
// lookup.
type ActivityLocationRepo interface {
	// LinksForActivities returns activityID → locationID for every listed
	// activity that has a link. Activities without a link are simply absent
	// from the map.
	LinksForActivities(ctx context.Context, tripID int64, activityIDs []int64) (map[int64]int64, error)
}

// pgActivityLocationRepo is the Postgres implementation of ActivityLocationRepo.
type pgActivityLocationRepo struct {
	db db
}

// NewActivityLocationRepo constructs an ActivityLocationRepo backed by the
// provided db connection.
func NewActivityLocationRepo(db db) ActivityLocationRepo {
	return &pgActivityLocationRepo{db: db}
}

func (r *pgActivityLocationRepo) LinksForActivities(ctx context.Context, tripID int64, activityIDs []int64) (map[int64]int64, error) {
	if len(activityIDs) == 0 {
		return map[int64]int64{}, nil
	}

	// The trip_id predicate guards against stale links to activities that
	// have since moved to another trip.
	const q = `
		SELECT al.activity_id, al.location_id
		FROM activity_locations al
		JOIN activities a ON a.id = al.activity_id
		WHERE a.trip_id = @trip_id AND al.activity_id = ANY(@activity_ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "activity_ids": activityIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityLocationRepo.LinksForActivities: %w", err)
	}
	defer rows.Close()

	links := make(map[int64]int64)
	for rows.Next() {
		var activityID, locationID int64
		if err := rows.Scan(&activityID, &locationID); err != nil {
			return nil, fmt.Errorf("repo.ActivityLocationRepo.LinksForActivities: scan: %w", err)
		}
		links[activityID] = locationID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityLocationRepo.LinksForActivities: rows: %w", err)
	}

	return links, nil
}
