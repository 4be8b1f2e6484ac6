package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripfolio/backend/internal/domain"
)

// TripRepo loads the full trip graph the validation engine runs over.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the orchestrator to be unit-tested with a mock.
type TripRepo interface {
	// GetWithRelations retrieves a trip with all nested collections the
	// engine needs (activities, lodgings, transportations, locations,
	// dismissal records) in one call.
	// Returns domain.ErrNotFound if the trip does not exist or is not owned
	// by userID — the two cases are indistinguishable to the caller.
	GetWithRelations(ctx context.Context, tripID, userID int64) (domain.Trip, error)

	// OwnerID returns the owning user of a trip, or domain.ErrNotFound if
	// the trip does not exist. Used by dismiss/restore, which must reject
	// foreign trips before any write.
	OwnerID(ctx context.Context, tripID int64) (int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// GetWithRelations loads the trip row and all its child collections. The
// collection queries are scoped by trip_id only; ownership was already
// checked by the trip query itself.
func (r *pgTripRepo) GetWithRelations(ctx context.Context, tripID, userID int64) (domain.Trip, error) {
	const q = `
		SELECT id, user_id, name, status, start_date, end_date
		FROM trips
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tripID, "user_id": userID})
	trip, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: %w", err)
	}

	if trip.Activities, err = r.activities(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: activities: %w", err)
	}
	if trip.Lodgings, err = r.lodgings(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: lodgings: %w", err)
	}
	if trip.Transportations, err = r.transportations(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: transportations: %w", err)
	}
	if trip.Locations, err = r.locations(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: locations: %w", err)
	}
	if trip.Dismissals, err = r.dismissals(ctx, tripID); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetWithRelations: dismissals: %w", err)
	}

	return trip, nil
}

// OwnerID fetches just the owning user id.
func (r *pgTripRepo) OwnerID(ctx context.Context, tripID int64) (int64, error) {
	const q = `SELECT user_id FROM trips WHERE id = @id`

	var userID int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tripID}).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("repo.TripRepo.OwnerID: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("repo.TripRepo.OwnerID: %w", err)
	}
	return userID, nil
}

func (r *pgTripRepo) activities(ctx context.Context, tripID int64) ([]domain.Activity, error) {
	const q = `
		SELECT id, trip_id, name, start_at, end_at, all_day
		FROM activities
		WHERE trip_id = @trip_id
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var (
			a       domain.Activity
			startAt pgtype.Timestamptz
			endAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&a.ID, &a.TripID, &a.Name, &startAt, &endAt, &a.AllDay); err != nil {
			return nil, err
		}
		if startAt.Valid {
			t := startAt.Time
			a.StartAt = &t
		}
		if endAt.Valid {
			t := endAt.Time
			a.EndAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *pgTripRepo) lodgings(ctx context.Context, tripID int64) ([]domain.Lodging, error) {
	const q = `
		SELECT id, trip_id, name, check_in, check_out
		FROM lodgings
		WHERE trip_id = @trip_id
		ORDER BY check_in`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lodging
	for rows.Next() {
		var l domain.Lodging
		if err := rows.Scan(&l.ID, &l.TripID, &l.Name, &l.CheckIn, &l.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *pgTripRepo) transportations(ctx context.Context, tripID int64) ([]domain.Transportation, error) {
	const q = `SELECT id, trip_id FROM transportations WHERE trip_id = @trip_id ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transportation
	for rows.Next() {
		var t domain.Transportation
		if err := rows.Scan(&t.ID, &t.TripID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *pgTripRepo) locations(ctx context.Context, tripID int64) ([]domain.Location, error) {
	const q = `
		SELECT id, trip_id, name, lat, lon
		FROM locations
		WHERE trip_id = @trip_id
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var (
			l   domain.Location
			lat pgtype.Float8
			lon pgtype.Float8
		)
		if err := rows.Scan(&l.ID, &l.TripID, &l.Name, &lat, &lon); err != nil {
			return nil, err
		}
		if lat.Valid {
			v := lat.Float64
			l.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			l.Lon = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *pgTripRepo) dismissals(ctx context.Context, tripID int64) ([]domain.DismissedIssue, error) {
	const q = `
		SELECT id, trip_id, issue_type, issue_key, category, dismissed_at
		FROM dismissed_validation_issues
		WHERE trip_id = @trip_id
		ORDER BY issue_type, issue_key`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DismissedIssue
	for rows.Next() {
		d, err := scanDismissal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the nullable start/end date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&t.ID, &t.UserID, &t.Name, &t.Status, &startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}

	return t, nil
}
