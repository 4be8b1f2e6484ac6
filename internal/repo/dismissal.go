package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripfolio/backend/internal/domain"
)

// DismissalRepo persists issue dismissals. Rows are keyed by
// (trip_id, issue_type, issue_key) and survive across validation runs until
// explicitly restored.
type DismissalRepo interface {
	// Upsert creates the dismissal or, if it already exists, refreshes its
	// timestamp and category. The conditional upsert is a single statement,
	// so a double-clicked dismiss cannot lose an update.
	Upsert(ctx context.Context, d domain.DismissedIssue) (domain.DismissedIssue, error)

	// Delete removes the dismissal. Deleting a dismissal that does not exist
	// is a successful no-op — restore is idempotent.
	Delete(ctx context.Context, tripID int64, issueType, issueKey string) error
}

// pgDismissalRepo is the Postgres implementation of DismissalRepo.
type pgDismissalRepo struct {
	db db
}

// NewDismissalRepo constructs a DismissalRepo backed by the provided db connection.
func NewDismissalRepo(db db) DismissalRepo {
	return &pgDismissalRepo{db: db}
}

func (r *pgDismissalRepo) Upsert(ctx context.Context, d domain.DismissedIssue) (domain.DismissedIssue, error) {
	const q = `
		INSERT INTO dismissed_validation_issues (trip_id, issue_type, issue_key, category)
		VALUES (@trip_id, @issue_type, @issue_key, @category)
		ON CONFLICT (trip_id, issue_type, issue_key)
		DO UPDATE SET category = EXCLUDED.category, dismissed_at = now()
		RETURNING id, trip_id, issue_type, issue_key, category, dismissed_at`

	args := pgx.NamedArgs{
		"trip_id":    d.TripID,
		"issue_type": d.IssueType,
		"issue_key":  d.IssueKey,
		"category":   d.Category,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDismissal(row)
	if err != nil {
		return domain.DismissedIssue{}, fmt.Errorf("repo.DismissalRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgDismissalRepo) Delete(ctx context.Context, tripID int64, issueType, issueKey string) error {
	const q = `
		DELETE FROM dismissed_validation_issues
		WHERE trip_id = @trip_id AND issue_type = @issue_type AND issue_key = @issue_key`

	args := pgx.NamedArgs{"trip_id": tripID, "issue_type": issueType, "issue_key": issueKey}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.DismissalRepo.Delete: %w", err)
	}
	return nil
}

// scanDismissal maps a single database row into a domain.DismissedIssue.
func scanDismissal(s scanner) (domain.DismissedIssue, error) {
	var (
		d  domain.DismissedIssue
		id pgtype.UUID
	)

	err := s.Scan(&id, &d.TripID, &d.IssueType, &d.IssueKey, &d.Category, &d.DismissedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DismissedIssue{}, domain.ErrNotFound
		}
		return domain.DismissedIssue{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
