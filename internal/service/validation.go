// Package service contains the business logic of the validation engine.
// The ValidationService orchestrates the detectors over a loaded trip graph;
// no SQL lives here — it depends on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/repo"
	"github.com/tripfolio/backend/internal/validation"
)

// ValidationService runs validation, and manages the dismissal overlay.
type ValidationService struct {
	trips      repo.TripRepo
	links      repo.ActivityLocationRepo
	dismissals repo.DismissalRepo
	analyzer   *validation.TravelAnalyzer
}

// NewValidationService constructs a ValidationService from its collaborators.
func NewValidationService(trips repo.TripRepo, links repo.ActivityLocationRepo, dismissals repo.DismissalRepo, analyzer *validation.TravelAnalyzer) *ValidationService {
	return &ValidationService{trips: trips, links: links, dismissals: dismissals, analyzer: analyzer}
}

// Validate loads the trip graph, runs the check groups selected by the
// trip's status, merges results with the dismissal overlay, and returns the
// categorized report. Detector groups read disjoint already-loaded data, so
// they run concurrently; only the travel analyzer performs I/O.
func (s *ValidationService) Validate(ctx context.Context, tripID, userID int64) (domain.ValidationReport, error) {
	trip, err := s.trips.GetWithRelations(ctx, tripID, userID)
	if err != nil {
		return domain.ValidationReport{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
	}

	plan := validation.PlanForStatus(trip.Status)
	dismissed := validation.NewDismissalSet(trip.Dismissals)

	var links map[int64]int64
	if plan.TravelFeasibility || plan.Completeness {
		ids := make([]int64, len(trip.Activities))
		for i, a := range trip.Activities {
			ids[i] = a.ID
		}
		links, err = s.links.LinksForActivities(ctx, tripID, ids)
		if err != nil {
			return domain.ValidationReport{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
		}
	}

	var schedule, accommodations, transportation, completeness []domain.ValidationIssue

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if plan.ScheduleConflicts {
			schedule = append(schedule, validation.DetectTimelineConflicts(trip.Activities, dismissed)...)
		}
		if plan.ScheduleDates {
			schedule = append(schedule, validation.DetectInvalidDates(trip, dismissed)...)
		}
		if plan.TravelFeasibility {
			alerts, err := s.analyzer.Analyze(gctx, trip.Activities, activityCoords(trip, links), dismissed)
			if err != nil {
				return err
			}
			schedule = append(schedule, alerts...)
		}
		return nil
	})
	g.Go(func() error {
		if plan.Accommodations {
			accommodations = validation.DetectLodgingGaps(trip, dismissed)
		}
		return nil
	})
	g.Go(func() error {
		if plan.Transportation {
			transportation = validation.DetectMissingTransportation(trip, dismissed)
		}
		return nil
	})
	g.Go(func() error {
		if plan.Completeness {
			completeness = append(completeness, validation.DetectMissingLocations(trip.Activities, links, dismissed)...)
			completeness = append(completeness, validation.DetectMissingTimes(trip.Activities, dismissed)...)
			completeness = append(completeness, validation.DetectEmptyDays(trip, dismissed)...)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ValidationReport{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
	}

	return buildReport(tripID, map[domain.IssueCategory][]domain.ValidationIssue{
		domain.CategorySchedule:       schedule,
		domain.CategoryAccommodations: accommodations,
		domain.CategoryTransportation: transportation,
		domain.CategoryCompleteness:   completeness,
	}), nil
}

// GetQuickStatus runs a full validation and reduces it to the badge summary.
func (s *ValidationService) GetQuickStatus(ctx context.Context, tripID, userID int64) (domain.QuickStatus, error) {
	report, err := s.Validate(ctx, tripID, userID)
	if err != nil {
		return domain.QuickStatus{}, err
	}
	return domain.QuickStatus{Status: report.Status, ActiveIssues: report.ActiveIssues}, nil
}

// DismissIssue marks an issue identity as acknowledged for a trip. Dismissing
// an already-dismissed issue refreshes its timestamp.
func (s *ValidationService) DismissIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string, category domain.IssueCategory) error {
	if err := s.authorize(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.ValidationService.DismissIssue: %w", err)
	}
	if strings.TrimSpace(issueType) == "" || strings.TrimSpace(issueKey) == "" {
		return fmt.Errorf("service.ValidationService.DismissIssue: %w: issue type and key are required", domain.ErrValidation)
	}

	_, err := s.dismissals.Upsert(ctx, domain.DismissedIssue{
		TripID:    tripID,
		IssueType: issueType,
		IssueKey:  issueKey,
		Category:  category,
	})
	if err != nil {
		return fmt.Errorf("service.ValidationService.DismissIssue: %w", err)
	}
	return nil
}

// RestoreIssue removes a dismissal. Restoring an issue that was never
// dismissed is a no-op.
func (s *ValidationService) RestoreIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string) error {
	if err := s.authorize(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.ValidationService.RestoreIssue: %w", err)
	}
	if strings.TrimSpace(issueType) == "" || strings.TrimSpace(issueKey) == "" {
		return fmt.Errorf("service.ValidationService.RestoreIssue: %w: issue type and key are required", domain.ErrValidation)
	}

	if err := s.dismissals.Delete(ctx, tripID, issueType, issueKey); err != nil {
		return fmt.Errorf("service.ValidationService.RestoreIssue: %w", err)
	}
	return nil
}

// authorize fails with ErrForbidden when the trip belongs to someone else,
// before any write happens.
func (s *ValidationService) authorize(ctx context.Context, tripID, userID int64) error {
	owner, err := s.trips.OwnerID(ctx, tripID)
	if err != nil {
		return err
	}
	if owner != userID {
		return domain.ErrForbidden
	}
	return nil
}

// activityCoords resolves each linked activity to its location's coordinates.
// Activities whose location has no coordinates are left out; the analyzer
// skips them.
func activityCoords(trip domain.Trip, links map[int64]int64) map[int64]domain.Coordinates {
	byID := make(map[int64]domain.Location, len(trip.Locations))
	for _, l := range trip.Locations {
		byID[l.ID] = l
	}

	coords := make(map[int64]domain.Coordinates, len(links))
	for activityID, locationID := range links {
		loc, ok := byID[locationID]
		if !ok {
			continue
		}
		if c, ok := loc.Coords(); ok {
			coords[activityID] = c
		}
	}
	return coords
}

// buildReport assembles counts and the overall status from per-category
// issue lists. Empty categories are dropped from the map so the JSON stays
// compact and byte-stable across runs.
func buildReport(tripID int64, byCategory map[domain.IssueCategory][]domain.ValidationIssue) domain.ValidationReport {
	report := domain.ValidationReport{
		TripID:     tripID,
		Categories: make(map[domain.IssueCategory][]domain.ValidationIssue),
	}

	for category, issues := range byCategory {
		if len(issues) == 0 {
			continue
		}
		report.Categories[category] = issues
		for _, issue := range issues {
			report.TotalIssues++
			if issue.Dismissed {
				report.DismissedIssues++
			} else {
				report.ActiveIssues++
			}
		}
	}

	report.Status = domain.ReportOkay
	if report.ActiveIssues > 0 {
		report.Status = domain.ReportPotentialIssues
	}
	return report
}
