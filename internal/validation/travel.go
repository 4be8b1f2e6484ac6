package validation

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tripfolio/backend/internal/domain"
)

// TightBuffer is the minimum slack beyond the estimated travel time before a
// transition stops being flagged as tight.
const TightBuffer = 30 // minutes

// RouteResolver estimates travel between two points. The concrete resolver
// lives in the routing package; the analyzer only needs this one method, so
// tests substitute a fake.
type RouteResolver interface {
	Estimate(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile) (domain.RouteEstimate, error)
}

// TravelAnalyzer checks whether the gaps between consecutive located
// activities leave enough time to actually travel between them.
type TravelAnalyzer struct {
	resolver RouteResolver
}

// NewTravelAnalyzer constructs a TravelAnalyzer backed by the given resolver.
func NewTravelAnalyzer(resolver RouteResolver) *TravelAnalyzer {
	return &TravelAnalyzer{resolver: resolver}
}

// Analyze resolves travel time for each consecutive pair of timed, located
// activities and emits an issue when the schedule gap is impossible or tight.
// coords maps activity id to the coordinates of its linked location; timed
// activities without an entry are skipped entirely.
//
// Pairs are independent, so their route lookups run concurrently. Each alert
// is written to the slot of its pair index — correspondence is positional,
// never by activity name, because duplicate names are legal.
func (t *TravelAnalyzer) Analyze(ctx context.Context, activities []domain.Activity, coords map[int64]domain.Coordinates, dismissed DismissalSet) ([]domain.ValidationIssue, error) {
	located := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if !a.IsTimed() {
			continue
		}
		if _, ok := coords[a.ID]; !ok {
			continue
		}
		located = append(located, a)
	}
	if len(located) < 2 {
		return nil, nil
	}
	sort.Slice(located, func(i, j int) bool {
		if located[i].StartAt.Equal(*located[j].StartAt) {
			return located[i].ID < located[j].ID
		}
		return located[i].StartAt.Before(*located[j].StartAt)
	})

	slots := make([]*domain.ValidationIssue, len(located)-1)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i+1 < len(located); i++ {
		cur, next := located[i], located[i+1]
		slot := &slots[i]
		g.Go(func() error {
			est, err := t.resolver.Estimate(gctx, coords[cur.ID], coords[next.ID], domain.ProfileDriving)
			if err != nil {
				return fmt.Errorf("validation.TravelAnalyzer.Analyze: %w", err)
			}
			*slot = t.checkPair(cur, next, est)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var issues []domain.ValidationIssue
	for _, slot := range slots {
		if slot != nil {
			issues = append(issues, dismissed.resolve(*slot))
		}
	}
	return issues, nil
}

// checkPair compares the schedule gap between two activities against the
// estimated travel time. Returns nil when the transition is comfortable.
func (t *TravelAnalyzer) checkPair(cur, next domain.Activity, est domain.RouteEstimate) *domain.ValidationIssue {
	gapMin := next.StartAt.Sub(*cur.EndAt).Minutes()
	requiredMin := est.DurationMin

	switch {
	case gapMin < requiredMin:
		return &domain.ValidationIssue{
			Category: domain.CategorySchedule,
			Type:     domain.IssueTravelTime,
			Key:      domain.PairKey(cur.ID, next.ID),
			Message: fmt.Sprintf("Not enough time to get from %q to %q: about %.0f minutes of travel needed",
				cur.Name, next.Name, requiredMin),
			AffectedIDs: []int64{cur.ID, next.ID},
			Suggestion:  "Reschedule one of the activities to allow for travel time.",
			QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Adjust schedule"},
		}
	case gapMin > 0 && gapMin < requiredMin+TightBuffer:
		return &domain.ValidationIssue{
			Category: domain.CategorySchedule,
			Type:     domain.IssueTravelTime,
			Key:      domain.PairKey(cur.ID, next.ID),
			Message: fmt.Sprintf("Tight connection from %q to %q: only %.0f minutes of buffer after travel",
				cur.Name, next.Name, gapMin-requiredMin),
			AffectedIDs: []int64{cur.ID, next.ID},
			Suggestion:  "Leave at least 30 minutes of slack between located activities.",
			QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Adjust schedule"},
		}
	default:
		return nil
	}
}
