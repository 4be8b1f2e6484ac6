// Package validation implements the itinerary defect detectors and the
// travel-feasibility analyzer. Everything here is pure computation over an
// already-loaded trip graph; no detector touches the database. The only
// component that performs I/O is the TravelAnalyzer, through its injected
// RouteResolver.
package validation

import "github.com/tripfolio/backend/internal/domain"

// CheckPlan says which detector groups run for a given trip. It is the
// status-gating table expressed as a plain struct of flags rather than
// dispatch: callers test the flags, nothing else.
type CheckPlan struct {
	ScheduleConflicts bool
	ScheduleDates     bool
	TravelFeasibility bool
	Accommodations    bool
	Transportation    bool
	Completeness      bool
}

// PlanForStatus maps a trip lifecycle status to its check plan.
// Dream trips get only the date-sanity partial of the schedule group;
// cancelled trips get nothing; statuses this version does not recognize fail
// open to full validation so a new status never silently disables checks.
func PlanForStatus(status domain.TripStatus) CheckPlan {
	switch status {
	case domain.StatusDream:
		return CheckPlan{ScheduleDates: true}
	case domain.StatusPlanning:
		return CheckPlan{ScheduleConflicts: true, ScheduleDates: true, TravelFeasibility: true}
	case domain.StatusCancelled:
		return CheckPlan{}
	case domain.StatusPlanned, domain.StatusInProgress, domain.StatusCompleted:
		return fullPlan()
	default:
		return fullPlan()
	}
}

func fullPlan() CheckPlan {
	return CheckPlan{
		ScheduleConflicts: true,
		ScheduleDates:     true,
		TravelFeasibility: true,
		Accommodations:    true,
		Transportation:    true,
		Completeness:      true,
	}
}

// DismissalSet is the in-memory overlay of persisted dismissals for one
// validation run, keyed by issue identity ("type:key").
type DismissalSet map[string]struct{}

// NewDismissalSet builds the overlay from the trip's persisted dismissal rows.
func NewDismissalSet(dismissals []domain.DismissedIssue) DismissalSet {
	set := make(DismissalSet, len(dismissals))
	for _, d := range dismissals {
		set[d.Identity()] = struct{}{}
	}
	return set
}

// Has reports whether the given issue identity has been dismissed.
func (s DismissalSet) Has(identity string) bool {
	_, ok := s[identity]
	return ok
}

// resolve stamps the issue's dismissed flag from the overlay.
func (s DismissalSet) resolve(issue domain.ValidationIssue) domain.ValidationIssue {
	issue.Dismissed = s.Has(issue.Identity())
	return issue
}
