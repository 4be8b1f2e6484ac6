package validation

import (
	"fmt"

	"github.com/tripfolio/backend/internal/domain"
)

// DetectLodgingGaps emits one issue per trip calendar day not covered by any
// lodging interval. Coverage is computed at date granularity: a lodging
// covers the half-open day range [check-in day, check-out day), so the
// check-out day itself needs its own lodging (or a dismissal).
//
// One issue per missing day, keyed by the ISO date, lets the user dismiss an
// individual expected gap (a night on a ferry, say) without suppressing
// detection of new gaps.
func DetectLodgingGaps(trip domain.Trip, dismissed DismissalSet) []domain.ValidationIssue {
	if !trip.HasDateRange() {
		return nil
	}

	covered := make(map[string]struct{})
	for _, l := range trip.Lodgings {
		end := dateOnly(l.CheckOut)
		for day := dateOnly(l.CheckIn); day.Before(end); day = day.AddDate(0, 0, 1) {
			covered[day.Format("2006-01-02")] = struct{}{}
		}
	}

	var issues []domain.ValidationIssue
	end := dateOnly(*trip.EndDate)
	for day := dateOnly(*trip.StartDate); !day.After(end); day = day.AddDate(0, 0, 1) {
		iso := day.Format("2006-01-02")
		if _, ok := covered[iso]; ok {
			continue
		}
		issues = append(issues, dismissed.resolve(domain.ValidationIssue{
			Category:      domain.CategoryAccommodations,
			Type:          domain.IssueLodgingGap,
			Key:           iso,
			Message:       fmt.Sprintf("No lodging booked for %s", iso),
			AffectedDates: []string{iso},
			Suggestion:    "Add lodging covering this night, or dismiss if none is needed.",
			QuickAction:   &domain.QuickAction{Action: "add_lodging", Label: "Add lodging"},
		}))
	}
	return issues
}
