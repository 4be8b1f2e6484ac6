package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/tripfolio/backend/internal/domain"
)

// timedActivities filters to activities with both timestamps set and AllDay
// false, sorted ascending by start time (id breaks ties so repeated runs over
// unchanged data order identically).
func timedActivities(activities []domain.Activity) []domain.Activity {
	timed := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.IsTimed() {
			timed = append(timed, a)
		}
	}
	sort.Slice(timed, func(i, j int) bool {
		if timed[i].StartAt.Equal(*timed[j].StartAt) {
			return timed[i].ID < timed[j].ID
		}
		return timed[i].StartAt.Before(*timed[j].StartAt)
	})
	return timed
}

// DetectTimelineConflicts walks timed activities in start order and emits one
// conflict per overlapping adjacent pair.
//
// Only adjacent pairs in the sort order are compared. Three mutually
// overlapping activities can therefore under-report a pair when a later
// activity's interval fully contains an earlier non-adjacent one. Persisted
// dismissals are keyed against exactly these pairs, so the comparison order
// must not change.
func DetectTimelineConflicts(activities []domain.Activity, dismissed DismissalSet) []domain.ValidationIssue {
	timed := timedActivities(activities)

	var issues []domain.ValidationIssue
	for i := 0; i+1 < len(timed); i++ {
		cur, next := timed[i], timed[i+1]
		if !cur.EndAt.After(*next.StartAt) {
			continue
		}
		issues = append(issues, dismissed.resolve(domain.ValidationIssue{
			Category:    domain.CategorySchedule,
			Type:        domain.IssueTimelineConflict,
			Key:         domain.PairKey(cur.ID, next.ID),
			Message:     fmt.Sprintf("%q overlaps with %q", cur.Name, next.Name),
			AffectedIDs: []int64{cur.ID, next.ID},
			Suggestion:  "Adjust the start or end time of one of the activities.",
			QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Edit activity"},
		}))
	}
	return issues
}

// DetectInvalidDates flags activities scheduled strictly outside the trip's
// [start, end] date range. No-op when the trip has no date range.
func DetectInvalidDates(trip domain.Trip, dismissed DismissalSet) []domain.ValidationIssue {
	if !trip.HasDateRange() {
		return nil
	}
	start := dateOnly(*trip.StartDate)
	end := dateOnly(*trip.EndDate)

	var issues []domain.ValidationIssue
	for _, a := range trip.Activities {
		if a.StartAt == nil {
			continue
		}
		day := dateOnly(*a.StartAt)
		if !day.Before(start) && !day.After(end) {
			continue
		}
		issues = append(issues, dismissed.resolve(domain.ValidationIssue{
			Category:    domain.CategorySchedule,
			Type:        domain.IssueInvalidDate,
			Key:         fmt.Sprintf("activity:%d", a.ID),
			Message:     fmt.Sprintf("%q is scheduled on %s, outside the trip dates", a.Name, day.Format("2006-01-02")),
			AffectedIDs: []int64{a.ID},
			Suggestion:  "Move the activity inside the trip dates or extend the trip.",
			QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Edit activity"},
		}))
	}
	return issues
}

// dateOnly truncates a timestamp to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
