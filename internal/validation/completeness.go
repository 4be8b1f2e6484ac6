package validation

import (
	"fmt"

	"github.com/tripfolio/backend/internal/domain"
)

// DetectMissingLocations emits at most one aggregate issue listing every
// activity with no linked location. links is the injected activityID →
// locationID lookup from the link table.
func DetectMissingLocations(activities []domain.Activity, links map[int64]int64, dismissed DismissalSet) []domain.ValidationIssue {
	var affected []int64
	for _, a := range activities {
		if _, ok := links[a.ID]; !ok {
			affected = append(affected, a.ID)
		}
	}
	if len(affected) == 0 {
		return nil
	}

	return []domain.ValidationIssue{dismissed.resolve(domain.ValidationIssue{
		Category:    domain.CategoryCompleteness,
		Type:        domain.IssueMissingLocation,
		Key:         domain.KeyMissingLocation,
		Message:     fmt.Sprintf("%d activities have no location", len(affected)),
		AffectedIDs: affected,
		Suggestion:  "Link each activity to a location so travel times can be checked.",
		QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Set locations"},
	})}
}

// DetectMissingTimes emits at most one aggregate issue listing every activity
// that has neither a start time nor the all-day flag.
func DetectMissingTimes(activities []domain.Activity, dismissed DismissalSet) []domain.ValidationIssue {
	var affected []int64
	for _, a := range activities {
		if a.StartAt == nil && !a.AllDay {
			affected = append(affected, a.ID)
		}
	}
	if len(affected) == 0 {
		return nil
	}

	return []domain.ValidationIssue{dismissed.resolve(domain.ValidationIssue{
		Category:    domain.CategoryCompleteness,
		Type:        domain.IssueMissingTime,
		Key:         domain.KeyMissingTime,
		Message:     fmt.Sprintf("%d activities are not scheduled", len(affected)),
		AffectedIDs: affected,
		Suggestion:  "Give each activity a start time or mark it as all-day.",
		QuickAction: &domain.QuickAction{Action: "edit_activity", Label: "Schedule activities"},
	})}
}

// DetectEmptyDays emits one aggregate issue listing every trip calendar day
// with no activity scheduled on it. Unlike lodging gaps this is deliberately
// a single issue: dismissing it means "some empty days are fine", and the
// list of days may grow or shrink without changing that acknowledgment.
func DetectEmptyDays(trip domain.Trip, dismissed DismissalSet) []domain.ValidationIssue {
	if !trip.HasDateRange() {
		return nil
	}

	scheduled := make(map[string]struct{})
	for _, a := range trip.Activities {
		if a.StartAt == nil {
			continue
		}
		scheduled[dateOnly(*a.StartAt).Format("2006-01-02")] = struct{}{}
	}

	var empty []string
	end := dateOnly(*trip.EndDate)
	for day := dateOnly(*trip.StartDate); !day.After(end); day = day.AddDate(0, 0, 1) {
		iso := day.Format("2006-01-02")
		if _, ok := scheduled[iso]; !ok {
			empty = append(empty, iso)
		}
	}
	if len(empty) == 0 {
		return nil
	}

	return []domain.ValidationIssue{dismissed.resolve(domain.ValidationIssue{
		Category:      domain.CategoryCompleteness,
		Type:          domain.IssueEmptyDays,
		Key:           domain.KeyEmptyDays,
		Message:       fmt.Sprintf("%d days have nothing planned", len(empty)),
		AffectedDates: empty,
		Suggestion:    "Plan something for these days, or dismiss if rest days are intended.",
		QuickAction:   &domain.QuickAction{Action: "add_activity", Label: "Add activity"},
	})}
}
