package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IssueCategory groups validation issues for the report returned to the
// frontend.
type IssueCategory string

const (
	CategorySchedule       IssueCategory = "schedule"
	CategoryAccommodations IssueCategory = "accommodations"
	CategoryTransportation IssueCategory = "transportation"
	CategoryCompleteness   IssueCategory = "completeness"
)

// Issue type tags. Together with the issue key they form the stable identity
// that correlates a freshly computed issue with a persisted dismissal.
const (
	IssueTimelineConflict = "timeline_conflict"
	IssueTravelTime       = "travel_time"
	IssueInvalidDate      = "invalid_date"
	IssueLodgingGap       = "lodging_gap"
	IssueNoTransportation = "no_transportation"
	IssueMissingLocation  = "missing_location"
	IssueMissingTime      = "missing_time"
	IssueEmptyDays        = "empty_days"
)

// Fixed keys for the aggregate (whole-trip) issue types. Per-entity issue
// types derive their key from entity ids or dates instead.
const (
	KeyNoTransportation = "no_transportation"
	KeyMissingLocation  = "missing_location"
	KeyMissingTime      = "missing_time"
	KeyEmptyDays        = "empty_days"
)

// QuickAction is a machine-readable hint the frontend can turn into a
// one-click fix (e.g. jump to the activity editor).
type QuickAction struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

// ValidationIssue is a single defect found by a detector. Issues are
// transient: they are recomputed on every validation run and never persisted.
// Only their dismissal state survives across runs, keyed by Identity.
type ValidationIssue struct {
	Category      IssueCategory `json:"category"`
	Type          string        `json:"type"`
	Key           string        `json:"key"`
	Message       string        `json:"message"`
	AffectedIDs   []int64       `json:"affected_ids,omitempty"`
	AffectedDates []string      `json:"affected_dates,omitempty"`
	Suggestion    string        `json:"suggestion,omitempty"`
	QuickAction   *QuickAction  `json:"quick_action,omitempty"`
	Dismissed     bool          `json:"dismissed"`
}

// Identity is the deterministic "type:key" string used to match the issue
// against dismissal records. It must not change between runs of unchanged
// data, or dismissals silently stop applying.
func (i ValidationIssue) Identity() string {
	return i.Type + ":" + i.Key
}

// PairKey builds the issue key for a pair of entity ids, ordered ascending so
// the key is identical no matter which entity the detector visited first.
func PairKey(a, b int64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// DismissedIssue is the persisted acknowledgment of a validation issue.
// One row per (trip, issue type, issue key); it outlives any number of
// validation runs until explicitly restored.
type DismissedIssue struct {
	ID          uuid.UUID     `json:"id"`
	TripID      int64         `json:"trip_id"`
	IssueType   string        `json:"issue_type"`
	IssueKey    string        `json:"issue_key"`
	Category    IssueCategory `json:"category"`
	DismissedAt time.Time     `json:"dismissed_at"`
}

// Identity mirrors ValidationIssue.Identity for overlay lookups.
func (d DismissedIssue) Identity() string {
	return d.IssueType + ":" + d.IssueKey
}

// Report status values.
const (
	ReportOkay            = "okay"
	ReportPotentialIssues = "potential_issues"
)

// QuickStatus is the thin summary of a validation run used for badge-style UI.
type QuickStatus struct {
	Status       string `json:"status"`
	ActiveIssues int    `json:"active_issues"`
}

// ValidationReport is the categorized outcome of one validation run.
type ValidationReport struct {
	TripID          int64                               `json:"trip_id"`
	Status          string                              `json:"status"`
	Categories      map[IssueCategory][]ValidationIssue `json:"issues_by_category"`
	TotalIssues     int                                 `json:"total_issues"`
	ActiveIssues    int                                 `json:"active_issues"`
	DismissedIssues int                                 `json:"dismissed_issues"`
}
