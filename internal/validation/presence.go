package validation

import "github.com/tripfolio/backend/internal/domain"

// DetectMissingTransportation emits a single whole-trip issue when the trip
// spans more than one distinct location but has no transportation recorded.
// The check is a yes/no signal, so it carries a fixed key rather than a
// per-pair one.
func DetectMissingTransportation(trip domain.Trip, dismissed DismissalSet) []domain.ValidationIssue {
	if len(trip.Transportations) > 0 {
		return nil
	}

	distinct := make(map[int64]struct{}, len(trip.Locations))
	for _, l := range trip.Locations {
		distinct[l.ID] = struct{}{}
	}
	if len(distinct) <= 1 {
		return nil
	}

	return []domain.ValidationIssue{dismissed.resolve(domain.ValidationIssue{
		Category:    domain.CategoryTransportation,
		Type:        domain.IssueNoTransportation,
		Key:         domain.KeyNoTransportation,
		Message:     "The trip visits multiple locations but has no transportation planned",
		Suggestion:  "Add flights, trains, or driving legs between your locations.",
		QuickAction: &domain.QuickAction{Action: "add_transportation", Label: "Add transportation"},
	})}
}
