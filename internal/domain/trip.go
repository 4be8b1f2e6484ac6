// Package domain contains the core data types for the Tripfolio validation
// engine. It depends on nothing internal and is imported by every other
// internal package (repo, routing, validation, service, handler).
package domain

import "time"

// TripStatus is the lifecycle state of a trip. The status decides which
// validation check groups run (see validation.PlanForStatus).
type TripStatus string

const (
	StatusDream      TripStatus = "dream"
	StatusPlanning   TripStatus = "planning"
	StatusPlanned    TripStatus = "planned"
	StatusInProgress TripStatus = "in_progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// Trip is the top-level aggregate handed to the validation engine. The
// persistence layer loads it with all nested collections in one call; the
// engine itself never fetches anything.
type Trip struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Status    TripStatus `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"` // nil while the trip is still a dream
	EndDate   *time.Time `json:"end_date,omitempty"`

	Activities      []Activity       `json:"activities,omitempty"`
	Lodgings        []Lodging        `json:"lodgings,omitempty"`
	Transportations []Transportation `json:"transportations,omitempty"`
	Locations       []Location       `json:"locations,omitempty"`
	Dismissals      []DismissedIssue `json:"-"`
}

// HasDateRange reports whether both trip dates are set. Detectors that walk
// the trip's calendar days are no-ops without a date range.
func (t Trip) HasDateRange() bool {
	return t.StartDate != nil && t.EndDate != nil
}

// Activity is a scheduled (or not yet scheduled) event on a trip. Activities
// with both timestamps set and AllDay false participate in overlap and travel
// feasibility checks. The link to a Location lives in a separate link table
// and is injected as a lookup, not carried on the struct.
type Activity struct {
	ID      int64      `json:"id"`
	TripID  int64      `json:"trip_id"`
	Name    string     `json:"name"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
	AllDay  bool       `json:"all_day"`
}

// IsTimed reports whether the activity has a concrete start/end window.
func (a Activity) IsTimed() bool {
	return a.StartAt != nil && a.EndAt != nil && !a.AllDay
}

// Lodging covers the half-open date interval [CheckIn, CheckOut). Both
// timestamps are non-null by construction.
type Lodging struct {
	ID       int64     `json:"id"`
	TripID   int64     `json:"trip_id"`
	Name     string    `json:"name"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Transportation only matters to the engine as a presence signal for the
// missing-transportation check.
type Transportation struct {
	ID     int64 `json:"id"`
	TripID int64 `json:"trip_id"`
}

// Location is a named place. Coordinates are optional; a location without
// them cannot participate in distance computation.
type Location struct {
	ID     int64    `json:"id"`
	TripID int64    `json:"trip_id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

// Coords returns the location's coordinates and whether both are present.
func (l Location) Coords() (Coordinates, bool) {
	if l.Lat == nil || l.Lon == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *l.Lat, Lon: *l.Lon}, true
}
