package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TravelProfile selects the mode of transport for route estimation.
type TravelProfile string

const (
	ProfileDriving TravelProfile = "driving"
	ProfileCycling TravelProfile = "cycling"
	ProfileWalking TravelProfile = "walking"
)

// AverageSpeedKmh returns the assumed cruising speed used when estimating
// duration from a straight-line distance. Unknown profiles fall back to
// driving speed.
func (p TravelProfile) AverageSpeedKmh() float64 {
	switch p {
	case ProfileCycling:
		return 20
	case ProfileWalking:
		return 5
	default:
		return 80
	}
}

// RouteSource says where a route estimate came from: a real routing result
// (external service or cache) or the great-circle approximation.
type RouteSource string

const (
	SourceRoute     RouteSource = "route"
	SourceHaversine RouteSource = "haversine"
)

// RouteEstimate is the outcome of one point-to-point route resolution.
// HaversineKm is always populated, even on a route hit, for diagnostics.
type RouteEstimate struct {
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	HaversineKm float64     `json:"haversine_km"`
	Source      RouteSource `json:"source"`
	Geometry    string      `json:"geometry,omitempty"`
}

// RouteCacheEntry is a persisted routing result. Entries are append-only:
// written once on a successful external resolution, read via an
// approximate-match query, and deleted by the expiry sweep after 30 days.
type RouteCacheEntry struct {
	ID          uuid.UUID     `json:"id"`
	From        Coordinates   `json:"from"`
	To          Coordinates   `json:"to"`
	Profile     TravelProfile `json:"profile"`
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Geometry    string        `json:"geometry,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
