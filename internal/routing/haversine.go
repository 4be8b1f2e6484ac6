// Package routing resolves point-to-point travel estimates. Resolution is
// layered: a persisted cache with approximate-match lookup, an external
// routing service, and a closed-form great-circle fallback that can never
// fail. Callers always get an estimate; only its Source differs.
package routing

import (
	"math"

	"github.com/tripfolio/backend/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(from, to domain.Coordinates) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLon := (to.Lon - from.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// estimateDurationMin converts a distance to minutes of travel at the
// profile's average speed.
func estimateDurationMin(distanceKm float64, profile domain.TravelProfile) float64 {
	return distanceKm / profile.AverageSpeedKmh() * 60
}
