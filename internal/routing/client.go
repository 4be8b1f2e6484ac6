package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tripfolio/backend/internal/domain"
)

// defaultBaseURL is the OpenRouteService public API endpoint.
const defaultBaseURL = "https://api.openrouteservice.org"

// Route is a single resolved route from the external service.
type Route struct {
	DistanceKm  float64
	DurationMin float64
	Geometry    string
}

// Client is the external routing capability. The resolver depends on this
// interface so its cache and fallback logic is testable without network
// access.
type Client interface {
	// Directions returns the best route between two points for the given
	// travel profile. Any failure (auth, rate limit, timeout, malformed
	// response) is returned as an error; the caller decides how to degrade.
	Directions(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile) (Route, error)
}

// ORSClient calls the OpenRouteService directions API.
type ORSClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewORSClient constructs a client authenticated with apiKey. baseURL may be
// empty to use the public endpoint; tests point it at an httptest server.
// The timeout bounds each directions call; exceeding it surfaces as an error,
// which the resolver treats as a fallback trigger, not a request failure.
func NewORSClient(apiKey, baseURL string, timeout time.Duration) *ORSClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ORSClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// orsProfile maps a travel profile to its OpenRouteService path segment.
func orsProfile(p domain.TravelProfile) string {
	switch p {
	case domain.ProfileCycling:
		return "cycling-regular"
	case domain.ProfileWalking:
		return "foot-walking"
	default:
		return "driving-car"
	}
}

// orsResponse is the subset of the directions response the engine uses.
// Summary distance is meters, duration is seconds.
type orsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Directions implements Client against the OpenRouteService HTTP API.
func (c *ORSClient) Directions(ctx context.Context, from, to domain.Coordinates, profile domain.TravelProfile) (Route, error) {
	body, err := json.Marshal(map[string]any{
		// ORS expects [lon, lat] ordering.
		"coordinates": [][]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
	})
	if err != nil {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, orsProfile(profile))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: unexpected status %s", resp.Status)
	}

	var parsed orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: decode: %w", err)
	}
	if len(parsed.Routes) == 0 {
		return Route{}, fmt.Errorf("routing.ORSClient.Directions: no routes in response")
	}

	r := parsed.Routes[0]
	return Route{
		DistanceKm:  r.Summary.Distance / 1000,
		DurationMin: r.Summary.Duration / 60,
		Geometry:    r.Geometry,
	}, nil
}
