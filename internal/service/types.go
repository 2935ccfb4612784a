package service

import (
	"github.com/ian8500/Plane-Spotter/internal/opensky"
)

const (
	// UnknownAirport is the sentinel the map UI renders for an unresolved
	// origin or destination.
	UnknownAirport = "—"

	// UnknownID is the sentinel for a state vector missing its ICAO24.
	UnknownID = "UNKNOWN"
)

// FlightState is one observed aircraft, rebuilt fresh on every request.
// Lat and Lon are always valid; every other field degrades to an explicit
// default so clients never branch on missing keys.
type FlightState struct {
	ID           string  `json:"id"`
	Callsign     string  `json:"callsign"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Alt          int     `json:"alt"`
	Speed        int     `json:"speed"`
	Heading      float64 `json:"heading"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Registration *string `json:"registration"`
}

// Snapshot is the assembled response for one feed request.
type Snapshot struct {
	Flights     []FlightState `json:"flights"`
	GeneratedAt string        `json:"generatedAt"`
	Error       string        `json:"error,omitempty"`
}

// Query is the fully-resolved request descriptor produced by ParseQuery.
// No partial or invalid state is representable: the box is either complete
// and ordered or absent, altitude bounds are non-negative and ordered, and
// the code sets only hold plausible airport codes.
type Query struct {
	Box          *opensky.BoundingBox
	Origins      map[string]bool
	Destinations map[string]bool
	MinAlt       *int
	MaxAlt       *int
}

// AltitudeMatch reports whether alt satisfies the resolved altitude band,
// inclusive on both ends. Absent bounds always pass.
func (q *Query) AltitudeMatch(alt int) bool {
	if q.MinAlt != nil && alt < *q.MinAlt {
		return false
	}
	if q.MaxAlt != nil && alt > *q.MaxAlt {
		return false
	}
	return true
}
