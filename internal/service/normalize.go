package service

import (
	"math"
	"strings"
)

const (
	msToKnots = 1.94384
	mToFeet   = 3.28084
)

// Tuple positions consumed from an OpenSky state vector.
const (
	posICAO24        = 0
	posCallsign      = 1
	posOriginCountry = 2
	posLongitude     = 5
	posLatitude      = 6
	posBaroAltitude  = 7
	posVelocity      = 9
	posHeading       = 10
	posGeoAltitude   = 13
)

// minTupleLen is the shortest tuple the feed emits; anything shorter is
// malformed and dropped.
const minTupleLen = 17

// MapStateVector denormalizes one raw feed tuple into a FlightState. It is
// a pure function: the same tuple always yields the same record. ok is
// false when the tuple is malformed or missing a position fix.
func MapStateVector(tuple []any) (FlightState, bool) {
	if len(tuple) < minTupleLen {
		return FlightState{}, false
	}

	lat, latOK := floatAt(tuple, posLatitude)
	lon, lonOK := floatAt(tuple, posLongitude)
	if !latOK || !lonOK {
		return FlightState{}, false
	}

	// Geometric altitude is preferred over barometric.
	altitude, altOK := floatAt(tuple, posGeoAltitude)
	if !altOK {
		altitude, altOK = floatAt(tuple, posBaroAltitude)
	}

	altFeet := 0
	if altOK {
		altFeet = int(math.Round(altitude * mToFeet / 25.0)) * 25
		if altFeet < 0 {
			altFeet = 0
		}
	}

	speedKnots := 0
	if velocity, ok := floatAt(tuple, posVelocity); ok {
		speedKnots = int(math.Round(velocity * msToKnots))
		if speedKnots < 0 {
			speedKnots = 0
		}
	}

	heading := 0.0
	if h, ok := floatAt(tuple, posHeading); ok {
		heading = ClampHeading(h)
	}

	id := UnknownID
	if icao24 := stringAt(tuple, posICAO24); icao24 != "" {
		id = strings.ToUpper(icao24)
	}

	origin := strings.TrimSpace(stringAt(tuple, posOriginCountry))
	if origin == "" {
		origin = UnknownAirport
	}

	return FlightState{
		ID:          id,
		Callsign:    strings.TrimSpace(stringAt(tuple, posCallsign)),
		Lat:         lat,
		Lon:         lon,
		Alt:         altFeet,
		Speed:       speedKnots,
		Heading:     heading,
		Origin:      origin,
		Destination: UnknownAirport,
	}, true
}

// ClampHeading normalizes a heading into [0, 360).
func ClampHeading(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return math.Mod(math.Mod(h, 360)+360, 360)
}

func floatAt(tuple []any, i int) (float64, bool) {
	if i >= len(tuple) {
		return 0, false
	}
	v, ok := tuple[i].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func stringAt(tuple []any, i int) string {
	if i >= len(tuple) {
		return ""
	}
	if s, ok := tuple[i].(string); ok {
		return s
	}
	return ""
}
