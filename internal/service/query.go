package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ian8500/Plane-Spotter/internal/opensky"
)

// ParseQuery resolves the viewport and filter parameters from an inbound
// request. Malformed values never produce an error: the corresponding
// filter is simply absent.
func ParseQuery(values url.Values) Query {
	q := Query{
		Origins:      parseAirportFilters(values.Get("origin")),
		Destinations: parseAirportFilters(values.Get("destination")),
	}

	minLat := parseFloat(values.Get("minLat"))
	maxLat := parseFloat(values.Get("maxLat"))
	minLon := parseFloat(values.Get("minLon"))
	maxLon := parseFloat(values.Get("maxLon"))

	// The box only exists when all four coordinates parse; a caller-supplied
	// inversion is corrected per axis.
	if minLat != nil && maxLat != nil && minLon != nil && maxLon != nil {
		q.Box = &opensky.BoundingBox{
			MinLat: math.Min(*minLat, *maxLat),
			MaxLat: math.Max(*minLat, *maxLat),
			MinLon: math.Min(*minLon, *maxLon),
			MaxLon: math.Max(*minLon, *maxLon),
		}
	}

	q.MinAlt = parseAltitude(values.Get("minAlt"))
	q.MaxAlt = parseAltitude(values.Get("maxAlt"))
	if q.MinAlt != nil && q.MaxAlt != nil && *q.MinAlt > *q.MaxAlt {
		q.MinAlt, q.MaxAlt = q.MaxAlt, q.MinAlt
	}

	return q
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

func parseAltitude(value string) *int {
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	if parsed < 0 {
		parsed = 0
	}
	return &parsed
}

func parseAirportFilters(param string) map[string]bool {
	filters := make(map[string]bool)
	if param == "" {
		return filters
	}

	for _, token := range strings.Split(param, ",") {
		code := strings.ToUpper(strings.TrimSpace(token))
		if len(code) < 3 || len(code) > 4 {
			continue
		}
		filters[code] = true
	}
	return filters
}
