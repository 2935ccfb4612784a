package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route is a resolved {origin, destination} pair for a callsign. Either
// field may be empty when the upstream only knows half the route.
type Route struct {
	Origin      string
	Destination string
}

// FetchRoute resolves a callsign to its route. A nil Route with a nil error
// means the lookup succeeded but no route data exists for the callsign.
func (c *Client) FetchRoute(ctx context.Context, callsign string) (*Route, error) {
	key := strings.ToUpper(strings.TrimSpace(callsign))
	if key == "" {
		return nil, nil
	}

	endpoint := c.routeURL + "?callsign=" + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating route request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting route for %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("route lookup for %s failed with status %d", key, resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding route for %s: %w", key, err)
	}

	return ExtractRoute(payload), nil
}

// ExtractRoute pulls a route out of the upstream payload. The response shape
// is not contractually fixed: it may be an array of candidate records, a
// single record, a bare route list, or a route string. Array payloads try
// each element in order; the first candidate yielding at least one airport
// wins.
func ExtractRoute(payload any) *Route {
	if candidates, ok := payload.([]any); ok {
		for _, candidate := range candidates {
			if route := extractCandidate(candidate); route != nil {
				return route
			}
		}
		return nil
	}
	return extractCandidate(payload)
}

// routeStrategies are tried in order against a record candidate; the first
// one returning a route wins.
var routeStrategies = []func(map[string]any) *Route{
	routeFromExplicitFields,
	routeFromRouteList,
	routeFromRouteString,
	routeFromAirportsList,
}

func extractCandidate(candidate any) *Route {
	switch v := candidate.(type) {
	case []any:
		return routeFromList(v)
	case string:
		return routeFromTokens(strings.Fields(v))
	case map[string]any:
		for _, strategy := range routeStrategies {
			if route := strategy(v); route != nil {
				return route
			}
		}
	}
	return nil
}

func routeFromExplicitFields(record map[string]any) *Route {
	origin := normalizeAirportCode(record["estDepartureAirport"])
	if origin == "" {
		origin = normalizeAirportCode(record["departure"])
	}

	destination := normalizeAirportCode(record["estArrivalAirport"])
	if destination == "" {
		destination = normalizeAirportCode(record["arrival"])
	}
	if destination == "" {
		destination = normalizeAirportCode(record["destination"])
	}

	if origin == "" && destination == "" {
		return nil
	}
	return &Route{Origin: origin, Destination: destination}
}

func routeFromRouteList(record map[string]any) *Route {
	list, ok := record["route"].([]any)
	if !ok {
		return nil
	}
	return routeFromList(list)
}

func routeFromRouteString(record map[string]any) *Route {
	s, ok := record["route"].(string)
	if !ok {
		return nil
	}
	return routeFromTokens(strings.Fields(s))
}

func routeFromAirportsList(record map[string]any) *Route {
	list, ok := record["airports"].([]any)
	if !ok {
		return nil
	}
	return routeFromList(list)
}

// routeFromList reads a waypoint list: first element is the origin, last the
// destination.
func routeFromList(list []any) *Route {
	if len(list) == 0 {
		return nil
	}

	origin := normalizeAirportCode(list[0])
	destination := normalizeAirportCode(list[len(list)-1])
	if origin == "" && destination == "" {
		return nil
	}
	return &Route{Origin: origin, Destination: destination}
}

func routeFromTokens(tokens []string) *Route {
	var codes []string
	for _, token := range tokens {
		if code := normalizeAirportCode(token); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return &Route{Origin: codes[0], Destination: codes[len(codes)-1]}
}

// normalizeAirportCode keeps a token only when it looks like an ICAO or IATA
// airport code (3 or 4 characters after trimming).
func normalizeAirportCode(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}

	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if len(trimmed) < 3 || len(trimmed) > 4 {
		return ""
	}
	return trimmed
}
