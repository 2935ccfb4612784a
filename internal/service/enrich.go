package service

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/opensky"
)

// enrichRoutes overwrites origin/destination with resolved routes and then
// applies the airport-code filters. Filtering runs after enrichment so it
// can see enriched values; a flight whose route never resolved keeps its
// fallback origin and is judged on that.
func (p *Pipeline) enrichRoutes(ctx context.Context, flights []FlightState, q *Query) []FlightState {
	if len(flights) == 0 {
		return flights
	}

	callsigns := dedupeCallsigns(flights, p.cfg.MaxRouteLookups)
	resolved := p.resolveRoutes(ctx, callsigns)

	result := make([]FlightState, 0, len(flights))
	for _, flight := range flights {
		if route := resolved[strings.TrimSpace(flight.Callsign)]; route != nil {
			if route.Origin != "" {
				flight.Origin = route.Origin
			}
			if route.Destination != "" {
				flight.Destination = route.Destination
			}
		}

		if len(q.Origins) > 0 && !q.Origins[flight.Origin] {
			continue
		}
		if len(q.Destinations) > 0 && !q.Destinations[flight.Destination] {
			continue
		}
		result = append(result, flight)
	}
	return result
}

// dedupeCallsigns collects distinct non-empty trimmed callsigns in
// first-seen order, capped at max. Callsigns beyond the cap stay
// unenriched for this request.
func dedupeCallsigns(flights []FlightState, max int) []string {
	seen := make(map[string]bool, len(flights))
	callsigns := make([]string, 0, len(flights))
	for _, flight := range flights {
		callsign := strings.TrimSpace(flight.Callsign)
		if callsign == "" || seen[callsign] {
			continue
		}
		seen[callsign] = true
		callsigns = append(callsigns, callsign)
		if max > 0 && len(callsigns) >= max {
			break
		}
	}
	return callsigns
}

// resolveRoutes answers every callsign from the cache where possible and
// dispatches one concurrent lookup per miss, awaiting them all before
// returning. The returned map is keyed by trimmed callsign; a nil value is
// a known-unresolvable route.
func (p *Pipeline) resolveRoutes(ctx context.Context, callsigns []string) map[string]*opensky.Route {
	resolved := make(map[string]*opensky.Route, len(callsigns))

	type lookup struct {
		callsign string
		key      string
	}
	var misses []lookup

	for _, callsign := range callsigns {
		key := strings.ToUpper(callsign)
		if route, ok := p.routeCache.Get(key); ok {
			resolved[callsign] = route
			continue
		}
		misses = append(misses, lookup{callsign: callsign, key: key})
	}

	if len(misses) == 0 {
		return resolved
	}

	results := make([]*opensky.Route, len(misses))
	var wg sync.WaitGroup
	for i, m := range misses {
		wg.Add(1)
		go func(i int, m lookup) {
			defer wg.Done()

			route, err := p.routes.FetchRoute(ctx, m.key)
			if err != nil || route == nil {
				// Negative cache at half the TTL so transient failures
				// self-heal faster than confirmed routes go stale.
				p.routeCache.Set(m.key, nil, p.cfg.RouteTTL/2)
				if err != nil {
					p.logger.WithFields(logrus.Fields{
						"callsign": m.key,
						"error":    err,
					}).Warn("Route enrichment miss")
				} else {
					p.logger.WithField("callsign", m.key).Debug("No route data for callsign")
				}
				return
			}

			p.routeCache.Set(m.key, route, p.cfg.RouteTTL)
			results[i] = route
		}(i, m)
	}
	wg.Wait()

	for i, m := range misses {
		resolved[m.callsign] = results[i]
	}
	return resolved
}

// enrichMetadata fills in registrations for the visible aircraft. It runs
// after the airport filter since registration is display data only.
func (p *Pipeline) enrichMetadata(ctx context.Context, flights []FlightState) []FlightState {
	if len(flights) == 0 {
		return flights
	}

	ids := dedupeIDs(flights, p.cfg.MaxMetadataLookups)
	resolved := p.resolveMetadata(ctx, ids)

	result := make([]FlightState, 0, len(flights))
	for _, flight := range flights {
		if metadata := resolved[flight.ID]; metadata != nil && metadata.Registration != "" {
			registration := metadata.Registration
			flight.Registration = &registration
		}
		result = append(result, flight)
	}
	return result
}

func dedupeIDs(flights []FlightState, max int) []string {
	seen := make(map[string]bool, len(flights))
	ids := make([]string, 0, len(flights))
	for _, flight := range flights {
		if flight.ID == "" || seen[flight.ID] {
			continue
		}
		seen[flight.ID] = true
		ids = append(ids, flight.ID)
		if max > 0 && len(ids) >= max {
			break
		}
	}
	return ids
}

func (p *Pipeline) resolveMetadata(ctx context.Context, ids []string) map[string]*opensky.Metadata {
	resolved := make(map[string]*opensky.Metadata, len(ids))

	type lookup struct {
		id  string
		key string
	}
	var misses []lookup

	for _, id := range ids {
		key := strings.ToLower(id)
		if metadata, ok := p.metadataCache.Get(key); ok {
			resolved[id] = metadata
			continue
		}
		misses = append(misses, lookup{id: id, key: key})
	}

	if len(misses) == 0 {
		return resolved
	}

	results := make([]*opensky.Metadata, len(misses))
	var wg sync.WaitGroup
	for i, m := range misses {
		wg.Add(1)
		go func(i int, m lookup) {
			defer wg.Done()

			metadata, err := p.metadata.FetchMetadata(ctx, m.key)
			if err != nil || metadata == nil {
				p.metadataCache.Set(m.key, nil, p.cfg.MetadataTTL/2)
				if err != nil {
					p.logger.WithFields(logrus.Fields{
						"icao24": m.key,
						"error":  err,
					}).Warn("Metadata enrichment miss")
				}
				return
			}

			p.metadataCache.Set(m.key, metadata, p.cfg.MetadataTTL)
			results[i] = metadata
		}(i, m)
	}
	wg.Wait()

	for i, m := range misses {
		resolved[m.id] = results[i]
	}
	return resolved
}
