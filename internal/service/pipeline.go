package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/cache"
	"github.com/ian8500/Plane-Spotter/internal/opensky"
)

// Config holds pipeline limits and cache TTLs. Negative results are always
// cached at half the positive TTL.
type Config struct {
	MaxFlights         int
	MaxRouteLookups    int
	MaxMetadataLookups int
	RouteTTL           time.Duration
	MetadataTTL        time.Duration
	CacheMaxEntries    int
}

// Pipeline builds one feed snapshot per inbound request: fetch, normalize,
// filter, truncate, enrich, assemble. The two caches live for the process
// lifetime and are shared across requests.
type Pipeline struct {
	cfg       Config
	states    StateFetcher
	routes    RouteResolver
	metadata  MetadataResolver
	publisher SnapshotPublisher

	routeCache    *cache.Cache[*opensky.Route]
	metadataCache *cache.Cache[*opensky.Metadata]
	health        *FeedHealth
	logger        *logrus.Logger
	now           func() time.Time
}

// NewPipeline creates a pipeline with fresh caches.
func NewPipeline(cfg Config, states StateFetcher, routes RouteResolver, metadata MetadataResolver, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		states:        states,
		routes:        routes,
		metadata:      metadata,
		routeCache:    cache.New[*opensky.Route](cfg.CacheMaxEntries),
		metadataCache: cache.New[*opensky.Metadata](cfg.CacheMaxEntries),
		health:        NewFeedHealth(),
		logger:        logger,
		now:           time.Now,
	}
}

// SetPublisher attaches an optional snapshot publisher.
func (p *Pipeline) SetPublisher(publisher SnapshotPublisher) {
	p.publisher = publisher
}

// SetClock overrides the time source for the pipeline and both caches.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
	p.routeCache.SetClock(now)
	p.metadataCache.SetClock(now)
	p.health.SetClock(now)
}

// Health exposes the feed staleness tracker for the health endpoint.
func (p *Pipeline) Health() *FeedHealth {
	return p.health
}

// BuildSnapshot runs the full pipeline for one request. On a primary-feed
// failure it returns both a non-nil error and an empty, annotated snapshot;
// the caller surfaces the snapshot with a 502 instead of propagating the
// failure. Every other failure degrades data quality, never availability.
func (p *Pipeline) BuildSnapshot(ctx context.Context, q Query) (*Snapshot, error) {
	p.health.RecordAttempt()

	resp, err := p.states.FetchStates(ctx, q.Box)
	if err != nil {
		p.logger.WithError(err).Error("State vector fetch failed")
		return &Snapshot{
			Flights:     []FlightState{},
			GeneratedAt: p.now().UTC().Format(time.RFC3339),
			Error:       err.Error(),
		}, err
	}
	p.health.RecordSuccess()

	flights := make([]FlightState, 0, len(resp.States))
	dropped := 0
	for _, tuple := range resp.States {
		flight, ok := MapStateVector(tuple)
		if !ok {
			dropped++
			continue
		}
		if !q.AltitudeMatch(flight.Alt) {
			continue
		}
		flights = append(flights, flight)
	}
	if dropped > 0 {
		p.logger.WithField("dropped", dropped).Debug("Discarded malformed state vectors")
	}

	// Truncate in stable input order before the enrichment fan-outs so the
	// caps bound enrichment cost, not just response size.
	if p.cfg.MaxFlights > 0 && len(flights) > p.cfg.MaxFlights {
		flights = flights[:p.cfg.MaxFlights]
	}

	flights = p.enrichRoutes(ctx, flights, &q)
	flights = p.enrichMetadata(ctx, flights)

	generatedAt := p.now().UTC()
	if resp.Time > 0 {
		generatedAt = time.Unix(resp.Time, 0).UTC()
	}

	snapshot := &Snapshot{
		Flights:     flights,
		GeneratedAt: generatedAt.Format(time.RFC3339),
	}

	p.logger.WithFields(logrus.Fields{
		"flights":      len(snapshot.Flights),
		"generated_at": snapshot.GeneratedAt,
	}).Debug("Snapshot assembled")

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, snapshot); err != nil {
			p.logger.WithError(err).Warn("Snapshot publish failed")
		}
	}

	return snapshot, nil
}
