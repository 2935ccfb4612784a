package service

import (
	"context"

	"github.com/ian8500/Plane-Spotter/internal/opensky"
)

// StateFetcher defines the contract for fetching state vectors
type StateFetcher interface {
	FetchStates(ctx context.Context, box *opensky.BoundingBox) (*opensky.StatesResponse, error)
}

// RouteResolver defines the contract for resolving callsigns to routes
type RouteResolver interface {
	FetchRoute(ctx context.Context, callsign string) (*opensky.Route, error)
}

// MetadataResolver defines the contract for resolving aircraft metadata
type MetadataResolver interface {
	FetchMetadata(ctx context.Context, icao24 string) (*opensky.Metadata, error)
}

// SnapshotPublisher defines the contract for publishing assembled snapshots
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot *Snapshot) error
}
