// Package opensky contains the HTTP clients for the three OpenSky
// upstreams: the state-vector feed, the route lookup and the aircraft
// metadata lookup.
package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// Connection pool settings
	maxIdleConns        = 10
	maxConnsPerHost     = 5
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// Config holds the upstream endpoints.
type Config struct {
	BaseURL     string
	RouteURL    string
	MetadataURL string
	Timeout     time.Duration
}

// BoundingBox is a lat/lon rectangle scoping a state-vector query to a
// viewport. Min <= Max on both axes.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// StatesResponse mirrors the JSON shape returned by /states/all. Each state
// is a 17-to-18 element tuple; a null states array means no traffic.
type StatesResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Client fetches live flight data from the OpenSky Network API.
type Client struct {
	statesURL   string
	routeURL    string
	metadataURL string
	httpClient  *http.Client
}

// NewClient creates an OpenSky API client with connection pooling.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxConnsPerHost:     maxConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}

	c := &Client{
		statesURL:   cfg.BaseURL + "/states/all",
		routeURL:    cfg.RouteURL,
		metadataURL: cfg.MetadataURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchStates retrieves the current state vectors, scoped to box when one is
// given. Any non-2xx status or decode failure is returned as an error; the
// caller treats it as fatal for the whole request.
func (c *Client) FetchStates(ctx context.Context, box *BoundingBox) (*StatesResponse, error) {
	endpoint := c.statesURL
	if box != nil {
		params := url.Values{}
		params.Set("lamin", formatCoord(box.MinLat))
		params.Set("lamax", formatCoord(box.MaxLat))
		params.Set("lomin", formatCoord(box.MinLon))
		params.Set("lomax", formatCoord(box.MaxLon))
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating states request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting state vectors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("state vector request failed with status %d", resp.StatusCode)
	}

	var payload StatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding state vectors: %w", err)
	}

	return &payload, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
