package opensky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:     baseURL,
		RouteURL:    baseURL + "/routes",
		MetadataURL: baseURL + "/metadata/aircraft/icao24",
	})
}

func TestFetchStates(t *testing.T) {
	payload := map[string]any{
		"time": 1700000000,
		"states": [][]any{
			{"4ca1d3", "BAW123 ", "United Kingdom", nil, nil, -0.45, 51.47, 10000.0,
				false, 250.0, 180.0, 0.0, nil, 10500.0, "1234", false, 0},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/states/all", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).FetchStates(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), resp.Time)
	require.Len(t, resp.States, 1)
	assert.Equal(t, "4ca1d3", resp.States[0][0])
}

func TestFetchStatesWithBoundingBox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "49.5", q.Get("lamin"))
		assert.Equal(t, "51.5", q.Get("lamax"))
		assert.Equal(t, "-1", q.Get("lomin"))
		assert.Equal(t, "1", q.Get("lomax"))
		json.NewEncoder(w).Encode(map[string]any{"time": 1700000000, "states": nil})
	}))
	defer srv.Close()

	box := &BoundingBox{MinLat: 49.5, MaxLat: 51.5, MinLon: -1, MaxLon: 1}
	resp, err := testClient(srv.URL).FetchStates(context.Background(), box)
	require.NoError(t, err)
	assert.Nil(t, resp.States, "null states array decodes to nil")
}

func TestFetchStatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchStates(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchStatesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchStates(context.Background(), nil)
	assert.Error(t, err)
}

func TestFetchRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routes", r.URL.Path)
		assert.Equal(t, "BAW123", r.URL.Query().Get("callsign"))
		json.NewEncoder(w).Encode(map[string]any{
			"estDepartureAirport": "EGLL",
			"estArrivalAirport":   "KJFK",
		})
	}))
	defer srv.Close()

	// Callsigns are trimmed and uppercased before hitting the upstream.
	route, err := testClient(srv.URL).FetchRoute(context.Background(), " baw123 ")
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, "EGLL", route.Origin)
	assert.Equal(t, "KJFK", route.Destination)
}

func TestFetchRouteEmptyCallsign(t *testing.T) {
	route, err := testClient("http://unused").FetchRoute(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, route)
}

func TestFetchRouteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchRoute(context.Background(), "BAW123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metadata/aircraft/icao24/4ca1d3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"registration": " g-xwba "})
	}))
	defer srv.Close()

	// IDs are lowercased for the path segment; registrations come back
	// trimmed and uppercased.
	metadata, err := testClient(srv.URL).FetchMetadata(context.Background(), "4CA1D3")
	require.NoError(t, err)
	require.NotNil(t, metadata)
	assert.Equal(t, "G-XWBA", metadata.Registration)
}

func TestFetchMetadataNoRegistration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model": "A350"})
	}))
	defer srv.Close()

	metadata, err := testClient(srv.URL).FetchMetadata(context.Background(), "4ca1d3")
	require.NoError(t, err)
	require.NotNil(t, metadata)
	assert.Empty(t, metadata.Registration)
}

func TestFetchMetadataServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchMetadata(context.Background(), "4ca1d3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
