package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Metadata is the aircraft-level data resolved for an ICAO24 address.
// Registration is empty when the upstream record does not carry one.
type Metadata struct {
	Registration string
}

// FetchMetadata resolves an ICAO24 hex address to aircraft metadata.
func (c *Client) FetchMetadata(ctx context.Context, icao24 string) (*Metadata, error) {
	key := strings.ToLower(strings.TrimSpace(icao24))
	if key == "" {
		return nil, nil
	}

	endpoint := c.metadataURL + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting metadata for %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("metadata lookup for %s failed with status %d", key, resp.StatusCode)
	}

	var payload struct {
		Registration string `json:"registration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding metadata for %s: %w", key, err)
	}

	return &Metadata{
		Registration: strings.ToUpper(strings.TrimSpace(payload.Registration)),
	}, nil
}
