// Package osm fetches food places around a coordinate from the Overpass
// API, the public query frontend for OpenStreetMap data.
package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/forkcast/forkcast/models"
)

const (
	DefaultURL = "https://overpass-api.de/api/interpreter"

	defaultRequestTimeout = 25 * time.Second
	defaultQueryTimeout   = 20

	// Overpass replies with HTML or XML error pages when overloaded; cap
	// how much of a response we are willing to read either way.
	maxResponseBytes = 32 << 20

	// How much of a broken response body to carry in the error message.
	errSnippetLen = 200
)

// DefaultAmenities are the food-related amenity tags fetched when the
// client is not configured with an explicit list.
var DefaultAmenities = []string{"restaurant", "fast_food", "cafe", "bar", "pub"}

type Config struct {
	// URL of the Overpass interpreter endpoint.
	URL string
	// RequestTimeout bounds the whole HTTP exchange.
	RequestTimeout time.Duration
	// QueryTimeoutSec is the server-side [timeout:N] in the Overpass query.
	QueryTimeoutSec int
	// RequestsPerSecond throttles calls against the shared public API.
	// Zero disables throttling.
	RequestsPerSecond float64
	// Amenities overrides DefaultAmenities when non-empty.
	Amenities []string
}

type Client struct {
	httpClient      *http.Client
	url             string
	queryTimeoutSec int
	amenities       []string
	limiter         *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.QueryTimeoutSec <= 0 {
		cfg.QueryTimeoutSec = defaultQueryTimeout
	}
	if len(cfg.Amenities) == 0 {
		cfg.Amenities = DefaultAmenities
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient:      &http.Client{Timeout: cfg.RequestTimeout},
		url:             cfg.URL,
		queryTimeoutSec: cfg.QueryTimeoutSec,
		amenities:       cfg.Amenities,
		limiter:         limiter,
	}
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *latLon           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Nearby returns all named food places within radiusMeters of center, in
// the order Overpass returned them. Unnamed elements are dropped; missing
// tags default to "unknown".
func (c *Client) Nearby(ctx context.Context, center models.Location, radiusMeters float64) ([]models.Candidate, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for overpass rate limiter: %w", err)
		}
	}

	query := c.buildQuery(center, radiusMeters)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read overpass response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, snippet(body))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("overpass returned invalid JSON: %s", snippet(body))
	}

	candidates := make([]models.Candidate, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		candidate, ok := normalizeElement(el)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	slog.Debug("fetched candidates from overpass",
		"elements", len(parsed.Elements),
		"named", len(candidates),
		"radius_m", radiusMeters,
	)

	return candidates, nil
}

// buildQuery renders the Overpass QL union over the configured amenities.
// Nodes carry their own coordinates; ways get a computed center from
// "out center".
func (c *Client) buildQuery(center models.Location, radiusMeters float64) string {
	lat := strconv.FormatFloat(center.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(center.Lon, 'f', -1, 64)
	radius := strconv.FormatFloat(radiusMeters, 'f', -1, 64)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", c.queryTimeoutSec)
	for _, amenity := range c.amenities {
		fmt.Fprintf(&b, "  node[\"amenity\"=%q](around:%s,%s,%s);\n", amenity, radius, lat, lon)
		fmt.Fprintf(&b, "  way[\"amenity\"=%q](around:%s,%s,%s);\n", amenity, radius, lat, lon)
	}
	b.WriteString(");\nout center;\n")

	return b.String()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errSnippetLen {
		s = s[:errSnippetLen] + "..."
	}

	return s
}
