// Package recommend runs the ranking pipeline: fetch candidates around the
// user, embed their descriptors, score semantic similarity against the
// query, blend in geographic distance and return the top-k. Every request
// builds its own index from live data; nothing carries over between calls.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/vector"
)

const (
	defaultRadiusMeters = 1000
	defaultTopK         = 5
)

// CandidateSource fetches points of interest around a coordinate.
// *osm.Client satisfies it.
type CandidateSource interface {
	Nearby(ctx context.Context, center models.Location, radiusMeters float64) ([]models.Candidate, error)
}

// Encoder maps descriptor texts and queries into one embedding space.
// Batch and single encoding must be numerically consistent.
type Encoder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	// DefaultRadiusMeters applies when a request has no radius.
	DefaultRadiusMeters float64
	// MaxRadiusMeters caps oversized request radii. Zero means no cap.
	MaxRadiusMeters float64
	// DefaultTopK applies when a request has no k.
	DefaultTopK int
}

type Request struct {
	Query        string
	Location     models.Location
	RadiusMeters float64
	TopK         int
}

type Engine struct {
	source  CandidateSource
	encoder Encoder
	cfg     Config
}

func NewEngine(source CandidateSource, encoder Encoder, cfg Config) *Engine {
	if cfg.DefaultRadiusMeters <= 0 {
		cfg.DefaultRadiusMeters = defaultRadiusMeters
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = defaultTopK
	}

	return &Engine{
		source:  source,
		encoder: encoder,
		cfg:     cfg,
	}
}

// Recommend runs the full pipeline for one request. An empty candidate set
// is a valid outcome and returns an empty, non-nil slice. Errors wrap
// ErrInvalidInput, ErrUpstreamFetch or ErrEncoding depending on the failed
// stage; no partial results are produced.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]models.ScoredCandidate, error) {
	req, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	candidates, err := e.source.Nearby(ctx, req.Location, req.RadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}
	if len(candidates) == 0 {
		slog.Info("no candidates around location",
			"lat", req.Location.Lat,
			"lon", req.Location.Lon,
			"radius_m", req.RadiusMeters,
		)

		return []models.ScoredCandidate{}, nil
	}

	descriptors := make([]string, len(candidates))
	for i := range candidates {
		descriptors[i] = candidates[i].Description()
	}

	embeddings, err := e.encoder.EmbedDocuments(ctx, descriptors)
	if err != nil {
		return nil, fmt.Errorf("%w: documents: %w", ErrEncoding, err)
	}

	index, err := vector.NewIndex(vector.NormalizeAll(embeddings))
	if err != nil {
		return nil, fmt.Errorf("%w: building index: %w", ErrEncoding, err)
	}

	queryVec, err := e.encoder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrEncoding, err)
	}

	// Similarity over the full candidate set; fusion decides the cut.
	hits, err := index.Search(vector.Normalize(queryVec), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: searching index: %w", ErrEncoding, err)
	}

	ranked := fuse(candidates, hits, req.Location, req.RadiusMeters)
	if req.TopK < len(ranked) {
		ranked = ranked[:req.TopK]
	}

	slog.Info("ranked candidates",
		"query", req.Query,
		"candidates", len(candidates),
		"returned", len(ranked),
		"took", time.Since(start),
	)

	return ranked, nil
}

// prepare validates the request and fills in configured defaults. It runs
// before any network or model work so bad requests fail cheap.
func (e *Engine) prepare(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	if !validCoordinates(req.Location) {
		return req, fmt.Errorf("%w: coordinates (%v, %v) out of range", ErrInvalidInput, req.Location.Lat, req.Location.Lon)
	}

	switch {
	case req.RadiusMeters < 0:
		return req, fmt.Errorf("%w: radius must not be negative", ErrInvalidInput)
	case req.RadiusMeters == 0:
		req.RadiusMeters = e.cfg.DefaultRadiusMeters
	case e.cfg.MaxRadiusMeters > 0 && req.RadiusMeters > e.cfg.MaxRadiusMeters:
		req.RadiusMeters = e.cfg.MaxRadiusMeters
	}

	if req.TopK <= 0 {
		req.TopK = e.cfg.DefaultTopK
	}

	return req, nil
}

func validCoordinates(loc models.Location) bool {
	if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lon) || math.IsInf(loc.Lat, 0) || math.IsInf(loc.Lon, 0) {
		return false
	}

	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lon >= -180 && loc.Lon <= 180
}
