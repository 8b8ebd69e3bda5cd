package main

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/recommend"
)

// recommendResponse is the one response shape every ranking endpoint
// shares: results keyed by name, ordered by descending final score.
type recommendResponse struct {
	Results []models.ScoredCandidate `json:"results"`
}

// chatResponse extends the ranking payload with the generated narrative.
type chatResponse struct {
	Results  []models.ScoredCandidate `json:"results"`
	Response string                   `json:"response"`
}

// wsMessage is a typed frame pushed over the chat websocket.
type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// streamResult carries either a frame or a terminal error out of the
// streaming chat pipeline. io.EOF signals a clean end of stream.
type streamResult struct {
	Err error
	Msg wsMessage
}

// parseRequest reads the shared query parameters of the ranking endpoints.
// Parse failures wrap recommend.ErrInvalidInput so the routes map them to
// 400 like every other input problem.
func parseRequest(ctx *gin.Context) (recommend.Request, error) {
	var req recommend.Request

	req.Query = ctx.Query("query")

	latStr, lonStr := ctx.Query("lat"), ctx.Query("lon")
	if latStr == "" || lonStr == "" {
		return req, fmt.Errorf("%w: lat and lon are required", recommend.ErrInvalidInput)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return req, fmt.Errorf("%w: invalid latitude %q", recommend.ErrInvalidInput, latStr)
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return req, fmt.Errorf("%w: invalid longitude %q", recommend.ErrInvalidInput, lonStr)
	}

	req.Location = models.NewLocation(lat, lon)

	if radiusStr := ctx.Query("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return req, fmt.Errorf("%w: invalid radius %q", recommend.ErrInvalidInput, radiusStr)
		}
		req.RadiusMeters = radius
	}

	if kStr := ctx.Query("k"); kStr != "" {
		k, err := strconv.Atoi(kStr)
		if err != nil {
			return req, fmt.Errorf("%w: invalid k %q", recommend.ErrInvalidInput, kStr)
		}
		req.TopK = k
	}

	return req, nil
}

// toFeatureCollection renders ranked results as GeoJSON for map frontends.
// Scores travel in feature properties; geometry is the candidate's point.
func toFeatureCollection(results []models.ScoredCandidate) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, len(results))
	for i, r := range results {
		features[i] = &geojson.Feature{
			Geometry: r.Location.Point(),
			Properties: map[string]interface{}{
				"id":             r.ID,
				"name":           r.Name,
				"cuisine":        r.Cuisine,
				"opening_hours":  r.OpeningHours,
				"city":           r.City,
				"street":         r.Street,
				"neighborhood":   r.Neighborhood,
				"amenity":        r.Amenity,
				"semantic_score": r.SemanticScore,
				"distance_km":    r.DistanceKm,
				"distance_score": r.DistanceScore,
				"final_score":    r.FinalScore,
			},
		}
	}

	return &geojson.FeatureCollection{Features: features}
}
