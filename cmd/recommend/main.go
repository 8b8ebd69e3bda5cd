package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/forkcast/forkcast/config"
	"github.com/forkcast/forkcast/encoder"
	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/osm"
	"github.com/forkcast/forkcast/recommend"
)

var (
	configPath string
	query      string
	lat        float64
	lon        float64
	radius     float64
	topK       int
)

var rootCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank nearby restaurants against a food craving",
	Long: `Fetches restaurants around a coordinate from OpenStreetMap, embeds their
descriptions, scores them against the query and prints the ranked results
as JSON.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "./config/config.yaml", "path to the config file")
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "what you feel like eating")
	rootCmd.Flags().Float64Var(&lat, "lat", 0, "user latitude")
	rootCmd.Flags().Float64Var(&lon, "lon", 0, "user longitude")
	rootCmd.Flags().Float64Var(&radius, "radius", 0, "search radius in meters, 0 uses the configured default")
	rootCmd.Flags().IntVarP(&topK, "limit", "n", 0, "maximum number of results, 0 uses the configured default")

	_ = rootCmd.MarkFlagRequired("query")
	_ = rootCmd.MarkFlagRequired("lat")
	_ = rootCmd.MarkFlagRequired("lon")
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg := config.LoadConfigFrom(configPath)

	enc, err := buildEncoder(cfg)
	if err != nil {
		return err
	}

	source := osm.NewClient(osm.Config{
		URL:               cfg.Overpass.URL,
		RequestTimeout:    time.Duration(cfg.Overpass.RequestTimeoutSeconds) * time.Second,
		QueryTimeoutSec:   cfg.Overpass.QueryTimeoutSeconds,
		RequestsPerSecond: cfg.Overpass.RequestsPerSecond,
		Amenities:         cfg.Overpass.Amenities,
	})

	engine := recommend.NewEngine(source, enc, recommend.Config{
		DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.Search.MaxRadiusMeters,
		DefaultTopK:         cfg.Search.DefaultTopK,
	})

	results, err := engine.Recommend(cmd.Context(), recommend.Request{
		Query:        query,
		Location:     models.NewLocation(lat, lon),
		RadiusMeters: radius,
		TopK:         topK,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))

	return nil
}

func buildEncoder(cfg *config.Config) (recommend.Encoder, error) {
	switch cfg.Encoder.Backend {
	case "", "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.Address()),
			ollama.WithModel(cfg.Ollama.EmbeddingModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ollama: %w", err)
		}

		return encoder.NewOllama(llm, cfg.Encoder.BatchSize, cfg.Encoder.Workers), nil
	case "onnx":
		return encoder.NewONNX(encoder.ONNXConfig{
			ModelPath:     cfg.ONNX.ModelPath,
			TokenizerPath: cfg.ONNX.TokenizerPath,
			Library:       cfg.ONNX.Library,
			MaxSeqLen:     cfg.ONNX.MaxSeqLen,
		})
	default:
		return nil, fmt.Errorf("unknown encoder backend %q", cfg.Encoder.Backend)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
