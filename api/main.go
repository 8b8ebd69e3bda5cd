package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/forkcast/forkcast/config"
	"github.com/forkcast/forkcast/encoder"
	"github.com/forkcast/forkcast/osm"
	"github.com/forkcast/forkcast/recommend"
)

type Server struct {
	config   *config.Config
	handler  *Handler
	upgrader websocket.Upgrader
}

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	sqliteDB, err := sql.Open("sqlite3", cfg.Chat.HistoryDB)
	if err != nil {
		log.Fatal(err)
	}

	embeddingLLM, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.EmbeddingModel),
	)
	if err != nil {
		log.Fatal(err)
	}

	chatLLM, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.ChatModel),
		ollama.WithSystemPrompt(NarratorSysPrompt),
	)
	if err != nil {
		log.Fatal(err)
	}

	enc, err := buildEncoder(cfg, embeddingLLM)
	if err != nil {
		log.Fatal(err)
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

	handler, err := NewHandler(engine, chatLLM, sqliteDB, time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatal(err)
	}

	server := &Server{
		config:   cfg,
		handler:  handler,
		upgrader: websocket.Upgrader{},
	}

	if err := server.Run(); err != nil {
		log.Fatalf("failed to run the server: %v", err)
	}
}

func buildEncoder(cfg *config.Config, llm *ollama.LLM) (recommend.Encoder, error) {
	switch cfg.Encoder.Backend {
	case "", "ollama":
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

func (s *Server) Run() error {
	r := gin.Default()

	r.StaticFile("/", "web/index.html")

	r.GET("/recommend", func(ctx *gin.Context) {
		req, err := parseRequest(ctx)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, err := s.handler.Recommend(ctx, req)
		if err != nil {
			ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}

		if ctx.Query("format") == "geojson" {
			ctx.JSON(http.StatusOK, toFeatureCollection(results))
			return
		}

		ctx.JSON(http.StatusOK, recommendResponse{Results: results})
	})

	r.GET("/chat", func(ctx *gin.Context) {
		req, err := parseRequest(ctx)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, narrative, err := s.handler.Chat(ctx, req)
		if err != nil {
			ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, chatResponse{Results: results, Response: narrative})
	})

	r.GET("/ws/chat", func(ctx *gin.Context) {
		req, err := parseRequest(ctx)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session := ctx.Query("session")
		if session == "" {
			session = uuid.NewString()
		}

		w, r := ctx.Writer, ctx.Request
		c, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		if err := c.WriteJSON(wsMessage{Type: "session", Data: session}); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
			return
		}

		resultChan := s.handler.ChatStream(ctx, req, session)
		for {
			select {
			case <-ctx.Request.Context().Done():
				return
			case result := <-resultChan:
				if result == nil {
					return
				}
				if result.Err != nil {
					if result.Err == io.EOF {
						return
					}
					_ = c.WriteJSON(wsMessage{Type: "error", Data: result.Err.Error()})
					return
				}

				if err := c.WriteJSON(result.Msg); err != nil {
					slog.Error("failed to write to ws connection", "error", err)
					return
				}
			}
		}
	})

	return r.Run(s.config.Server.Address())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, recommend.ErrUpstreamFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
