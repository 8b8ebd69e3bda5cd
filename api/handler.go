package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/memory/sqlite3"

	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/recommend"
)

const (
	narrativeTemperature = 0.3
	narrativeMaxTokens   = 350
)

type Handler struct {
	engine      *recommend.Engine
	chatLLM     *ollama.LLM
	historyDB   *sql.DB
	chatTimeout time.Duration
}

func NewHandler(engine *recommend.Engine, chatLLM *ollama.LLM, historyDB *sql.DB, chatTimeout time.Duration) (*Handler, error) {
	return &Handler{
		engine:      engine,
		chatLLM:     chatLLM,
		historyDB:   historyDB,
		chatTimeout: chatTimeout,
	}, nil
}

func (h *Handler) Recommend(ctx context.Context, req recommend.Request) ([]models.ScoredCandidate, error) {
	return h.engine.Recommend(ctx, req)
}

// Chat runs the ranking pipeline and asks the model to explain the top
// results. An empty candidate set short-circuits to a fixed reply without
// touching the model. The narrative never feeds back into ranking.
func (h *Handler) Chat(ctx context.Context, req recommend.Request) ([]models.ScoredCandidate, string, error) {
	ctx, cancel := h.chatContext(ctx)
	defer cancel()

	results, err := h.engine.Recommend(ctx, req)
	if err != nil {
		return nil, "", err
	}
	if len(results) == 0 {
		return results, emptyResultsReply, nil
	}

	narrative, err := h.Narrate(ctx, req.Query, results)
	if err != nil {
		return nil, "", err
	}

	return results, narrative, nil
}

// Narrate generates the explanation text for one set of ranked results.
// The system prompt is attached to the model itself, so a single human
// message carries the query and the result summaries.
func (h *Handler) Narrate(ctx context.Context, query string, results []models.ScoredCandidate) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildNarrativePrompt(query, results)),
			},
		},
	}

	content, err := h.chatLLM.GenerateContent(
		ctx,
		messages,
		llms.WithTemperature(narrativeTemperature),
		llms.WithMaxTokens(narrativeMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}
	if len(content.Choices) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	return content.Choices[0].Content, nil
}

// ChatStream runs the pipeline and streams the narrative over a channel of
// typed frames: first the ranked results, then chat chunks as the model
// produces them. The conversation is persisted per session, so follow-up
// questions on the same websocket keep their context. A result with
// Err == io.EOF marks a clean end of stream.
func (h *Handler) ChatStream(ctx context.Context, req recommend.Request, sessionID string) chan *streamResult {
	resultChan := make(chan *streamResult)

	go func() {
		defer close(resultChan)

		ctx, cancel := h.chatContext(ctx)
		defer cancel()

		results, err := h.engine.Recommend(ctx, req)
		if err != nil {
			resultChan <- &streamResult{Err: err}

			return
		}

		resultChan <- &streamResult{
			Msg: wsMessage{
				Type: "results",
				Data: recommendResponse{Results: results},
			},
		}

		if len(results) == 0 {
			resultChan <- &streamResult{
				Msg: wsMessage{
					Type: "chat",
					Data: emptyResultsReply,
				},
			}
			resultChan <- &streamResult{Err: io.EOF}

			return
		}

		chain := h.newConversation(sessionID)

		_, err = h.streamNarrative(ctx, &chain, req.Query, results, func(chunk []byte) error {
			resultChan <- &streamResult{
				Msg: wsMessage{
					Type: "chat",
					Data: string(chunk),
				},
			}

			return nil
		})
		if err != nil {
			resultChan <- &streamResult{Err: fmt.Errorf("response generation failed: %w", err)}

			return
		}

		resultChan <- &streamResult{Err: io.EOF}
	}()

	return resultChan
}

// newConversation builds a model chain whose history lives in sqlite under
// the given session id. History only shapes the narrative, never the
// ranking.
func (h *Handler) newConversation(sessionID string) chains.LLMChain {
	history := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession(sessionID),
		sqlite3.WithDB(h.historyDB),
	)
	buffer := memory.NewConversationBuffer(memory.WithChatHistory(history))

	return chains.NewConversation(h.chatLLM, buffer)
}

func (h *Handler) streamNarrative(
	ctx context.Context,
	chain *chains.LLMChain,
	query string,
	results []models.ScoredCandidate,
	streamHandler func(chunk []byte) error,
) (string, error) {
	response, err := chains.Run(
		ctx,
		chain,
		buildNarrativePrompt(query, results),
		chains.WithTemperature(narrativeTemperature),
		chains.WithMaxTokens(narrativeMaxTokens),
		chains.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return streamHandler(chunk)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return response, nil
}

func (h *Handler) chatContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.chatTimeout > 0 {
		return context.WithTimeout(ctx, h.chatTimeout)
	}

	return context.WithCancel(ctx)
}
