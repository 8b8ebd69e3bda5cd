// Package encoder turns descriptor strings and user queries into embedding
// vectors. Two backends exist: an Ollama-served model reached over HTTP and
// a local ONNX model run in-process. Both return raw model output; unit
// normalization happens downstream in the vector package.
package encoder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize = 16
	defaultWorkers   = 4
)

// embeddingClient is the slice of the Ollama API the encoder uses.
// *ollama.LLM from langchaingo satisfies it.
type embeddingClient interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Ollama encodes texts through an Ollama embedding model. Document batches
// are split into chunks embedded concurrently; order is preserved, so
// embedding a text alone or inside a batch yields the same vector.
type Ollama struct {
	client    embeddingClient
	batchSize int
	workers   int
}

func NewOllama(client embeddingClient, batchSize, workers int) *Ollama {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Ollama{
		client:    client,
		batchSize: batchSize,
		workers:   workers,
	}
}

func (o *Ollama) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	normalized := NormalizeTexts(texts)
	out := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for start := 0; start < len(normalized); start += o.batchSize {
		end := min(start+o.batchSize, len(normalized))

		g.Go(func() error {
			vecs, err := o.client.CreateEmbedding(ctx, normalized[start:end])
			if err != nil {
				return fmt.Errorf("failed to create embeddings for batch %d-%d: %w", start, end, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("batch %d-%d returned %d embeddings, expected %d", start, end, len(vecs), end-start)
			}

			copy(out[start:end], vecs)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (o *Ollama) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.client.CreateEmbedding(ctx, []string{NormalizeText(text)})
	if err != nil {
		return nil, fmt.Errorf("failed to create query embedding: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("empty embeddings")
	}

	return vecs[0], nil
}
