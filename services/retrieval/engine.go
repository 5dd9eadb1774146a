// Package retrieval embeds an incoming question and fetches the most
// relevant corpus passages from the vector index.
package retrieval

import (
	"context"

	"github.com/dotnetIka/histqa/providers"
	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/vectorstore"
	"go.uber.org/zap"
)

// DefaultTopK is the number of passages retrieved when none is configured.
const DefaultTopK = 5

// Engine retrieves the top-k most similar passages for a question.
// It performs no retries and never mutates the index; failures of either
// collaborator are wrapped and propagated to the caller.
type Engine struct {
	embedder providers.Embedder
	index    vectorstore.Index
	topK     int
	logger   *zap.Logger
}

// NewEngine creates a retrieval engine. A non-positive topK falls back to
// DefaultTopK.
func NewEngine(embedder providers.Embedder, index vectorstore.Index, topK int, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the texts of the passages most similar to the question,
// in the order returned by the index (descending similarity).
func (e *Engine) Retrieve(ctx context.Context, question string) ([]string, error) {
	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, services.WrapRetrieval("failed to embed question", err)
	}

	hits, err := e.index.Search(ctx, vector, e.topK)
	if err != nil {
		return nil, services.WrapRetrieval("failed to search vector index", err)
	}

	passages := make([]string, 0, len(hits))
	for _, hit := range hits {
		passages = append(passages, hit.Payload.Text)
	}

	e.logger.Debug("retrieved passages",
		zap.Int("count", len(passages)),
		zap.Int("top_k", e.topK))

	return passages, nil
}
