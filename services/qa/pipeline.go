// Package qa orchestrates the question-answering pipeline:
// cache -> retrieval -> composition, with wall-clock accounting.
package qa

import (
	"context"
	"strings"
	"time"

	"github.com/dotnetIka/histqa/models"
	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/services/cache"
	"github.com/dotnetIka/histqa/services/compose"
	"go.uber.org/zap"
)

// Retriever fetches the most relevant passages for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]string, error)
}

// Composer produces a grounded answer from a question and its context.
type Composer interface {
	Compose(ctx context.Context, question string, passages []string) (models.AnswerResult, error)
}

// Pipeline answers questions. Each call is independent and safe to run
// concurrently; the cache is the only shared state. No stage retries
// transient failures.
type Pipeline struct {
	cache     *cache.AnswerCache
	retriever Retriever
	composer  Composer
	logger    *zap.Logger
}

// NewPipeline creates a question-answering pipeline.
func NewPipeline(answerCache *cache.AnswerCache, retriever Retriever, composer Composer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cache:     answerCache,
		retriever: retriever,
		composer:  composer,
		logger:    logger,
	}
}

// Answer runs the pipeline for one question and returns the result with
// the elapsed wall-clock time. Elapsed is measured on every path,
// including cache hits and failures; on failure it rides on the returned
// error's details. The cache is mutated only on the success path, and
// never for the insufficient-context sentinel.
func (p *Pipeline) Answer(ctx context.Context, question string) (models.AnswerResult, time.Duration, error) {
	start := time.Now()

	if strings.TrimSpace(question) == "" {
		return models.AnswerResult{}, time.Since(start), services.ErrEmptyQuestion
	}

	if result, ok := p.cache.Get(question); ok {
		elapsed := time.Since(start)
		p.logger.Info("answer served from cache",
			zap.Duration("elapsed", elapsed))
		return result, elapsed, nil
	}

	passages, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		elapsed := time.Since(start)
		p.logger.Error("retrieval failed",
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return models.AnswerResult{}, elapsed, services.WrapQuestionAnswering(
			"failed to retrieve context", err, elapsed.Seconds())
	}

	result, err := p.composer.Compose(ctx, question, passages)
	if err != nil {
		elapsed := time.Since(start)
		p.logger.Error("answer composition failed",
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return models.AnswerResult{}, elapsed, services.WrapQuestionAnswering(
			"failed to compose answer", err, elapsed.Seconds())
	}

	if !compose.IsSentinel(result) {
		p.cache.Put(question, result)
	}

	elapsed := time.Since(start)
	p.logger.Info("answer composed",
		zap.Int("context_passages", len(passages)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", elapsed))

	return result, elapsed, nil
}
