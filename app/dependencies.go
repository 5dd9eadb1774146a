package app

import (
	"context"
	"fmt"

	"github.com/dotnetIka/histqa/config"
	"github.com/dotnetIka/histqa/handlers"
	"github.com/dotnetIka/histqa/providers/openai"
	"github.com/dotnetIka/histqa/services/cache"
	"github.com/dotnetIka/histqa/services/compose"
	"github.com/dotnetIka/histqa/services/ingest"
	"github.com/dotnetIka/histqa/services/qa"
	"github.com/dotnetIka/histqa/services/retrieval"
	"github.com/dotnetIka/histqa/vectorstore/qdrant"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Adapters
	OpenAI *openai.Client
	Qdrant *qdrant.Client

	// Services
	AnswerCache *cache.AnswerCache
	Retrieval   *retrieval.Engine
	Composer    *compose.Composer
	Pipeline    *qa.Pipeline
	Ingest      *ingest.Service

	// Handlers
	AskHandler    *handlers.AskHandler
	IngestHandler *handlers.IngestHandler
	HealthHandler *handlers.HealthHandler

	cleanupStop chan struct{}
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initAdapters(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}

	deps.initServices(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initAdapters initializes the OpenAI and Qdrant clients
func (d *Dependencies) initAdapters(cfg *config.Config) error {
	openaiClient, err := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		ChatModel:      cfg.OpenAI.ChatModel,
		Timeout:        cfg.OpenAI.Timeout,
	}, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	d.OpenAI = openaiClient

	qdrantClient, err := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Timeout:    cfg.Qdrant.Timeout,
	}, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	d.Qdrant = qdrantClient

	d.Logger.Info("adapters initialized",
		zap.String("qdrant_url", cfg.Qdrant.URL),
		zap.String("collection", cfg.Qdrant.Collection))
	return nil
}

// initServices initializes the cache, retrieval, composition and pipeline services
func (d *Dependencies) initServices(cfg *config.Config) {
	d.AnswerCache = cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)

	d.cleanupStop = make(chan struct{})
	go d.AnswerCache.StartCleanupWorker(cfg.Cache.CleanupInterval, d.cleanupStop)

	d.Retrieval = retrieval.NewEngine(d.OpenAI, d.Qdrant, cfg.Retrieval.TopK, d.Logger)
	d.Composer = compose.NewComposer(d.OpenAI, cfg.OpenAI.Temperature, d.Logger)
	d.Pipeline = qa.NewPipeline(d.AnswerCache, d.Retrieval, d.Composer, d.Logger)
	d.Ingest = ingest.NewService(d.OpenAI, d.Qdrant, cfg.Corpus.Path, cfg.Qdrant.Dimension, d.Logger)

	d.Logger.Info("services initialized",
		zap.Int("top_k", cfg.Retrieval.TopK),
		zap.Int("cache_max_entries", cfg.Cache.MaxEntries),
		zap.Duration("cache_ttl", cfg.Cache.TTL))
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() {
	d.AskHandler = handlers.NewAskHandler(d.Pipeline, d.Logger)
	d.IngestHandler = handlers.NewIngestHandler(d.Ingest, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Qdrant, d.AnswerCache, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.cleanupStop != nil {
		close(d.cleanupStop)
		d.cleanupStop = nil
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
