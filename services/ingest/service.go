// Package ingest loads the history corpus, embeds its sections, and
// upserts them into the vector index. Ingestion is an administrative
// operation, separate from serving.
package ingest

import (
	"context"
	"os"
	"strings"

	"github.com/dotnetIka/histqa/models"
	"github.com/dotnetIka/histqa/providers"
	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/vectorstore"
	"go.uber.org/zap"
)

// Service generates embeddings for the corpus and stores them.
type Service struct {
	embedder   providers.Embedder
	index      vectorstore.Index
	corpusPath string
	dimension  int
	logger     *zap.Logger
}

// NewService creates an ingestion service for the corpus file at corpusPath.
func NewService(embedder providers.Embedder, index vectorstore.Index, corpusPath string, dimension int, logger *zap.Logger) *Service {
	return &Service{
		embedder:   embedder,
		index:      index,
		corpusPath: corpusPath,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbeddings loads the corpus, splits it into sections, embeds
// each section, and upserts the resulting points. Section ids derive from
// content, so re-ingesting identical text overwrites instead of
// duplicating. Returns the number of sections processed.
func (s *Service) GenerateEmbeddings(ctx context.Context) (int, error) {
	sections, err := s.loadCorpus()
	if err != nil {
		return 0, err
	}

	if err := s.index.EnsureCollection(ctx, s.dimension); err != nil {
		return 0, err
	}

	points := make([]vectorstore.Point, 0, len(sections))
	for _, section := range sections {
		vector, err := s.embedder.Embed(ctx, section)
		if err != nil {
			return 0, err
		}
		doc := models.NewDocument(section, vector)
		points = append(points, vectorstore.Point{
			ID:      doc.ID,
			Vector:  doc.Vector,
			Payload: vectorstore.Payload{Text: doc.Text},
		})
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return 0, err
	}

	s.logger.Info("corpus embeddings generated",
		zap.String("corpus", s.corpusPath),
		zap.Int("sections", len(sections)))

	return len(sections), nil
}

// loadCorpus reads the corpus file and splits it into sections.
func (s *Service) loadCorpus() ([]string, error) {
	data, err := os.ReadFile(s.corpusPath)
	if err != nil {
		return nil, services.WrapInternal("failed to read corpus file", err)
	}

	sections := SplitSections(string(data))
	if len(sections) == 0 {
		return nil, services.WrapInternal("corpus file contains no sections", nil)
	}

	s.logger.Info("loaded corpus sections",
		zap.String("corpus", s.corpusPath),
		zap.Int("sections", len(sections)))

	return sections, nil
}

// SplitSections splits corpus content on blank lines into trimmed,
// non-empty sections.
func SplitSections(content string) []string {
	parts := strings.Split(content, "\n\n")
	sections := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sections = append(sections, part)
		}
	}
	return sections
}
