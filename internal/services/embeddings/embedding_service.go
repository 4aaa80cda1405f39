package embeddings

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"github.com/ternarybob/docere/internal/services/llm"
)

// Service implements interfaces.EmbeddingService on top of the LLM backend.
// One instance is shared process-wide: the backend client it wraps is
// expensive to initialize and safe for concurrent read-only inference.
//
// When the backend is unreachable the service produces deterministic
// content-derived hash vectors instead of failing the caller. The degraded
// flag travels back so ingestion can record it and logs make the quality
// drop visible.
type Service struct {
	backend     interfaces.LLMService
	logger      arbor.ILogger
	dimension   int
	version     string
	hashVersion string
}

var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates the embedding service.
func NewService(backend interfaces.LLMService, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		backend:     backend,
		logger:      logger,
		dimension:   config.Vector.Dimension,
		version:     fmt.Sprintf("gemini/%s@%d", config.Gemini.EmbeddingModel, config.Vector.Dimension),
		hashVersion: fmt.Sprintf("hash@%d", config.Vector.Dimension),
	}
}

// GenerateEmbedding embeds one text, falling back to a hash vector when the
// backend is unavailable.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, bool, error) {
	vectors, degraded, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, false, err
	}
	return vectors[0], degraded, nil
}

// GenerateEmbeddings embeds a batch of texts in backend order. On
// models.ErrEmbeddingUnavailable the whole batch degrades to hash vectors;
// other errors (cancellation, bad input) propagate.
func (s *Service) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, bool, error) {
	if len(texts) == 0 {
		return nil, false, fmt.Errorf("texts cannot be empty")
	}

	vectors, err := s.backend.EmbedBatch(ctx, texts)
	if err == nil {
		return vectors, false, nil
	}

	if !errors.Is(err, models.ErrEmbeddingUnavailable) {
		return nil, false, err
	}

	s.logger.Warn().
		Err(err).
		Int("batch_size", len(texts)).
		Bool("degraded", true).
		Msg("Embedding backend unavailable, using deterministic hash fallback")

	vectors = make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = llm.HashEmbedding(text, s.dimension)
	}
	return vectors, true, nil
}

// Dimension returns the fixed vector dimension of this configuration.
func (s *Service) Dimension() int {
	return s.dimension
}

// Version identifies the embedder configuration stamped into vector entries.
func (s *Service) Version() string {
	return s.version
}

// HashVersion identifies the degraded fallback space. Hash vectors live in a
// different geometry than real embeddings, so entries produced through the
// fallback carry this version and never rank against real-embedder queries.
func (s *Service) HashVersion() string {
	return s.hashVersion
}
