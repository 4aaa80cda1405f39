package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Service implements interfaces.LLMService over the provider factory.
// Outbound calls share one rate limiter and one timeout budget; failures are
// mapped to the models sentinel errors so callers can degrade instead of
// leaking provider detail.
type Service struct {
	config  *common.Config
	logger  arbor.ILogger
	factory *ProviderFactory
	limiter *rate.Limiter
	timeout time.Duration
}

var _ interfaces.LLMService = (*Service)(nil)

// NewService creates the LLM service. No network calls happen here; provider
// clients initialize lazily on first use so a misconfigured backend degrades
// at call time rather than failing startup.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	perSecond := config.LLM.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := config.LLM.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Service{
		config:  config,
		logger:  logger,
		factory: NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout: config.LLMTimeout(),
	}
}

// Embed generates an embedding for one text via the Gemini embedding model.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for a batch of texts in one API call.
// Result order matches input order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty for embedding generation")
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("text %d is empty", i)
		}
	}

	client, err := s.factory.GetGeminiClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	outputDim := int32(s.config.Vector.Dimension)
	start := time.Now()

	result, err := client.Models.EmbedContent(timeoutCtx, s.config.Gemini.EmbeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("batch_size", len(texts)).
			Msg("Embedding generation failed")
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", models.ErrEmbeddingUnavailable, len(texts), embeddingCount(result))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		if len(embedding.Values) != s.config.Vector.Dimension {
			return nil, fmt.Errorf("%w: embedding dimension mismatch: expected %d, got %d",
				models.ErrEmbeddingUnavailable, s.config.Vector.Dimension, len(embedding.Values))
		}
		vectors[i] = embedding.Values
	}

	s.logger.Debug().
		Int("batch_size", len(texts)).
		Int("dimension", s.config.Vector.Dimension).
		Dur("duration", time.Since(start)).
		Msg("Embedding batch generated")

	return vectors, nil
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}

// Chat generates a completion for the conversation using the configured
// provider.
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	resp, err := s.factory.GenerateContent(timeoutCtx, &ContentRequest{
		Messages:    messages,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("%w: %v", models.ErrGenerationUnavailable, err)
	}

	s.logger.Debug().
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Int("response_length", len(resp.Text)).
		Dur("duration", time.Since(start)).
		Msg("Chat completion finished")

	return resp.Text, nil
}

// HealthCheck probes the embedding model with a minimal request.
func (s *Service) HealthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	vector, err := s.Embed(probeCtx, "health check probe")
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	if len(vector) == 0 {
		return fmt.Errorf("embedding probe returned empty vector")
	}
	return nil
}

// Close releases provider clients.
func (s *Service) Close() error {
	s.logger.Debug().Msg("Closing LLM service")
	return s.factory.Close()
}
