package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations including
// embeddings generation and chat completions. Implementations may use
// cloud-based APIs (Gemini, Claude) or a deterministic offline fallback.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	// The embedding is used for semantic search and vector storage.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - text: Input text to generate embedding for
	//
	// Returns:
	//   - []float32: embedding vector of the configured dimension
	//   - error: models.ErrEmbeddingUnavailable if the backend cannot be reached
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one backend call.
	// Result order matches input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context including
	// system prompts, user messages, and previous assistant responses.
	//
	// Returns models.ErrGenerationUnavailable if the backend cannot be reached;
	// callers must degrade rather than propagate that error to students.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the LLM service is operational and can handle requests.
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations.
	Close() error
}
