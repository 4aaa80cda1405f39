package interfaces

import "context"

// EmbeddingService wraps the embedding backend behind a process-wide shared
// instance. The backing model is expensive to initialize, so implementations
// are lazily-initialized singletons reused across all concurrent requests,
// never re-created per call.
type EmbeddingService interface {
	// GenerateEmbedding embeds a single text. When the backend is unavailable
	// it returns a deterministic content-derived fallback vector and
	// degraded=true; callers surface the degradation in logs and status,
	// never as a silent quality drop.
	GenerateEmbedding(ctx context.Context, text string) (vector []float32, degraded bool, err error)

	// GenerateEmbeddings embeds a batch of texts. Result order matches input
	// order. Degradation semantics match GenerateEmbedding and apply to the
	// whole batch.
	GenerateEmbeddings(ctx context.Context, texts []string) (vectors [][]float32, degraded bool, err error)

	// Dimension returns the fixed vector dimension D of this configuration.
	Dimension() int

	// Version identifies the embedder configuration (provider/model@dim).
	// Vector entries are stamped with this version; queries reject entries
	// written under a different version instead of mixing vector spaces.
	Version() string

	// HashVersion identifies the degraded hash-fallback space (hash@dim).
	// Entries embedded through the fallback are stamped with this version so
	// real-embedder queries exclude them after the backend recovers; they are
	// re-embedded properly on the next re-index.
	HashVersion() string
}
