package interfaces

import (
	"context"

	"github.com/ternarybob/docere/internal/models"
)

// VectorEntry is one embedded chunk as stored in the vector index.
// Version names the embedding space the vector was produced in; entries with
// an empty Version are stamped with the index's current embedder version.
type VectorEntry struct {
	ID        string
	ContentID string
	Embedding []float32
	Text      string
	Version   string
	Metadata  models.ChunkMetadata
}

// ScoredEntry is a retrieval result with its cosine similarity score.
type ScoredEntry struct {
	VectorEntry
	Similarity float64
}

// VectorIndex persists (vector, text, metadata) triples partitioned by
// course scope and supports nearest-neighbor retrieval. Entries for one
// content item are always replaced as a whole: readers may briefly observe
// fewer results during a replace, never a mix of old and new chunks.
type VectorIndex interface {
	// Upsert atomically replaces all entries for contentID within scope.
	Upsert(ctx context.Context, scope, contentID string, entries []VectorEntry) error

	// Query returns the topK entries nearest to the query vector, restricted
	// to the given scope. Over-fetches internally before final truncation.
	// An empty scope yields an empty result, not an error.
	Query(ctx context.Context, scope string, vector []float32, topK int) ([]ScoredEntry, error)

	// Delete removes all entries for contentID within scope.
	Delete(ctx context.Context, scope, contentID string) error

	// Count returns the number of live entries for contentID within scope.
	// Used to verify stale INDEXING rows before resetting them.
	Count(ctx context.Context, scope, contentID string) (int, error)

	// Close flushes and releases the underlying store.
	Close() error
}
