package vector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

const testVersion = "test/stub@4"

func newTestIndex() *ChromemIndex {
	return NewInMemoryIndex(testVersion, common.GetLogger())
}

func entriesFor(contentID string, vectors ...[]float32) []interfaces.VectorEntry {
	entries := make([]interfaces.VectorEntry, len(vectors))
	for i, v := range vectors {
		entries[i] = interfaces.VectorEntry{
			ID:        models.VectorEntryID(contentID, i),
			ContentID: contentID,
			Embedding: v,
			Text:      fmt.Sprintf("%s chunk %d", contentID, i),
			Metadata:  models.ChunkMetadata{SourceTitle: "Test Doc", PageNumber: i + 1},
		}
	}
	return entries
}

func TestUpsertAndQuery(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, "course_1", "content_a", entriesFor("content_a",
		[]float32{1, 0, 0, 0},
		[]float32{0, 1, 0, 0},
	))
	require.NoError(t, err)

	results, err := idx.Query(ctx, "course_1", []float32{1, 0, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "content_a_0000", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 0.001)
	assert.Equal(t, "Test Doc", results[0].Metadata.SourceTitle)
	assert.Equal(t, 1, results[0].Metadata.PageNumber)
}

func TestScopeIsolation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "course_a", "content_a",
		entriesFor("content_a", []float32{1, 0, 0, 0})))
	require.NoError(t, idx.Upsert(ctx, "course_b", "content_b",
		entriesFor("content_b", []float32{1, 0, 0, 0})))

	// Identical vectors, but course_a queries never see course_b entries
	results, err := idx.Query(ctx, "course_a", []float32{1, 0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "content_a", results[0].ContentID)
}

func TestQueryEmptyScope(t *testing.T) {
	idx := newTestIndex()

	results, err := idx.Query(context.Background(), "course_unknown", []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err, "empty scope is not an error")
	assert.Empty(t, results)
}

func TestUpsertReplacesWholeContent(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a", entriesFor("content_a",
		[]float32{1, 0, 0, 0},
		[]float32{0, 1, 0, 0},
		[]float32{0, 0, 1, 0},
	)))

	count, err := idx.Count(ctx, "course_1", "content_a")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Re-index with fewer chunks: no stale entries survive
	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a", entriesFor("content_a",
		[]float32{0, 0, 0, 1},
	)))

	count, err = idx.Count(ctx, "course_1", "content_a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := idx.Query(ctx, "course_1", []float32{0, 0, 1, 0}, 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "content_a_0000", r.ID, "only the replacement entry remains")
	}
}

func TestUpsertLeavesOtherContentAlone(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a",
		entriesFor("content_a", []float32{1, 0, 0, 0})))
	require.NoError(t, idx.Upsert(ctx, "course_1", "content_b",
		entriesFor("content_b", []float32{0, 1, 0, 0})))

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a",
		entriesFor("content_a", []float32{0, 0, 1, 0})))

	count, err := idx.Count(ctx, "course_1", "content_b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDelete(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a",
		entriesFor("content_a", []float32{1, 0, 0, 0}, []float32{0, 1, 0, 0})))

	require.NoError(t, idx.Delete(ctx, "course_1", "content_a"))

	count, err := idx.Count(ctx, "course_1", "content_a")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Deleting from an unknown scope is a no-op
	assert.NoError(t, idx.Delete(ctx, "course_missing", "content_a"))
}

func TestQueryFiltersForeignEmbedderVersion(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a",
		entriesFor("content_a", []float32{1, 0, 0, 0})))

	// Same store reopened under a different embedder configuration
	idx.version = "test/other@4"

	results, err := idx.Query(ctx, "course_1", []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results, "entries from another vector space must not be returned")
}

func TestQueryFiltersHashFallbackEntries(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	// Degraded ingestion stamps entries with the hash-space version
	degraded := entriesFor("content_a", []float32{1, 0, 0, 0})
	degraded[0].Version = "hash@4"
	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a", degraded))

	require.NoError(t, idx.Upsert(ctx, "course_1", "content_b",
		entriesFor("content_b", []float32{1, 0, 0, 0})))

	// Real-embedder queries only rank the real-space entries
	results, err := idx.Query(ctx, "course_1", []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "content_b", results[0].ContentID)
	assert.Equal(t, testVersion, results[0].Version)
}

func TestUpsertValidation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, "", "content_a", nil)
	assert.Error(t, err)

	err = idx.Upsert(ctx, "course_1", "content_a", []interfaces.VectorEntry{
		{ID: "content_a_0000", ContentID: "content_a", Embedding: []float32{1, 0}},
		{ID: "content_a_0001", ContentID: "content_a", Embedding: []float32{1, 0, 0}},
	})
	assert.Error(t, err, "mixed dimensions must be rejected")
}

func TestQueryTruncatesToTopK(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	vectors := make([][]float32, 6)
	for i := range vectors {
		vectors[i] = []float32{1, float32(i) * 0.1, 0, 0}
	}
	require.NoError(t, idx.Upsert(ctx, "course_1", "content_a", entriesFor("content_a", vectors...)))

	results, err := idx.Query(ctx, "course_1", []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}
