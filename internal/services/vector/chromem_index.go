package vector

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// Metadata keys stored with every index entry.
const (
	metaContentID = "content_id"
	metaCourseID  = "course_id"
	metaEmbedder  = "embedder"
	metaSeq       = "seq"
	metaTitle     = "source_title"
	metaSection   = "section"
	metaPage      = "page_number"
)

// overFetchFactor compensates for backend-side filtering before final
// truncation.
const overFetchFactor = 2

// ChromemIndex implements interfaces.VectorIndex on chromem-go, an embedded
// vector database with cosine similarity. Each course scope maps to its own
// collection, so cross-course leakage is structurally impossible rather than
// filter-dependent. Entries carry the embedder version; queries skip entries
// written under a different version instead of mixing vector spaces.
type ChromemIndex struct {
	db        *chromem.DB
	logger    arbor.ILogger
	version   string
	mu        sync.Mutex // guards collection create/delete
	perInsert int
}

var _ interfaces.VectorIndex = (*ChromemIndex)(nil)

// NewChromemIndex opens (or creates) the persistent index under the
// configured directory. embedderVersion stamps new entries and filters reads.
func NewChromemIndex(config *common.Config, embedderVersion string, logger arbor.ILogger) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(config.Vector.Dir, config.Vector.Compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index at %s: %w", config.Vector.Dir, err)
	}

	logger.Debug().
		Str("path", config.Vector.Dir).
		Str("embedder", embedderVersion).
		Msg("Vector index opened")

	return &ChromemIndex{
		db:        db,
		logger:    logger,
		version:   embedderVersion,
		perInsert: config.RAG.EmbedConcurrency,
	}, nil
}

// NewInMemoryIndex creates a non-persistent index. Used by tests and usable
// as an ephemeral store.
func NewInMemoryIndex(embedderVersion string, logger arbor.ILogger) *ChromemIndex {
	return &ChromemIndex{
		db:        chromem.NewDB(),
		logger:    logger,
		version:   embedderVersion,
		perInsert: 2,
	}
}

// collectionNameRe strips characters chromem collection names reject.
var collectionNameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// collectionName maps a course scope onto a valid collection name.
func collectionName(scope string) string {
	sanitized := collectionNameRe.ReplaceAllString(scope, "-")
	return "course-" + sanitized
}

// noEmbedFunc rejects implicit embedding: every entry arrives with a
// precomputed vector, and queries supply theirs. A call here means a bug.
func noEmbedFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("vector index requires precomputed embeddings")
}

func (x *ChromemIndex) collection(scope string) (*chromem.Collection, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.db.GetOrCreateCollection(collectionName(scope), nil, noEmbedFunc)
}

// Upsert atomically replaces all entries for contentID within scope.
// Delete-old-then-insert-new: a concurrent reader may briefly see fewer
// results for the content, never a mix of old and new chunks.
func (x *ChromemIndex) Upsert(ctx context.Context, scope, contentID string, entries []interfaces.VectorEntry) error {
	if scope == "" || contentID == "" {
		return fmt.Errorf("scope and content ID are required")
	}

	dim := -1
	for i, entry := range entries {
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("entry %d has no embedding", i)
		}
		if dim == -1 {
			dim = len(entry.Embedding)
		} else if len(entry.Embedding) != dim {
			return fmt.Errorf("entry %d dimension %d differs from %d", i, len(entry.Embedding), dim)
		}
	}

	col, err := x.collection(scope)
	if err != nil {
		return fmt.Errorf("failed to open collection for scope %s: %w", scope, err)
	}

	if err := x.deleteFromCollection(ctx, col, contentID); err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, entry := range entries {
		version := entry.Version
		if version == "" {
			version = x.version
		}
		docs[i] = chromem.Document{
			ID:        entry.ID,
			Content:   entry.Text,
			Embedding: entry.Embedding,
			Metadata: map[string]string{
				metaContentID: entry.ContentID,
				metaCourseID:  scope,
				metaEmbedder:  version,
				metaSeq:       strconv.Itoa(i),
				metaTitle:     entry.Metadata.SourceTitle,
				metaSection:   entry.Metadata.Section,
				metaPage:      strconv.Itoa(entry.Metadata.PageNumber),
			},
		}
	}

	concurrency := x.perInsert
	if concurrency <= 0 {
		concurrency = 1
	}
	if err := col.AddDocuments(ctx, docs, concurrency); err != nil {
		return fmt.Errorf("failed to add %d entries for content %s: %w", len(docs), contentID, err)
	}

	x.logger.Debug().
		Str("scope", scope).
		Str("content_id", contentID).
		Int("entries", len(docs)).
		Msg("Vector entries replaced")

	return nil
}

// Query returns the topK nearest entries within scope, cosine-ranked.
// Over-fetches before version filtering and final truncation. An unknown or
// empty scope yields an empty result.
func (x *ChromemIndex) Query(ctx context.Context, scope string, vector []float32, topK int) ([]interfaces.ScoredEntry, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	col := x.db.GetCollection(collectionName(scope), noEmbedFunc)
	if col == nil || col.Count() == 0 {
		return nil, nil
	}

	fetch := topK * overFetchFactor
	if count := col.Count(); fetch > count {
		fetch = count
	}

	results, err := col.QueryEmbedding(ctx, vector, fetch, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed for scope %s: %w", scope, err)
	}

	entries := make([]interfaces.ScoredEntry, 0, topK)
	skipped := 0
	for _, result := range results {
		if result.Metadata[metaEmbedder] != x.version {
			skipped++
			continue
		}
		entries = append(entries, x.toScoredEntry(result))
		if len(entries) == topK {
			break
		}
	}

	if skipped > 0 {
		x.logger.Warn().
			Str("scope", scope).
			Int("skipped", skipped).
			Str("embedder", x.version).
			Msg("Skipped entries written under a different embedder version; re-index the affected content")
	}

	return entries, nil
}

func (x *ChromemIndex) toScoredEntry(result chromem.Result) interfaces.ScoredEntry {
	page, _ := strconv.Atoi(result.Metadata[metaPage])
	return interfaces.ScoredEntry{
		VectorEntry: interfaces.VectorEntry{
			ID:        result.ID,
			ContentID: result.Metadata[metaContentID],
			Embedding: result.Embedding,
			Text:      result.Content,
			Version:   result.Metadata[metaEmbedder],
			Metadata: models.ChunkMetadata{
				SourceTitle: result.Metadata[metaTitle],
				Section:     result.Metadata[metaSection],
				PageNumber:  page,
			},
		},
		Similarity: float64(result.Similarity),
	}
}

// Delete removes all entries for contentID within scope.
func (x *ChromemIndex) Delete(ctx context.Context, scope, contentID string) error {
	col := x.db.GetCollection(collectionName(scope), noEmbedFunc)
	if col == nil {
		return nil
	}
	return x.deleteFromCollection(ctx, col, contentID)
}

func (x *ChromemIndex) deleteFromCollection(ctx context.Context, col *chromem.Collection, contentID string) error {
	if col.Count() == 0 {
		return nil
	}
	if err := col.Delete(ctx, map[string]string{metaContentID: contentID}, nil); err != nil {
		return fmt.Errorf("failed to delete entries for content %s: %w", contentID, err)
	}
	return nil
}

// Count returns the number of live entries for contentID within scope.
// Entry IDs are dense per content (sequence 0..n-1), so probing by ID walks
// the exact set without a filtered-count primitive in the backend.
func (x *ChromemIndex) Count(ctx context.Context, scope, contentID string) (int, error) {
	col := x.db.GetCollection(collectionName(scope), noEmbedFunc)
	if col == nil {
		return 0, nil
	}

	count := 0
	for seq := 0; seq < col.Count(); seq++ {
		if _, err := col.GetByID(ctx, models.VectorEntryID(contentID, seq)); err != nil {
			break
		}
		count++
	}
	return count, nil
}

// Close is a no-op for chromem; the persistent store writes through on every
// mutation.
func (x *ChromemIndex) Close() error {
	return nil
}
