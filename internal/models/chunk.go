package models

import "fmt"

// Chunk is a bounded segment of a document's extracted text, the unit of
// embedding and retrieval. Chunks have no independent lifecycle: they are
// regenerated wholesale whenever their content is re-indexed.
type Chunk struct {
	Text          string        `json:"text"`
	SequenceIndex int           `json:"sequence_index"`
	Metadata      ChunkMetadata `json:"metadata"`
}

// ChunkMetadata travels with the chunk into the vector index and back out
// as source attribution on answers.
type ChunkMetadata struct {
	SourceTitle string `json:"source_title,omitempty"`
	Section     string `json:"section,omitempty"`
	PageNumber  int    `json:"page_number,omitempty"`
}

// VectorEntryID builds the composite index entry id for a chunk of a content
// item. Stable across re-indexing runs so a full replace lands on the same
// key space.
func VectorEntryID(contentID string, sequenceIndex int) string {
	return fmt.Sprintf("%s_%04d", contentID, sequenceIndex)
}

// SourceRef is the structured attribution returned alongside an answer.
type SourceRef struct {
	ContentID   string  `json:"content_id"`
	SourceTitle string  `json:"source_title,omitempty"`
	Section     string  `json:"section,omitempty"`
	PageNumber  int     `json:"page_number,omitempty"`
	Similarity  float64 `json:"similarity"`
	Excerpt     string  `json:"excerpt,omitempty"`
}
