package models

import (
	"fmt"
	"time"
)

// IndexState is the indexing lifecycle state of one content item.
// NOT_INDEXED doubles as the failed/needs-retry state, annotated with an
// error message.
type IndexState string

const (
	IndexStateNotIndexed IndexState = "not_indexed"
	IndexStateIndexing   IndexState = "indexing"
	IndexStateCompleted  IndexState = "completed"
)

// CanTransition reports whether moving from the current state to the target
// state is a legal state-machine transition.
//
//	NOT_INDEXED -> INDEXING   (index request)
//	COMPLETED   -> INDEXING   (re-index request)
//	INDEXING    -> COMPLETED  (pipeline success)
//	INDEXING    -> NOT_INDEXED (pipeline failure)
func (s IndexState) CanTransition(to IndexState) bool {
	switch s {
	case IndexStateNotIndexed, IndexStateCompleted:
		return to == IndexStateIndexing
	case IndexStateIndexing:
		return to == IndexStateCompleted || to == IndexStateNotIndexed
	default:
		return false
	}
}

// Valid reports whether the state is one of the defined values.
func (s IndexState) Valid() bool {
	switch s {
	case IndexStateNotIndexed, IndexStateIndexing, IndexStateCompleted:
		return true
	}
	return false
}

// IndexStatus is the per-content status row. Created lazily on the first
// indexing attempt and mutated only through the transition helpers; never
// deleted while the content exists.
type IndexStatus struct {
	ContentID    string     `json:"content_id" badgerhold:"key"`
	CourseID     string     `json:"course_id" badgerhold:"index"`
	State        IndexState `json:"state"`
	ChunkCount   int        `json:"chunk_count"`
	Degraded     bool       `json:"degraded,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// NewIndexStatus returns a fresh NOT_INDEXED row for a content item.
func NewIndexStatus(contentID, courseID string) *IndexStatus {
	return &IndexStatus{
		ContentID:   contentID,
		CourseID:    courseID,
		State:       IndexStateNotIndexed,
		LastUpdated: time.Now().UTC(),
	}
}

// BeginIndexing transitions the row to INDEXING. Idempotent with respect to
// duplicate requests: re-entering INDEXING while already INDEXING is allowed
// (last-writer-wins; duplicate embedding work is wasteful but safe because
// the final index write is a full replace).
func (s *IndexStatus) BeginIndexing() error {
	if s.State != IndexStateIndexing && !s.State.CanTransition(IndexStateIndexing) {
		return fmt.Errorf("cannot start indexing from state %q", s.State)
	}
	s.State = IndexStateIndexing
	s.ErrorMessage = ""
	s.LastUpdated = time.Now().UTC()
	return nil
}

// Complete transitions INDEXING -> COMPLETED, recording the chunk count and
// clearing any prior error. degraded marks runs that embedded through the
// hash fallback: the content is searchable only in degraded mode until a
// re-index replaces its vectors with real embeddings.
func (s *IndexStatus) Complete(chunkCount int, degraded bool) error {
	if !s.State.CanTransition(IndexStateCompleted) {
		return fmt.Errorf("cannot complete from state %q", s.State)
	}
	s.State = IndexStateCompleted
	s.ChunkCount = chunkCount
	s.Degraded = degraded
	s.ErrorMessage = ""
	s.LastUpdated = time.Now().UTC()
	return nil
}

// Fail transitions INDEXING -> NOT_INDEXED, recording the failure reason.
// ChunkCount is left as-is: it reflects the prior successful run and must
// not be trusted to match live index entries while in the failed state.
func (s *IndexStatus) Fail(reason string) error {
	if !s.State.CanTransition(IndexStateNotIndexed) {
		return fmt.Errorf("cannot fail from state %q", s.State)
	}
	s.State = IndexStateNotIndexed
	s.ErrorMessage = truncateError(reason)
	s.LastUpdated = time.Now().UTC()
	return nil
}

// StaleSince reports whether a row stuck in INDEXING is older than the given
// threshold. Callers verify the vector index holds no entries before treating
// a stale row as failed.
func (s *IndexStatus) StaleSince(threshold time.Duration) bool {
	return s.State == IndexStateIndexing && time.Since(s.LastUpdated) > threshold
}

// maxErrorLen bounds stored error messages so a noisy backend cannot bloat
// the status row or leak pages of internal detail to clients.
const maxErrorLen = 500

func truncateError(msg string) string {
	if len(msg) > maxErrorLen {
		return msg[:maxErrorLen] + "..."
	}
	return msg
}
