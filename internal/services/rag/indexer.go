// -----------------------------------------------------------------------
// Indexer - Asynchronous content ingestion pipeline
// -----------------------------------------------------------------------

package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// IndexContent triggers asynchronous ingestion of a registered content item.
// The status row moves to INDEXING before this returns; the pipeline runs in
// a recovered goroutine and records its outcome on the same row. Duplicate
// requests while INDEXING are accepted: the final index write is a full
// replace, so the last run wins.
func (s *Service) IndexContent(ctx context.Context, contentID string) (*interfaces.IndexResponse, error) {
	content, err := s.storage.ContentStorage().Get(contentID)
	if err != nil {
		return nil, err
	}
	if !content.Type.Indexable() {
		return nil, fmt.Errorf("%w: %s content cannot be indexed", models.ErrUnsupportedType, content.Type)
	}

	status, err := s.storage.IndexStatusStorage().Get(contentID)
	if errors.Is(err, models.ErrNotFound) {
		status = models.NewIndexStatus(content.ID, content.CourseID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load index status: %w", err)
	}

	if err := status.BeginIndexing(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if err := s.storage.IndexStatusStorage().Save(status); err != nil {
		return nil, fmt.Errorf("failed to save index status: %w", err)
	}

	s.logger.Info().
		Str("content_id", content.ID).
		Str("course_id", content.CourseID).
		Msg("Indexing started")

	// Detached from the request context: the pipeline outlives the HTTP call.
	common.SafeGo(s.logger, "index-content", func() {
		s.runPipeline(context.Background(), content)
	})

	return &interfaces.IndexResponse{
		ContentID:     content.ID,
		Status:        string(models.IndexStateIndexing),
		ChunksCreated: status.ChunkCount,
	}, nil
}

// runPipeline executes download -> extract -> chunk -> embed -> index and
// records the terminal state. Any failure lands the row back in NOT_INDEXED
// with a bounded error message.
func (s *Service) runPipeline(ctx context.Context, content *models.CourseContent) {
	dctx, cancel := context.WithTimeout(ctx, s.config.DownloadTimeout())
	data, err := s.downloader.Download(dctx, content.URL)
	cancel()
	if err != nil {
		s.failIndexing(content, fmt.Sprintf("download failed: %v", err))
		return
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		s.failIndexing(content, fmt.Sprintf("text extraction failed: %v", err))
		return
	}
	if strings.TrimSpace(text) == "" {
		s.failIndexing(content, "document contains no extractable text")
		return
	}

	chunks := s.chunker.Chunk(text, content.Title)
	if len(chunks) == 0 {
		s.failIndexing(content, "document produced no usable chunks")
		return
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, degraded, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		s.failIndexing(content, fmt.Sprintf("embedding failed: %v", err))
		return
	}

	// Hash-fallback vectors live in their own version space: a degraded run
	// stays retrievable in degraded mode but never ranks against real
	// embeddings once the backend recovers.
	version := s.embedder.Version()
	if degraded {
		version = s.embedder.HashVersion()
	}

	entries := make([]interfaces.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = interfaces.VectorEntry{
			ID:        models.VectorEntryID(content.ID, chunk.SequenceIndex),
			ContentID: content.ID,
			Embedding: vectors[i],
			Text:      chunk.Text,
			Version:   version,
			Metadata:  chunk.Metadata,
		}
	}
	if err := s.index.Upsert(ctx, content.CourseID, content.ID, entries); err != nil {
		s.failIndexing(content, fmt.Sprintf("index write failed: %v", err))
		return
	}

	status, err := s.storage.IndexStatusStorage().Get(content.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("content_id", content.ID).Msg("Status row vanished after indexing")
		return
	}
	if err := status.Complete(len(chunks), degraded); err != nil {
		s.logger.Warn().Err(err).Str("content_id", content.ID).Msg("Completion raced with another transition")
		return
	}
	if err := s.storage.IndexStatusStorage().Save(status); err != nil {
		s.logger.Error().Err(err).Str("content_id", content.ID).Msg("Failed to save completed status")
		return
	}

	s.logger.Info().
		Str("content_id", content.ID).
		Int("chunks", len(chunks)).
		Bool("degraded", degraded).
		Msg("Indexing completed")

	s.notifyIndexed(ctx, content, len(chunks))
}

// failIndexing records a pipeline failure on the status row.
func (s *Service) failIndexing(content *models.CourseContent, reason string) {
	s.logger.Warn().
		Str("content_id", content.ID).
		Str("reason", reason).
		Msg("Indexing failed")

	status, err := s.storage.IndexStatusStorage().Get(content.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("content_id", content.ID).Msg("Failed to load status row for failure record")
		return
	}
	if err := status.Fail(reason); err != nil {
		s.logger.Warn().Err(err).Str("content_id", content.ID).Msg("Failure raced with another transition")
		return
	}
	if err := s.storage.IndexStatusStorage().Save(status); err != nil {
		s.logger.Error().Err(err).Str("content_id", content.ID).Msg("Failed to save failed status")
	}
}

// notifyIndexed tells enrolled students new material is searchable.
// Fire-and-forget: delivery failure never affects the pipeline outcome.
func (s *Service) notifyIndexed(ctx context.Context, content *models.CourseContent, chunkCount int) {
	if s.notifier == nil {
		return
	}
	students, err := s.storage.EnrollmentStorage().ListStudentsByCourse(content.CourseID)
	if err != nil || len(students) == 0 {
		return
	}
	err = s.notifier.Notify(ctx, students,
		"New course material available",
		fmt.Sprintf("%q is now searchable. Ask questions about it any time.", content.Title),
		map[string]string{
			"content_id": content.ID,
			"course_id":  content.CourseID,
			"chunks":     fmt.Sprintf("%d", chunkCount),
		})
	if err != nil {
		s.logger.Warn().Err(err).Str("content_id", content.ID).Msg("Notification delivery failed")
	}
}

// RemoveContent deletes a content item, its vector entries, and its status
// row. Index entries go first so a partial failure can only leave a content
// row that retries cleanly.
func (s *Service) RemoveContent(ctx context.Context, contentID string) error {
	content, err := s.storage.ContentStorage().Get(contentID)
	if err != nil {
		return err
	}

	if err := s.index.Delete(ctx, content.CourseID, content.ID); err != nil {
		return fmt.Errorf("failed to delete index entries: %w", err)
	}
	if err := s.storage.IndexStatusStorage().Delete(content.ID); err != nil {
		return err
	}
	if err := s.storage.ContentStorage().Delete(content.ID); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	s.logger.Info().
		Str("content_id", content.ID).
		Str("course_id", content.CourseID).
		Msg("Content removed")

	return nil
}

// GetIndexStatus reads the status row for a content item. A row stuck in
// INDEXING past the staleness threshold with no live index entries is
// self-healed to NOT_INDEXED so the client can retry.
func (s *Service) GetIndexStatus(ctx context.Context, contentID string) (*interfaces.IndexStatusResponse, error) {
	content, err := s.storage.ContentStorage().Get(contentID)
	if err != nil {
		return nil, err
	}

	status, err := s.storage.IndexStatusStorage().Get(contentID)
	if errors.Is(err, models.ErrNotFound) {
		// Never indexed; the row is created lazily on the first attempt.
		status = models.NewIndexStatus(content.ID, content.CourseID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load index status: %w", err)
	}

	if status.StaleSince(s.config.StalenessThreshold()) {
		count, countErr := s.index.Count(ctx, content.CourseID, contentID)
		if countErr == nil && count == 0 {
			if failErr := status.Fail("indexing timed out; please retry"); failErr == nil {
				if saveErr := s.storage.IndexStatusStorage().Save(status); saveErr != nil {
					s.logger.Error().Err(saveErr).Str("content_id", contentID).Msg("Failed to persist staleness reset")
				}
				s.logger.Warn().Str("content_id", contentID).Msg("Stale indexing state reset")
			}
		}
	}

	return &interfaces.IndexStatusResponse{
		ContentID:     status.ContentID,
		Status:        string(status.State),
		ChunksCreated: status.ChunkCount,
		Degraded:      status.Degraded,
		LastUpdated:   status.LastUpdated,
		ErrorMessage:  status.ErrorMessage,
	}, nil
}
