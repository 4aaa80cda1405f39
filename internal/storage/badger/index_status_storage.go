package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IndexStatusStorage implements interfaces.IndexStatusStorage for Badger.
// Concurrent writers use last-writer-wins on the whole row, which the state
// machine tolerates.
type IndexStatusStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIndexStatusStorage creates a new IndexStatusStorage instance
func NewIndexStatusStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IndexStatusStorage {
	return &IndexStatusStorage{
		db:     db,
		logger: logger,
	}
}

func (s *IndexStatusStorage) Save(status *models.IndexStatus) error {
	if status.ContentID == "" {
		return fmt.Errorf("content ID is required")
	}

	if err := s.db.Store().Upsert(status.ContentID, status); err != nil {
		return fmt.Errorf("failed to save index status: %w", err)
	}
	return nil
}

func (s *IndexStatusStorage) Get(contentID string) (*models.IndexStatus, error) {
	var status models.IndexStatus
	if err := s.db.Store().Get(contentID, &status); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get index status: %w", err)
	}
	return &status, nil
}

func (s *IndexStatusStorage) Delete(contentID string) error {
	err := s.db.Store().Delete(contentID, &models.IndexStatus{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete index status: %w", err)
	}
	return nil
}

func (s *IndexStatusStorage) ListByCourse(courseID string) ([]*models.IndexStatus, error) {
	var statuses []models.IndexStatus
	err := s.db.Store().Find(&statuses, badgerhold.Where("CourseID").Eq(courseID).Index("CourseID"))
	if err != nil {
		return nil, fmt.Errorf("failed to list index statuses: %w", err)
	}

	result := make([]*models.IndexStatus, len(statuses))
	for i := range statuses {
		result[i] = &statuses[i]
	}
	return result, nil
}
