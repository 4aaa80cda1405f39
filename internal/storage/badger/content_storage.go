package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ContentStorage implements interfaces.ContentStorage for Badger
type ContentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewContentStorage creates a new ContentStorage instance
func NewContentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ContentStorage {
	return &ContentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ContentStorage) Save(content *models.CourseContent) error {
	if content.ID == "" {
		return fmt.Errorf("content ID is required")
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}

	if err := s.db.Store().Upsert(content.ID, content); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}
	return nil
}

func (s *ContentStorage) Get(id string) (*models.CourseContent, error) {
	var content models.CourseContent
	if err := s.db.Store().Get(id, &content); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

func (s *ContentStorage) ListByCourse(courseID string) ([]*models.CourseContent, error) {
	var contents []models.CourseContent
	err := s.db.Store().Find(&contents, badgerhold.Where("CourseID").Eq(courseID).Index("CourseID"))
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}

	result := make([]*models.CourseContent, len(contents))
	for i := range contents {
		result[i] = &contents[i]
	}
	return result, nil
}

func (s *ContentStorage) Delete(id string) error {
	if err := s.db.Store().Delete(id, &models.CourseContent{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}
