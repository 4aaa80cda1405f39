package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ThreadStorage implements interfaces.ThreadStorage for Badger
type ThreadStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewThreadStorage creates a new ThreadStorage instance
func NewThreadStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ThreadStorage {
	return &ThreadStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ThreadStorage) Save(thread *models.Thread) error {
	if thread.ID == "" {
		return fmt.Errorf("thread ID is required")
	}

	now := time.Now().UTC()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now

	if err := s.db.Store().Upsert(thread.ID, thread); err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

func (s *ThreadStorage) Get(id string) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.Store().Get(id, &thread); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return &thread, nil
}

func (s *ThreadStorage) ListByStudentCourse(studentID, courseID string) ([]*models.Thread, error) {
	var threads []models.Thread
	err := s.db.Store().Find(&threads,
		badgerhold.Where("StudentID").Eq(studentID).Index("StudentID").And("CourseID").Eq(courseID))
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	// Most recently active first
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})

	result := make([]*models.Thread, len(threads))
	for i := range threads {
		result[i] = &threads[i]
	}
	return result, nil
}
