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

// QueryStorage implements interfaces.QueryStorage for Badger. Records are
// append-only; there is deliberately no update or delete path.
type QueryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQueryStorage creates a new QueryStorage instance
func NewQueryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QueryStorage {
	return &QueryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *QueryStorage) Save(record *models.QueryRecord) error {
	if record.ID == "" {
		return fmt.Errorf("query record ID is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save query record: %w", err)
	}
	return nil
}

func (s *QueryStorage) ListByThread(threadID string) ([]*models.QueryRecord, error) {
	var records []models.QueryRecord
	err := s.db.Store().Find(&records, badgerhold.Where("ThreadID").Eq(threadID).Index("ThreadID"))
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}

	// Chronological order within a thread
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	result := make([]*models.QueryRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *QueryStorage) ListByStudentCourse(studentID, courseID string, limit int) ([]*models.QueryRecord, error) {
	var records []models.QueryRecord
	err := s.db.Store().Find(&records,
		badgerhold.Where("StudentID").Eq(studentID).Index("StudentID").And("CourseID").Eq(courseID))
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}

	// Newest first for history views
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.QueryRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
