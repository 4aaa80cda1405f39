package interfaces

import (
	"github.com/ternarybob/docere/internal/models"
)

// StorageManager provides access to the typed storage services backed by a
// single badger instance.
type StorageManager interface {
	ContentStorage() ContentStorage
	IndexStatusStorage() IndexStatusStorage
	ThreadStorage() ThreadStorage
	QueryStorage() QueryStorage
	EnrollmentStorage() EnrollmentStorage

	// Close releases the underlying database.
	Close() error
}

// ContentStorage persists registered course contents.
type ContentStorage interface {
	Save(content *models.CourseContent) error
	Get(id string) (*models.CourseContent, error)
	ListByCourse(courseID string) ([]*models.CourseContent, error)
	Delete(id string) error
}

// IndexStatusStorage persists per-content indexing status rows.
// Rows are created lazily on the first indexing attempt and removed only
// when the content itself is removed.
type IndexStatusStorage interface {
	Save(status *models.IndexStatus) error
	Get(contentID string) (*models.IndexStatus, error)
	Delete(contentID string) error
	ListByCourse(courseID string) ([]*models.IndexStatus, error)
}

// ThreadStorage persists conversation threads.
type ThreadStorage interface {
	Save(thread *models.Thread) error
	Get(id string) (*models.Thread, error)
	ListByStudentCourse(studentID, courseID string) ([]*models.Thread, error)
}

// QueryStorage persists the append-only query audit log.
type QueryStorage interface {
	Save(record *models.QueryRecord) error
	ListByThread(threadID string) ([]*models.QueryRecord, error)
	ListByStudentCourse(studentID, courseID string, limit int) ([]*models.QueryRecord, error)
}

// EnrollmentStorage persists student/course enrollments.
type EnrollmentStorage interface {
	Save(enrollment *models.Enrollment) error
	Exists(studentID, courseID string) (bool, error)
	ListStudentsByCourse(courseID string) ([]string, error)
}
