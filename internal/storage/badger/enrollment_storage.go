package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// EnrollmentStorage implements interfaces.EnrollmentStorage for Badger
type EnrollmentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEnrollmentStorage creates a new EnrollmentStorage instance
func NewEnrollmentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EnrollmentStorage {
	return &EnrollmentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *EnrollmentStorage) Save(enrollment *models.Enrollment) error {
	if enrollment.StudentID == "" || enrollment.CourseID == "" {
		return fmt.Errorf("student ID and course ID are required")
	}
	if enrollment.ID == "" {
		enrollment.ID = models.EnrollmentID(enrollment.StudentID, enrollment.CourseID)
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}

	if err := s.db.Store().Upsert(enrollment.ID, enrollment); err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

func (s *EnrollmentStorage) Exists(studentID, courseID string) (bool, error) {
	var enrollment models.Enrollment
	err := s.db.Store().Get(models.EnrollmentID(studentID, courseID), &enrollment)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return true, nil
}

func (s *EnrollmentStorage) ListStudentsByCourse(courseID string) ([]string, error) {
	var enrollments []models.Enrollment
	err := s.db.Store().Find(&enrollments, badgerhold.Where("CourseID").Eq(courseID).Index("CourseID"))
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	students := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, e.StudentID)
	}
	return students, nil
}
