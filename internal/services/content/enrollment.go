package content

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// EnrollmentService implements interfaces.EnrollmentService over the
// enrollment storage. Enrollment is idempotent.
type EnrollmentService struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

var _ interfaces.EnrollmentService = (*EnrollmentService)(nil)

// NewEnrollmentService creates the enrollment gate.
func NewEnrollmentService(storage interfaces.StorageManager, logger arbor.ILogger) *EnrollmentService {
	return &EnrollmentService{storage: storage, logger: logger}
}

// IsEnrolled reports whether the student is enrolled in the course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	if studentID == "" || courseID == "" {
		return false, nil
	}
	return s.storage.EnrollmentStorage().Exists(studentID, courseID)
}

// Enroll records a student/course enrollment. Re-enrolling is a no-op.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) error {
	if studentID == "" || courseID == "" {
		return fmt.Errorf("%w: student and course are required", models.ErrValidation)
	}
	if err := s.storage.EnrollmentStorage().Save(models.NewEnrollment(studentID, courseID)); err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	s.logger.Info().Str("student_id", studentID).Str("course_id", courseID).Msg("Student enrolled")
	return nil
}
