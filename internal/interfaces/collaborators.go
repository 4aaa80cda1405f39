package interfaces

import "context"

// EnrollmentService gates access to a course's materials.
type EnrollmentService interface {
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
	Enroll(ctx context.Context, studentID, courseID string) error
}

// ContentDownloader fetches a registered content's bytes from its source URL.
type ContentDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Notifier delivers fire-and-forget notifications. Failures are logged and
// swallowed; they must never fail the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userIDs []string, title, body string, data map[string]string) error
}
