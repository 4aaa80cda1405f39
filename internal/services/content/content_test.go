package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/models"
	"github.com/ternarybob/docere/internal/storage/badger"
)

func newTestService(t *testing.T) (*Service, *EnrollmentService) {
	t.Helper()
	logger := common.GetLogger()
	storage, err := badger.NewManager(logger, &common.StorageConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return NewService(storage, logger), NewEnrollmentService(storage, logger)
}

func TestRegisterContent(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		CourseID: "course_1",
		Title:    "Biology Basics",
		URL:      "https://example.com/bio.pdf",
		Type:     "PDF",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.ID)
	assert.Equal(t, models.ContentTypePDF, registered.Type, "type strings are normalized")

	loaded, err := svc.Get(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Title, loaded.Title)

	listed, err := svc.ListByCourse(context.Background(), "course_1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRegisterContentValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  *RegisterRequest
	}{
		{"missing course", &RegisterRequest{Title: "Doc", URL: "https://example.com/d.pdf", Type: "pdf"}},
		{"missing title", &RegisterRequest{CourseID: "c1", URL: "https://example.com/d.pdf", Type: "pdf"}},
		{"bad url", &RegisterRequest{CourseID: "c1", Title: "Doc", URL: "not a url", Type: "pdf"}},
		{"unknown type", &RegisterRequest{CourseID: "c1", Title: "Doc", URL: "https://example.com/d.pdf", Type: "slides"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestEnrollmentGate(t *testing.T) {
	_, enrollments := newTestService(t)
	ctx := context.Background()

	enrolled, err := enrollments.IsEnrolled(ctx, "student_1", "course_1")
	require.NoError(t, err)
	assert.False(t, enrolled)

	require.NoError(t, enrollments.Enroll(ctx, "student_1", "course_1"))
	// Idempotent
	require.NoError(t, enrollments.Enroll(ctx, "student_1", "course_1"))

	enrolled, err = enrollments.IsEnrolled(ctx, "student_1", "course_1")
	require.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = enrollments.IsEnrolled(ctx, "student_1", "course_2")
	require.NoError(t, err)
	assert.False(t, enrolled, "enrollment is per course")
}

func TestHTTPDownloader(t *testing.T) {
	payload := []byte("%PDF-1.7 test payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	downloader := NewHTTPDownloader(common.NewDefaultConfig(), common.GetLogger())

	data, err := downloader.Download(context.Background(), server.URL+"/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = downloader.Download(context.Background(), server.URL+"/missing")
	assert.Error(t, err, "non-200 responses fail the download")

	_, err = downloader.Download(context.Background(), "http://127.0.0.1:1/unreachable.pdf")
	assert.Error(t, err)
}
