package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	mgr, err := NewManager(common.GetLogger(), &common.StorageConfig{
		Dir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestContentStorageRoundtrip(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.ContentStorage()

	content := &models.CourseContent{
		ID:       "content_1",
		CourseID: "course_1",
		Title:    "Intro to Biology",
		URL:      "https://example.com/bio.pdf",
		Type:     models.ContentTypePDF,
	}
	require.NoError(t, store.Save(content))

	got, err := store.Get("content_1")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Biology", got.Title)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.Get("content_missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	listed, err := store.ListByCourse("course_1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = store.ListByCourse("course_other")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestIndexStatusStorageUpsert(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.IndexStatusStorage()

	status := models.NewIndexStatus("content_1", "course_1")
	require.NoError(t, status.BeginIndexing())
	require.NoError(t, store.Save(status))

	got, err := store.Get("content_1")
	require.NoError(t, err)
	assert.Equal(t, models.IndexStateIndexing, got.State)

	// Same key overwrites, no duplicate rows
	require.NoError(t, got.Complete(7, false))
	require.NoError(t, store.Save(got))

	got, err = store.Get("content_1")
	require.NoError(t, err)
	assert.Equal(t, models.IndexStateCompleted, got.State)
	assert.Equal(t, 7, got.ChunkCount)

	all, err := store.ListByCourse("course_1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestThreadStorageOrdering(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.ThreadStorage()

	for _, id := range []string{"thread_a", "thread_b"} {
		require.NoError(t, store.Save(&models.Thread{
			ID:        id,
			StudentID: "student_1",
			CourseID:  "course_1",
			Title:     id,
		}))
		time.Sleep(5 * time.Millisecond)
	}

	// Another student's thread must not leak into the listing
	require.NoError(t, store.Save(&models.Thread{
		ID:        "thread_c",
		StudentID: "student_2",
		CourseID:  "course_1",
	}))

	threads, err := store.ListByStudentCourse("student_1", "course_1")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "thread_b", threads[0].ID, "most recently updated first")
}

func TestQueryStorageHistoryLimit(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.QueryStorage()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(&models.QueryRecord{
			ID:        common.NewQueryID(),
			StudentID: "student_1",
			CourseID:  "course_1",
			ThreadID:  "thread_1",
			Question:  "q",
			Answer:    "a",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.ListByStudentCourse("student_1", "course_1", 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt), "newest first")

	byThread, err := store.ListByThread("thread_1")
	require.NoError(t, err)
	require.Len(t, byThread, 5)
	assert.True(t, byThread[0].CreatedAt.Before(byThread[1].CreatedAt), "chronological within thread")
}

func TestEnrollmentStorage(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.EnrollmentStorage()

	require.NoError(t, store.Save(&models.Enrollment{
		StudentID: "student_1",
		CourseID:  "course_1",
	}))

	ok, err := store.Exists("student_1", "course_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists("student_1", "course_2")
	require.NoError(t, err)
	assert.False(t, ok)

	students, err := store.ListStudentsByCourse("course_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"student_1"}, students)
}
