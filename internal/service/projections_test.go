package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
)

func TestAverageProgressEmptySet(t *testing.T) {
	assert.Equal(t, 0.0, AverageProgress(nil))
	assert.Equal(t, 0.0, AverageProgress([]models.EnrollmentDetail{}))
}

func TestAverageProgress(t *testing.T) {
	enrollments := []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{Progress: 0.2}},
		{Enrollment: models.Enrollment{Progress: 0.8}},
	}
	assert.InDelta(t, 0.5, AverageProgress(enrollments), 1e-9)
}

func lessonAt(id string, date time.Time, clock string) models.Lesson {
	return models.Lesson{ID: id, LessonDate: date, LessonTime: clock}
}

func TestPartitionLessonsBoundaryIsUpcoming(t *testing.T) {
	now := time.Date(2026, 9, 27, 17, 0, 0, 0, time.UTC)
	day := time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC)

	lessons := []models.Lesson{
		lessonAt("past", day, "16:59:00"),
		lessonAt("boundary", day, "17:00:00"),
		lessonAt("future", day, "18:00:00"),
	}

	upcoming, history := PartitionLessons(lessons, now)

	require.Len(t, upcoming, 2)
	require.Len(t, history, 1)
	assert.Equal(t, "boundary", upcoming[0].ID)
	assert.Equal(t, "future", upcoming[1].ID)
	assert.Equal(t, "past", history[0].ID)
}

func TestPartitionLessonsOrdering(t *testing.T) {
	now := time.Date(2026, 9, 27, 12, 0, 0, 0, time.UTC)

	lessons := []models.Lesson{
		lessonAt("h-old", time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), "15:00"),
		lessonAt("u-late", time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC), "15:00"),
		lessonAt("h-recent", time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), "15:00"),
		lessonAt("u-soon", time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC), "15:00"),
	}

	upcoming, history := PartitionLessons(lessons, now)

	require.Len(t, upcoming, 2)
	assert.Equal(t, "u-soon", upcoming[0].ID)
	assert.Equal(t, "u-late", upcoming[1].ID)
	require.Len(t, history, 2)
	assert.Equal(t, "h-recent", history[0].ID)
	assert.Equal(t, "h-old", history[1].ID)
}

func TestPartitionLessonsMalformedTimeFallsBackToMidnight(t *testing.T) {
	now := time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC)
	lessons := []models.Lesson{lessonAt("l1", time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC), "5 PM")}

	upcoming, history := PartitionLessons(lessons, now)
	assert.Len(t, upcoming, 1)
	assert.Empty(t, history)
}

func TestResolveRolePrecedence(t *testing.T) {
	role, ok := models.ResolveRole([]models.UserRole{models.RoleStudent, models.RoleAdmin, models.RoleParent})
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)

	role, ok = models.ResolveRole([]models.UserRole{models.RoleParent, models.RoleTeacher})
	require.True(t, ok)
	assert.Equal(t, models.RoleTeacher, role)

	_, ok = models.ResolveRole(nil)
	assert.False(t, ok)
}
