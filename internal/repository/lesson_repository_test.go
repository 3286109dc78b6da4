package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLessonsByChild(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "child_id", "program_id", "title", "lesson_date", "lesson_time", "tutor_name", "zoom_link", "material_url", "recording_url", "is_completed", "created_at"}).
		AddRow("l1", "c1", "p1", "Roblox L1 - Lesson 7", now, "17:00:00", "Ms. Lim", "https://zoom.example/1", nil, nil, false, now)
	mock.ExpectQuery("FROM lessons WHERE child_id").
		WithArgs("c1").
		WillReturnRows(rows)

	lessons, err := repo.ListByChild(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Roblox L1 - Lesson 7", lessons[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCompletedInRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE tutor_name = $1 AND is_completed = TRUE AND lesson_date >= $2 AND lesson_date < $3")).
		WithArgs("Sarah Lee", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(52))

	count, err := repo.CountCompletedInRange(context.Background(), "Sarah Lee", from, to)
	require.NoError(t, err)
	assert.Equal(t, 52, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDistinctChildrenInRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT child_id) FROM lessons WHERE tutor_name = $1 AND lesson_date >= $2 AND lesson_date < $3")).
		WithArgs("Sarah Lee", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(38))

	count, err := repo.CountDistinctChildrenInRange(context.Background(), "Sarah Lee", from, to)
	require.NoError(t, err)
	assert.Equal(t, 38, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
