package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/champcode/academy-api/internal/models"
)

// LessonRepository handles persistence of lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonColumns = `id, child_id, program_id, title, lesson_date, lesson_time, tutor_name, zoom_link, material_url, recording_url, is_completed, created_at`

// ListByChild returns all lessons scheduled for a child, oldest first. The
// upcoming/historical split is applied by the caller against its own clock.
func (r *LessonRepository) ListByChild(ctx context.Context, childID string) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE child_id = $1 ORDER BY lesson_date ASC, lesson_time ASC`, lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, childID); err != nil {
		return nil, fmt.Errorf("list lessons by child: %w", err)
	}
	return lessons, nil
}

// ListByTutor returns all lessons taught by the named tutor, oldest first.
func (r *LessonRepository) ListByTutor(ctx context.Context, tutorName string) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE tutor_name = $1 ORDER BY lesson_date ASC, lesson_time ASC`, lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, tutorName); err != nil {
		return nil, fmt.Errorf("list lessons by tutor: %w", err)
	}
	return lessons, nil
}

// CountCompletedInRange counts lessons the tutor completed inside a window.
func (r *LessonRepository) CountCompletedInRange(ctx context.Context, tutorName string, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM lessons WHERE tutor_name = $1 AND is_completed = TRUE AND lesson_date >= $2 AND lesson_date < $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, tutorName, from, to); err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return count, nil
}

// CountDistinctChildrenInRange counts distinct students taught in a window.
func (r *LessonRepository) CountDistinctChildrenInRange(ctx context.Context, tutorName string, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(DISTINCT child_id) FROM lessons WHERE tutor_name = $1 AND lesson_date >= $2 AND lesson_date < $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, tutorName, from, to); err != nil {
		return 0, fmt.Errorf("count distinct students: %w", err)
	}
	return count, nil
}
