package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/champcode/academy-api/internal/models"
)

// EnrollmentRepository handles persistence of program enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveByChild returns a child's active enrollments with program names.
func (r *EnrollmentRepository) ListActiveByChild(ctx context.Context, childID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.child_id, e.program_id, e.progress, e.status, e.enrolled_at, e.completed_at,
        p.name AS program_name
        FROM enrollments e
        JOIN programs p ON p.id = e.program_id
        WHERE e.child_id = $1 AND e.status = $2
        ORDER BY e.enrolled_at ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, childID, models.EnrollmentActive); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByChild returns every enrollment for a child regardless of status.
func (r *EnrollmentRepository) ListByChild(ctx context.Context, childID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.child_id, e.program_id, e.progress, e.status, e.enrolled_at, e.completed_at,
        p.name AS program_name
        FROM enrollments e
        JOIN programs p ON p.id = e.program_id
        WHERE e.child_id = $1
        ORDER BY e.enrolled_at ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, childID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
