package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/champcode/academy-api/internal/models"
)

// CatalogRepository reads the programs and subscription plan catalogs, plus
// teacher training assignments.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListPrograms returns the full program catalog.
func (r *CatalogRepository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	const query = `SELECT id, name, description, duration_weeks, credits_required, created_at FROM programs ORDER BY name ASC`
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// ListPlans returns the subscription plan catalog, cheapest first.
func (r *CatalogRepository) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	const query = `SELECT id, name, description, credits_per_period, period_months, price_cents, features, created_at FROM subscription_plans ORDER BY price_cents ASC`
	var plans []models.SubscriptionPlan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// FindPlanByID returns a subscription plan by identifier.
func (r *CatalogRepository) FindPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	const query = `SELECT id, name, description, credits_per_period, period_months, price_cents, features, created_at FROM subscription_plans WHERE id = $1 LIMIT 1`
	var plan models.SubscriptionPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find plan by id: %w", err)
	}
	return &plan, nil
}

// ListTrainingByTeacher returns a teacher's training programs with names.
func (r *CatalogRepository) ListTrainingByTeacher(ctx context.Context, teacherID string) ([]models.TeacherProgramDetail, error) {
	const query = `SELECT tp.id, tp.teacher_id, tp.program_id, tp.status, tp.completed_at,
        p.name AS program_name
        FROM teacher_programs tp
        JOIN programs p ON p.id = tp.program_id
        WHERE tp.teacher_id = $1
        ORDER BY p.name ASC`
	var training []models.TeacherProgramDetail
	if err := r.db.SelectContext(ctx, &training, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher training: %w", err)
	}
	return training, nil
}
