package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/champcode/academy-api/internal/models"
)

// ChildRepository handles persistence of children and parent links.
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository constructs the repository.
func NewChildRepository(db *sqlx.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = `id, full_name, email, age, gender, avatar_url, points, stars, streak, created_at, updated_at`

// FindByID returns a child record by identifier.
func (r *ChildRepository) FindByID(ctx context.Context, id string) (*models.Child, error) {
	query := fmt.Sprintf(`SELECT %s FROM children WHERE id = $1 LIMIT 1`, childColumns)
	var child models.Child
	if err := r.db.GetContext(ctx, &child, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find child by id: %w", err)
	}
	return &child, nil
}

// FindByEmail returns the child record linked to a student account email.
func (r *ChildRepository) FindByEmail(ctx context.Context, email string) (*models.Child, error) {
	query := fmt.Sprintf(`SELECT %s FROM children WHERE email = $1 LIMIT 1`, childColumns)
	var child models.Child
	if err := r.db.GetContext(ctx, &child, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find child by email: %w", err)
	}
	return &child, nil
}

// ListByParentEmail returns all children linked to a parent account.
func (r *ChildRepository) ListByParentEmail(ctx context.Context, parentEmail string) ([]models.Child, error) {
	const listQuery = `SELECT c.id, c.full_name, c.email, c.age, c.gender, c.avatar_url, c.points, c.stars, c.streak, c.created_at, c.updated_at
        FROM children c
        JOIN parent_child_relationships pcr ON pcr.child_id = c.id
        WHERE pcr.parent_email = $1
        ORDER BY c.full_name ASC`
	var children []models.Child
	if err := r.db.SelectContext(ctx, &children, listQuery, parentEmail); err != nil {
		return nil, fmt.Errorf("list children by parent: %w", err)
	}
	return children, nil
}

// LinkExists reports whether a parent-child link is already present.
func (r *ChildRepository) LinkExists(ctx context.Context, parentEmail, childID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM parent_child_relationships WHERE parent_email = $1 AND child_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, parentEmail, childID); err != nil {
		return false, fmt.Errorf("check parent link: %w", err)
	}
	return exists, nil
}

// CreateLink inserts a parent_child_relationships row.
func (r *ChildRepository) CreateLink(ctx context.Context, link *models.ParentChildLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO parent_child_relationships (id, parent_email, child_id, created_at) VALUES (:id, :parent_email, :child_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create parent link: %w", err)
	}
	return nil
}
