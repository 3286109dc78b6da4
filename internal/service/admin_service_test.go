package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type fakeAdminRepo struct {
	users       []models.User
	total       int
	roles       map[string][]models.UserRole
	deactivated []string
	revoked     []string
	created     []*models.User
	assignments []*models.RoleAssignment
}

func (f *fakeAdminRepo) List(_ context.Context, _ models.UserFilter) ([]models.User, int, error) {
	return f.users, f.total, nil
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminRepo) Create(_ context.Context, user *models.User) error {
	f.created = append(f.created, user)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeAdminRepo) FindRolesByUserIDs(_ context.Context, _ []string) (map[string][]models.UserRole, error) {
	return f.roles, nil
}

func (f *fakeAdminRepo) CreateRoleAssignment(_ context.Context, a *models.RoleAssignment) error {
	f.assignments = append(f.assignments, a)
	return nil
}

func (f *fakeAdminRepo) Deactivate(_ context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeAdminRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func TestAdminListUsersResolvesRoles(t *testing.T) {
	repo := &fakeAdminRepo{
		users: []models.User{
			{ID: "u-1", Email: "amina@example.com"},
			{ID: "u-2", Email: "both@example.com"},
			{ID: "u-3", Email: "none@example.com"},
		},
		total: 3,
		roles: map[string][]models.UserRole{
			"u-1": {models.RoleParent},
			"u-2": {models.RoleStudent, models.RoleTeacher},
		},
	}

	svc := NewAdminService(repo, nil, nil)

	details, pagination, err := svc.ListUsers(context.Background(), models.UserFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, models.RoleParent, details[0].Role)
	assert.Equal(t, models.RoleTeacher, details[1].Role)
	assert.Empty(t, details[2].Role)
	assert.Equal(t, 3, pagination.TotalCount)
}

func TestAdminCreateUserAssignsRole(t *testing.T) {
	repo := &fakeAdminRepo{}
	svc := NewAdminService(repo, nil, nil)

	detail, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Email:    "ops@example.com",
		Password: "secret123",
		FullName: "Ops Admin",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, detail.Role)
	assert.True(t, detail.Active)
	require.Len(t, repo.assignments, 1)
	assert.Equal(t, models.RoleAdmin, repo.assignments[0].Role)
}

func TestAdminCreateUserDuplicateEmail(t *testing.T) {
	repo := &fakeAdminRepo{users: []models.User{{ID: "u-1", Email: "taken@example.com"}}}
	svc := NewAdminService(repo, nil, nil)

	_, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Email:    "taken@example.com",
		Password: "secret123",
		FullName: "Dup",
		Role:     models.RoleParent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdminDeactivateRevokesSessions(t *testing.T) {
	repo := &fakeAdminRepo{}
	svc := NewAdminService(repo, nil, nil)

	require.NoError(t, svc.DeactivateUser(context.Background(), "u-9"))
	assert.Equal(t, []string{"u-9"}, repo.deactivated)
	assert.Equal(t, []string{"u-9"}, repo.revoked)
}
