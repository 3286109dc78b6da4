package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type fakeChildRepo struct {
	children map[string]*models.Child
	links    map[string][]string // parent email -> child ids
	created  []*models.ParentChildLink
}

func newFakeChildRepo() *fakeChildRepo {
	return &fakeChildRepo{children: map[string]*models.Child{}, links: map[string][]string{}}
}

func (f *fakeChildRepo) addLinked(parentEmail string, child *models.Child) {
	f.children[child.ID] = child
	f.links[parentEmail] = append(f.links[parentEmail], child.ID)
}

func (f *fakeChildRepo) FindByID(_ context.Context, id string) (*models.Child, error) {
	c, ok := f.children[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeChildRepo) FindByEmail(_ context.Context, email string) (*models.Child, error) {
	for _, c := range f.children {
		if c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeChildRepo) ListByParentEmail(_ context.Context, parentEmail string) ([]models.Child, error) {
	var out []models.Child
	for _, id := range f.links[parentEmail] {
		out = append(out, *f.children[id])
	}
	return out, nil
}

func (f *fakeChildRepo) LinkExists(_ context.Context, parentEmail, childID string) (bool, error) {
	for _, id := range f.links[parentEmail] {
		if id == childID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChildRepo) CreateLink(_ context.Context, link *models.ParentChildLink) error {
	f.created = append(f.created, link)
	f.links[link.ParentEmail] = append(f.links[link.ParentEmail], link.ChildID)
	return nil
}

type fakeEnrollmentRepo struct {
	byChild map[string][]models.EnrollmentDetail
}

func (f *fakeEnrollmentRepo) ListActiveByChild(_ context.Context, childID string) ([]models.EnrollmentDetail, error) {
	return f.byChild[childID], nil
}

type fakeLessonRepo struct {
	byChild map[string][]models.Lesson
}

func (f *fakeLessonRepo) ListByChild(_ context.Context, childID string) ([]models.Lesson, error) {
	return f.byChild[childID], nil
}

type fakeCreditsRepo struct {
	byParent map[string]*models.ParentCredits
}

func (f *fakeCreditsRepo) GetCredits(_ context.Context, parentEmail string) (*models.ParentCredits, error) {
	if c, ok := f.byParent[parentEmail]; ok {
		return c, nil
	}
	return &models.ParentCredits{ParentEmail: parentEmail}, nil
}

func lessonOn(id string, date time.Time, at string) models.Lesson {
	return models.Lesson{ID: id, ChildID: "c-1", Title: "Scratch Basics", LessonDate: date, LessonTime: at}
}

func newParentFixture() (*ParentService, *fakeChildRepo) {
	children := newFakeChildRepo()
	enrollments := &fakeEnrollmentRepo{byChild: map[string][]models.EnrollmentDetail{}}
	lessons := &fakeLessonRepo{byChild: map[string][]models.Lesson{}}
	credits := &fakeCreditsRepo{byParent: map[string]*models.ParentCredits{}}

	children.addLinked("amina@example.com", &models.Child{ID: "c-1", FullName: "Zayd Yusuf"})
	enrollments.byChild["c-1"] = []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{ID: "e-1", ChildID: "c-1", Progress: 0.2, Status: models.EnrollmentActive}, ProgramName: "Scratch"},
		{Enrollment: models.Enrollment{ID: "e-2", ChildID: "c-1", Progress: 0.8, Status: models.EnrollmentActive}, ProgramName: "Python"},
	}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	lessons.byChild["c-1"] = []models.Lesson{
		lessonOn("l-past", day, "09:00:00"),
		lessonOn("l-future", day, "15:00:00"),
	}
	credits.byParent["amina@example.com"] = &models.ParentCredits{ParentEmail: "amina@example.com", Balance: 6}

	svc := NewParentService(children, enrollments, lessons, credits, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, children
}

func TestParentDashboardAggregates(t *testing.T) {
	svc, _ := newParentFixture()

	dashboard, err := svc.Dashboard(context.Background(), "amina@example.com")
	require.NoError(t, err)

	require.Len(t, dashboard.Children, 1)
	overview := dashboard.Children[0]
	assert.InDelta(t, 0.5, overview.AverageProgress, 1e-9)
	require.Len(t, overview.Upcoming, 1)
	assert.Equal(t, "l-future", overview.Upcoming[0].ID)
	require.Len(t, overview.History, 1)
	assert.Equal(t, "l-past", overview.History[0].ID)
	assert.Equal(t, 6, dashboard.Credits.Balance)
}

func TestParentDashboardNoChildren(t *testing.T) {
	svc, _ := newParentFixture()

	dashboard, err := svc.Dashboard(context.Background(), "childless@example.com")
	require.NoError(t, err)
	assert.Empty(t, dashboard.Children)
	assert.Zero(t, dashboard.Credits.Balance)
}

func TestChildLessonsRejectsUnlinkedChild(t *testing.T) {
	svc, children := newParentFixture()
	children.children["c-2"] = &models.Child{ID: "c-2", FullName: "Someone Else"}

	_, err := svc.ChildLessons(context.Background(), "amina@example.com", "c-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestLinkChild(t *testing.T) {
	svc, children := newParentFixture()
	children.children["c-2"] = &models.Child{ID: "c-2", FullName: "New Kid"}

	link, err := svc.LinkChild(context.Background(), "amina@example.com", models.LinkChildRequest{ChildID: "c-2"})
	require.NoError(t, err)
	assert.Equal(t, "c-2", link.ChildID)

	// The same link again conflicts.
	_, err = svc.LinkChild(context.Background(), "amina@example.com", models.LinkChildRequest{ChildID: "c-2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLinkChildUnknownChild(t *testing.T) {
	svc, _ := newParentFixture()

	_, err := svc.LinkChild(context.Background(), "amina@example.com", models.LinkChildRequest{ChildID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentDashboardMapsByEmail(t *testing.T) {
	children := newFakeChildRepo()
	email := "zayd@example.com"
	children.children["c-1"] = &models.Child{ID: "c-1", FullName: "Zayd Yusuf", Email: &email, Points: 120}
	enrollments := &fakeEnrollmentRepo{byChild: map[string][]models.EnrollmentDetail{
		"c-1": {{Enrollment: models.Enrollment{ID: "e-1", Progress: 0.4, Status: models.EnrollmentActive}, ProgramName: "Scratch"}},
	}}
	lessons := &fakeLessonRepo{byChild: map[string][]models.Lesson{}}

	svc := NewStudentService(children, enrollments, lessons, nil, nil)

	dashboard, err := svc.Dashboard(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "c-1", dashboard.Profile.ID)
	assert.InDelta(t, 0.4, dashboard.AverageProgress, 1e-9)
}

func TestStudentDashboardMissingLearnerRecord(t *testing.T) {
	svc := NewStudentService(newFakeChildRepo(), &fakeEnrollmentRepo{byChild: map[string][]models.EnrollmentDetail{}}, &fakeLessonRepo{byChild: map[string][]models.Lesson{}}, nil, nil)

	_, err := svc.Dashboard(context.Background(), "unmapped@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
