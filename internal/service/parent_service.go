package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type childRepository interface {
	FindByID(ctx context.Context, id string) (*models.Child, error)
	ListByParentEmail(ctx context.Context, parentEmail string) ([]models.Child, error)
	LinkExists(ctx context.Context, parentEmail, childID string) (bool, error)
	CreateLink(ctx context.Context, link *models.ParentChildLink) error
}

type enrollmentReader interface {
	ListActiveByChild(ctx context.Context, childID string) ([]models.EnrollmentDetail, error)
}

type lessonReader interface {
	ListByChild(ctx context.Context, childID string) ([]models.Lesson, error)
}

type creditsReader interface {
	GetCredits(ctx context.Context, parentEmail string) (*models.ParentCredits, error)
}

// ParentService builds the parent portal views. Every read is scoped through
// the parent_child_relationships table, so a parent can never see a child
// they are not linked to.
type ParentService struct {
	children    childRepository
	enrollments enrollmentReader
	lessons     lessonReader
	credits     creditsReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewParentService constructs a ParentService instance.
func NewParentService(children childRepository, enrollments enrollmentReader, lessons lessonReader, credits creditsReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ParentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{
		children:    children,
		enrollments: enrollments,
		lessons:     lessons,
		credits:     credits,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard aggregates every linked child plus the credit balance.
func (s *ParentService) Dashboard(ctx context.Context, parentEmail string) (*models.ParentDashboard, error) {
	cacheKey := fmt.Sprintf("parent:dashboard:%s", parentEmail)
	if s.cache.Enabled() {
		var cached models.ParentDashboard
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	children, err := s.children.ListByParentEmail(ctx, parentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}

	overviews := make([]models.ChildOverview, 0, len(children))
	for _, child := range children {
		overview, err := s.buildOverview(ctx, child)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, *overview)
	}

	credits, err := s.credits.GetCredits(ctx, parentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load credit balance")
	}

	dashboard := &models.ParentDashboard{Children: overviews, Credits: *credits}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, dashboard, 0); err != nil {
			s.logger.Debug("failed to cache parent dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Children returns the linked child records without derived projections.
func (s *ParentService) Children(ctx context.Context, parentEmail string) ([]models.Child, error) {
	children, err := s.children.ListByParentEmail(ctx, parentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}
	return children, nil
}

// LinkChild attaches an existing child record to the calling parent.
func (s *ParentService) LinkChild(ctx context.Context, parentEmail string, req models.LinkChildRequest) (*models.ParentChildLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid link payload")
	}

	if _, err := s.children.FindByID(ctx, req.ChildID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load child")
	}

	exists, err := s.children.LinkExists(ctx, parentEmail, req.ChildID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check link")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "child is already linked")
	}

	link := &models.ParentChildLink{ParentEmail: parentEmail, ChildID: req.ChildID}
	if err := s.children.CreateLink(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link child")
	}

	s.invalidate(ctx, parentEmail)
	return link, nil
}

// ChildLessons returns one linked child's overview including the lesson
// split. Unlinked children are treated as forbidden, not missing, so the
// response does not leak which child ids exist.
func (s *ParentService) ChildLessons(ctx context.Context, parentEmail, childID string) (*models.ChildOverview, error) {
	linked, err := s.children.LinkExists(ctx, parentEmail, childID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check link")
	}
	if !linked {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "child is not linked to this account")
	}

	child, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load child")
	}

	return s.buildOverview(ctx, *child)
}

func (s *ParentService) buildOverview(ctx context.Context, child models.Child) (*models.ChildOverview, error) {
	enrollments, err := s.enrollments.ListActiveByChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	lessons, err := s.lessons.ListByChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	upcoming, history := PartitionLessons(lessons, s.now())
	return &models.ChildOverview{
		Child:           child,
		AverageProgress: AverageProgress(enrollments),
		Enrollments:     enrollments,
		Upcoming:        upcoming,
		History:         history,
	}, nil
}

func (s *ParentService) invalidate(ctx context.Context, parentEmail string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("parent:*:%s", parentEmail)); err != nil {
		s.logger.Debug("failed to invalidate parent cache", zap.Error(err))
	}
}
