package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type studentChildRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Child, error)
}

// StudentService builds the student portal views. The student account maps
// to its learner record by email, the only identity both tables share.
type StudentService struct {
	children    studentChildRepository
	enrollments enrollmentReader
	lessons     lessonReader
	cache       *CacheService
	logger      *zap.Logger
	now         func() time.Time
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(children studentChildRepository, enrollments enrollmentReader, lessons lessonReader, cache *CacheService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		children:    children,
		enrollments: enrollments,
		lessons:     lessons,
		cache:       cache,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard returns the student's own learner record with projections.
func (s *StudentService) Dashboard(ctx context.Context, email string) (*models.StudentDashboard, error) {
	cacheKey := fmt.Sprintf("student:dashboard:%s", email)
	if s.cache.Enabled() {
		var cached models.StudentDashboard
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	child, err := s.profile(ctx, email)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListActiveByChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	lessons, err := s.lessons.ListByChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	upcoming, history := PartitionLessons(lessons, s.now())
	dashboard := &models.StudentDashboard{
		Profile:         *child,
		AverageProgress: AverageProgress(enrollments),
		Enrollments:     enrollments,
		Upcoming:        upcoming,
		History:         history,
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, dashboard, 0); err != nil {
			s.logger.Debug("failed to cache student dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Lessons returns the student's lesson split without the rest of the
// dashboard payload.
func (s *StudentService) Lessons(ctx context.Context, email string) (upcoming, history []models.Lesson, err error) {
	child, err := s.profile(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	lessons, err := s.lessons.ListByChild(ctx, child.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	upcoming, history = PartitionLessons(lessons, s.now())
	return upcoming, history, nil
}

func (s *StudentService) profile(ctx context.Context, email string) (*models.Child, error) {
	child, err := s.children.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no learner record for this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load learner record")
	}
	return child, nil
}
