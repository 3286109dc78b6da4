package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type teacherLessonRepository interface {
	ListByTutor(ctx context.Context, tutorName string) ([]models.Lesson, error)
	CountCompletedInRange(ctx context.Context, tutorName string, from, to time.Time) (int, error)
	CountDistinctChildrenInRange(ctx context.Context, tutorName string, from, to time.Time) (int, error)
}

type trainingReader interface {
	ListTrainingByTeacher(ctx context.Context, teacherID string) ([]models.TeacherProgramDetail, error)
}

// TeacherService builds the teacher portal views. Lessons reference tutors
// by display name, while training assignments key on the account id; the
// dashboard stitches both together. One completed lesson counts as one
// taught hour.
type TeacherService struct {
	lessons     teacherLessonRepository
	training    trainingReader
	cache       *CacheService
	hoursTarget int
	logger      *zap.Logger
	now         func() time.Time
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(lessons teacherLessonRepository, training trainingReader, cache *CacheService, hoursTarget int, logger *zap.Logger) *TeacherService {
	if hoursTarget <= 0 {
		hoursTarget = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{
		lessons:     lessons,
		training:    training,
		cache:       cache,
		hoursTarget: hoursTarget,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard summarises the calendar month for a teacher.
func (s *TeacherService) Dashboard(ctx context.Context, teacher models.UserInfo) (*models.TeacherDashboard, error) {
	cacheKey := fmt.Sprintf("teacher:dashboard:%s", teacher.ID)
	if s.cache.Enabled() {
		var cached models.TeacherDashboard
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	hours, err := s.lessons.CountCompletedInRange(ctx, teacher.FullName, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count taught hours")
	}

	students, err := s.lessons.CountDistinctChildrenInRange(ctx, teacher.FullName, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	lessons, err := s.lessons.ListByTutor(ctx, teacher.FullName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	upcoming, history := PartitionLessons(lessons, now)

	training, err := s.training.ListTrainingByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list training")
	}

	dashboard := &models.TeacherDashboard{
		HoursTaught:       float64(hours),
		HoursTarget:       s.hoursTarget,
		StudentsThisMonth: students,
		Upcoming:          upcoming,
		History:           history,
		Training:          training,
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, dashboard, 0); err != nil {
			s.logger.Debug("failed to cache teacher dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Lessons returns the teacher's schedule split around the current time.
func (s *TeacherService) Lessons(ctx context.Context, tutorName string) (upcoming, history []models.Lesson, err error) {
	lessons, err := s.lessons.ListByTutor(ctx, tutorName)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	upcoming, history = PartitionLessons(lessons, s.now())
	return upcoming, history, nil
}

// Training returns the teacher's training program assignments.
func (s *TeacherService) Training(ctx context.Context, teacherID string) ([]models.TeacherProgramDetail, error) {
	training, err := s.training.ListTrainingByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list training")
	}
	return training, nil
}
