package service

import (
	"sort"
	"time"

	"github.com/champcode/academy-api/internal/models"
)

// AverageProgress returns the arithmetic mean progress over enrollments.
// An empty set averages to 0, never NaN.
func AverageProgress(enrollments []models.EnrollmentDetail) float64 {
	if len(enrollments) == 0 {
		return 0
	}
	var sum float64
	for _, e := range enrollments {
		sum += e.Progress
	}
	return sum / float64(len(enrollments))
}

// PartitionLessons splits lessons into upcoming and historical relative to
// the supplied reference time. A lesson starting exactly at now counts as
// upcoming. Upcoming is sorted soonest first, history most recent first.
// The clock is a parameter so the split is deterministic and testable.
func PartitionLessons(lessons []models.Lesson, now time.Time) (upcoming, history []models.Lesson) {
	upcoming = make([]models.Lesson, 0, len(lessons))
	history = make([]models.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if !l.StartsAt().Before(now) {
			upcoming = append(upcoming, l)
		} else {
			history = append(history, l)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt().Before(upcoming[j].StartsAt())
	})
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].StartsAt().After(history[j].StartsAt())
	})
	return upcoming, history
}
