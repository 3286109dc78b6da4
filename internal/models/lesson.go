package models

import "time"

// Lesson is a scheduled or past session for a child. The upcoming/historical
// split is never stored; it is derived from lesson_date + lesson_time
// against a caller-supplied reference time.
type Lesson struct {
	ID           string    `db:"id" json:"id"`
	ChildID      string    `db:"child_id" json:"child_id"`
	ProgramID    *string   `db:"program_id" json:"program_id,omitempty"`
	Title        string    `db:"title" json:"title"`
	LessonDate   time.Time `db:"lesson_date" json:"lesson_date"`
	LessonTime   string    `db:"lesson_time" json:"lesson_time"`
	TutorName    *string   `db:"tutor_name" json:"tutor_name,omitempty"`
	ZoomLink     *string   `db:"zoom_link" json:"zoom_link,omitempty"`
	MaterialURL  *string   `db:"material_url" json:"material_url,omitempty"`
	RecordingURL *string   `db:"recording_url" json:"recording_url,omitempty"`
	IsCompleted  bool      `db:"is_completed" json:"is_completed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StartsAt combines the stored date and wall time into a single timestamp.
// Malformed times degrade to midnight so the lesson still sorts by date.
func (l Lesson) StartsAt() time.Time {
	base := time.Date(l.LessonDate.Year(), l.LessonDate.Month(), l.LessonDate.Day(), 0, 0, 0, 0, time.UTC)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, l.LessonTime); err == nil {
			return base.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second)
		}
	}
	return base
}
