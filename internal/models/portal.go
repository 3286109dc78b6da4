package models

// ParentDashboard aggregates everything the parent portal renders.
type ParentDashboard struct {
	Children []ChildOverview `json:"children"`
	Credits  ParentCredits   `json:"credits"`
}

// StudentDashboard is the student's own view of their learner record.
type StudentDashboard struct {
	Profile         Child              `json:"profile"`
	AverageProgress float64            `json:"average_progress"`
	Enrollments     []EnrollmentDetail `json:"enrollments"`
	Upcoming        []Lesson           `json:"upcoming"`
	History         []Lesson           `json:"history"`
}

// TeacherDashboard summarises a teacher's schedule, load and training.
type TeacherDashboard struct {
	HoursTaught       float64                `json:"hours_taught"`
	HoursTarget       int                    `json:"hours_target"`
	StudentsThisMonth int                    `json:"students_this_month"`
	Upcoming          []Lesson               `json:"upcoming"`
	History           []Lesson               `json:"history"`
	Training          []TeacherProgramDetail `json:"training"`
}
