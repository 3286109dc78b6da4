package models

import "time"

// EnrollmentStatus is the lifecycle state of a program enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment joins a child to a program. Progress is a fraction in [0,1].
type Enrollment struct {
	ID          string           `db:"id" json:"id"`
	ChildID     string           `db:"child_id" json:"child_id"`
	ProgramID   string           `db:"program_id" json:"program_id"`
	Progress    float64          `db:"progress" json:"progress"`
	Status      EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt  time.Time        `db:"enrolled_at" json:"enrolled_at"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

// EnrollmentDetail carries the program name alongside the enrollment.
type EnrollmentDetail struct {
	Enrollment
	ProgramName string `db:"program_name" json:"program_name"`
}
