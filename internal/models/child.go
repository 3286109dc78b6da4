package models

import "time"

// Child represents a learner record. Children are provisioned by admins;
// parents only link to existing records.
type Child struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Age       *int      `db:"age" json:"age,omitempty"`
	Gender    *string   `db:"gender" json:"gender,omitempty"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Points    int       `db:"points" json:"points"`
	Stars     int       `db:"stars" json:"stars"`
	Streak    int       `db:"streak" json:"streak"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParentChildLink joins a parent account (by email) to a child record.
type ParentChildLink struct {
	ID          string    `db:"id" json:"id"`
	ParentEmail string    `db:"parent_email" json:"parent_email"`
	ChildID     string    `db:"child_id" json:"child_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LinkChildRequest attaches an existing child to the calling parent.
type LinkChildRequest struct {
	ChildID string `json:"child_id" validate:"required"`
}

// ChildOverview is a child together with its derived portal projections.
type ChildOverview struct {
	Child           Child              `json:"child"`
	AverageProgress float64            `json:"average_progress"`
	Enrollments     []EnrollmentDetail `json:"enrollments"`
	Upcoming        []Lesson           `json:"upcoming"`
	History         []Lesson           `json:"history"`
}
