package models

import (
	"time"

	"github.com/lib/pq"
)

// Program is a course offered by the academy.
type Program struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationWeeks   *int      `db:"duration_weeks" json:"duration_weeks,omitempty"`
	CreditsRequired int       `db:"credits_required" json:"credits_required"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ProgramStatus tracks progress through a teacher training program.
type ProgramStatus string

const (
	ProgramIncomplete ProgramStatus = "incomplete"
	ProgramInProgress ProgramStatus = "in_progress"
	ProgramCompleted  ProgramStatus = "completed"
)

// TeacherProgram is a teacher's training assignment for a program.
type TeacherProgram struct {
	ID          string        `db:"id" json:"id"`
	TeacherID   string        `db:"teacher_id" json:"teacher_id"`
	ProgramID   string        `db:"program_id" json:"program_id"`
	Status      ProgramStatus `db:"status" json:"status"`
	CompletedAt *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}

// TeacherProgramDetail joins the training row with its program name.
type TeacherProgramDetail struct {
	TeacherProgram
	ProgramName string `db:"program_name" json:"program_name"`
}

// SubscriptionPlan is a purchasable credits bundle from the catalog.
type SubscriptionPlan struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Description      *string        `db:"description" json:"description,omitempty"`
	CreditsPerPeriod int            `db:"credits_per_period" json:"credits_per_period"`
	PeriodMonths     *int           `db:"period_months" json:"period_months,omitempty"`
	PriceCents       int64          `db:"price_cents" json:"price_cents"`
	Features         pq.StringArray `db:"features" json:"features"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
