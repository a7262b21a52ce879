package subject

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studytrack/core"
)

// Difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Status filter values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Toggle outcomes
const (
	Activated   = "activated"
	Deactivated = "deactivated"
)

var DifficultyLevels = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Subject is a course followed by its owner.
type Subject struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TeacherName     string    `json:"teacher_name"`
	PeriodOfStudy   string    `json:"period_of_study"`
	CreditHours     int       `json:"credit_hours"`
	SubjectCode     string    `json:"subject_code"`
	DifficultyLevel string    `json:"difficulty_level"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// Counts are the aggregates of a set of assignments.
// Pending includes Overdue: Completed + Pending == Total and Overdue <= Pending.
type Counts struct {
	Total     int `json:"assignments_count"`
	Completed int `json:"completed_assignments_count"`
	Pending   int `json:"pending_assignments_count"`
	Overdue   int `json:"overdue_assignments_count"`
}

// WithCounts is a Subject decorated with the counts of its assignments.
type WithCounts struct {
	Subject
	Counts
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name            string `json:"name" validate:"required,max=255"`
	Description     string `json:"description"`
	TeacherName     string `json:"teacher_name" validate:"required,max=255"`
	PeriodOfStudy   string `json:"period_of_study" validate:"required,max=255"`
	CreditHours     *int   `json:"credit_hours" validate:"required,min=1,max=10"`
	SubjectCode     string `json:"subject_code" validate:"required,max=20"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	IsActive        *bool  `json:"is_active"`
}

func (ns *NewSubject) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	ns.TeacherName = core.CleanString(ns.TeacherName)
	ns.PeriodOfStudy = core.CleanString(ns.PeriodOfStudy)
	ns.SubjectCode = core.CleanString(ns.SubjectCode)
	ns.DifficultyLevel = core.CleanString(ns.DifficultyLevel, true /* lower */)
}

func (ns *NewSubject) Validate(ctx context.Context, userID string, validate *validator.Validate, svc *Service) error {
	ns.clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, userID, ns.SubjectCode)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
// Every field is rewritten: an absent is_active means active.
type UpdateSubject NewSubject

func (us *UpdateSubject) Validate(ctx context.Context, orig Subject, validate *validator.Validate, svc *Service) error {
	ns := (*NewSubject)(us)
	ns.clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, orig.UserID, ns.SubjectCode, orig)
}

type QueryFilter struct {
	Search     string `query:"search" json:"search,omitempty"`
	Difficulty string `query:"difficulty" json:"difficulty,omitempty"`
	Period     string `query:"period" json:"period,omitempty"`
	Status     string `query:"status" json:"status,omitempty"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
	qf.Period = core.CleanString(qf.Period)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	if qf.Status != StatusActive && qf.Status != StatusInactive {
		qf.Status = ""
	}
}

// IsActive translates the status filter: nil means no filter.
func (qf QueryFilter) IsActive() *bool {
	var active bool
	switch qf.Status {
	case StatusActive:
		active = true
	case StatusInactive:
		active = false
	default:
		return nil
	}
	return &active
}

// Page is one page of a subject listing, with the filters that produced it.
type Page struct {
	core.Pagination
	Data    []WithCounts `json:"data"`
	Filters QueryFilter  `json:"filters"`
}

// Ordering defaults to name ASC.
var (
	DefaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
	orderingFields  = map[string]bool{
		"name": true, "subject_code": true, "teacher_name": true, "period_of_study": true,
		"credit_hours": true, "difficulty_level": true, "is_active": true, "created_at": true, "updated_at": true,
	}
)

// CleanOrdering keeps the orderings on known columns and falls back on DefaultOrdering.
func CleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	return core.CleanOrdering(ordering, orderingFields, DefaultOrdering...)
}
