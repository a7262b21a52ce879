package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Status filter values
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusOverdue   = "overdue"
	StatusDueSoon   = "due_soon"
)

// Toggle outcomes
const (
	Completed        = "completed"
	MarkedIncomplete = "marked as incomplete"
)

const (
	// DueSoonWindow drives the per-assignment is_due_soon flag.
	DueSoonWindow = 3 * 24 * time.Hour
	// UpcomingWindow drives the due_soon listing filter, the dashboard upcoming list and reminders.
	// It is not the same window as DueSoonWindow.
	UpcomingWindow = 7 * 24 * time.Hour
)

type Assignment struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subject_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	DueDate     time.Time `json:"due_date"` // UTC
	IsCompleted bool      `json:"is_completed"`
	Priority    string    `json:"priority"`
	Points      *int      `json:"points"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// IsOverdue tells whether the assignment is still pending past its due date.
func (a Assignment) IsOverdue(now time.Time) bool {
	return !a.IsCompleted && a.DueDate.Before(now)
}

// IsDueSoon tells whether the pending assignment is due within [now, now+DueSoonWindow].
func (a Assignment) IsDueSoon(now time.Time) bool {
	return !a.IsCompleted && !a.DueDate.Before(now) && !a.DueDate.After(now.Add(DueSoonWindow))
}

// View is an Assignment decorated with its derived flags.
type View struct {
	Assignment
	IsOverdue bool `json:"is_overdue"`
	IsDueSoon bool `json:"is_due_soon"`
}

func (a Assignment) View(now time.Time) View {
	return View{Assignment: a, IsOverdue: a.IsOverdue(now), IsDueSoon: a.IsDueSoon(now)}
}

func Views(assignments []Assignment, now time.Time) []View {
	views := make([]View, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, a.View(now))
	}
	return views
}

// Tally computes the counts of a set of assignments.
func Tally(assignments []Assignment, now time.Time) subject.Counts {
	var counts subject.Counts
	for _, a := range assignments {
		counts.Total++
		if a.IsCompleted {
			counts.Completed++
			continue
		}
		counts.Pending++
		if a.IsOverdue(now) {
			counts.Overdue++
		}
	}
	return counts
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,activetype"`
	DueDate     string `json:"due_date" validate:"required,timestamp"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Points      *int   `json:"points" validate:"omitempty,min=0,max=1000"`
	IsCompleted *bool  `json:"is_completed"`
}

func (na *NewAssignment) clean() {
	na.Name = core.CleanString(na.Name)
	na.Description = core.CleanString(na.Description)
	na.Type = core.CleanString(na.Type)
	na.DueDate = core.CleanString(na.DueDate)
	na.Priority = core.CleanString(na.Priority, true /* lower */)
}

// Validate checks na against the rules, the type against activeTypes (the owner's active type names).
func (na *NewAssignment) Validate(ctx context.Context, activeTypes []string, validate *validator.Validate) error {
	na.clean()
	return validate.StructCtx(withActiveTypes(ctx, activeTypes), na)
}

func (na NewAssignment) dueDate() time.Time {
	t, _ := core.ParseTimestamp(na.DueDate)
	return t
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
// Every field is rewritten: an absent is_completed means not completed, an absent priority keeps the current one.
type UpdateAssignment NewAssignment

func (ua *UpdateAssignment) Validate(ctx context.Context, activeTypes []string, validate *validator.Validate) error {
	return (*NewAssignment)(ua).Validate(ctx, activeTypes, validate)
}

type QueryFilter struct {
	Type     string `query:"type" json:"type,omitempty"`
	Priority string `query:"priority" json:"priority,omitempty"`
	Status   string `query:"status" json:"status,omitempty"`
}

func (qf *QueryFilter) Clean() {
	qf.Type = core.CleanString(qf.Type)
	qf.Priority = core.CleanString(qf.Priority, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	switch qf.Status {
	case StatusCompleted, StatusPending, StatusOverdue, StatusDueSoon:
	default:
		qf.Status = ""
	}
}

// Page is one page of a subject's assignments, due_date ASC then created_at DESC.
type Page struct {
	core.Pagination
	Data    []View      `json:"data"`
	Filters QueryFilter `json:"filters"`
}
