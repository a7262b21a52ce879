package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studytrack/core"
)

const DefaultTypeColor = "primary"

// Type is an owner defined category of assignments. Assignments refer to it by Name.
type Type struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// DefaultTypes are given to every new user.
var DefaultTypes = []Type{
	{Name: "homework", Label: "Homework", Color: "primary", Icon: "assignment", SortOrder: 1},
	{Name: "project", Label: "Project", Color: "secondary", Icon: "folder", SortOrder: 2},
	{Name: "exam", Label: "Exam", Color: "error", Icon: "quiz", SortOrder: 3},
	{Name: "quiz", Label: "Quiz", Color: "warning", Icon: "help", SortOrder: 4},
	{Name: "presentation", Label: "Presentation", Color: "info", Icon: "slideshow", SortOrder: 5},
	{Name: "practice", Label: "Practice", Color: "info", Icon: "school", SortOrder: 6},
	{Name: "lab", Label: "Lab", Color: "success", Icon: "science", SortOrder: 6},
	{Name: "essay", Label: "Essay", Color: "primary", Icon: "create", SortOrder: 7},
	{Name: "other", Label: "Other", Color: "default", Icon: "more_horiz", SortOrder: 8},
}

// NewType contains information needed to create a new Type.
type NewType struct {
	Name      string `json:"name" validate:"required,max=255,key"`
	Label     string `json:"label" validate:"required,max=255"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	Icon      string `json:"icon" validate:"omitempty,max=100"`
	IsActive  *bool  `json:"is_active"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,min=0"`
}

func (nt *NewType) Validate(ctx context.Context, userID string, validate *validator.Validate, svc *TypeService) error {
	nt.Name = core.CleanString(nt.Name, true /* lower */)
	nt.Label = core.CleanString(nt.Label)
	nt.Color = core.CleanString(nt.Color, true /* lower */)
	nt.Icon = core.CleanString(nt.Icon)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, userID, nt.Name)
}

// UpdateType defines what information may be provided to modify an existing Type.
// The name is the key assignments refer to: it never changes.
type UpdateType struct {
	Label     string `json:"label" validate:"required,max=255"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	Icon      string `json:"icon" validate:"omitempty,max=100"`
	IsActive  *bool  `json:"is_active"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,min=0"`
}

func (ut *UpdateType) Validate(validate *validator.Validate) error {
	ut.Label = core.CleanString(ut.Label)
	ut.Color = core.CleanString(ut.Color, true /* lower */)
	ut.Icon = core.CleanString(ut.Icon)
	return validate.Struct(ut)
}

var (
	// ListingOrdering sorts the type listings.
	ListingOrdering = []core.DBOrdering{{Field: "sort_order", Ascending: true}, {Field: "label", Ascending: true}}
	// ChoicesOrdering sorts the types offered for an assignment.
	ChoicesOrdering = []core.DBOrdering{{Field: "sort_order", Ascending: true}, {Field: "name", Ascending: true}}
)
