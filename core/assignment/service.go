package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
)

var (
	// errors
	ErrNotFound        = errors.New("assignment not found")
	ErrSubjectMismatch = errors.New("an assignment must share the owner of its subject")
)

type (
	// Repository is the persistence of assignments.
	// Every query is scoped to the given owner before any other predicate is applied.
	Repository interface {
		// CreateAssignment fails with ErrSubjectMismatch unless (a.SubjectID, a.UserID) is an existing subject.
		CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		// GetAssignment finds an assignment by ID regardless of its subject, so that the guard can tell them apart.
		GetAssignment(ctx context.Context, id string, exec ...core.DBExecutor) (Assignment, error)
		QueryAssignments(ctx context.Context, userID, subjectID string, filter QueryFilter, page core.PageRequest, now time.Time, exec ...core.DBExecutor) ([]Assignment, int, error)
		UpdateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		// ToggleAssignmentComplete flips is_completed in a single statement and returns the stored row.
		ToggleAssignmentComplete(ctx context.Context, id, subjectID, userID string, now time.Time, exec ...core.DBExecutor) (Assignment, error)
		DeleteAssignment(ctx context.Context, id, subjectID, userID string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo     Repository
		types    *TypeService
		validate *validator.Validate
	}
)

func NewService(repo Repository, types *TypeService, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(types, "types"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{repo: repo, types: types, validate: validate}
}

// ValidateNew checks na, the type against subj owner's active types.
func (svc *Service) ValidateNew(ctx context.Context, subj subject.Subject, na *NewAssignment) error {
	names, err := svc.types.ActiveNames(ctx, subj.UserID)
	if err != nil {
		return err
	}
	return na.Validate(ctx, names, svc.validate)
}

// ValidateUpdate checks ua, the type against subj owner's active types.
func (svc *Service) ValidateUpdate(ctx context.Context, subj subject.Subject, ua *UpdateAssignment) error {
	names, err := svc.types.ActiveNames(ctx, subj.UserID)
	if err != nil {
		return err
	}
	return ua.Validate(ctx, names, svc.validate)
}

// Get returns the assignment `id` if userID owns subj and the assignment belongs to it.
func (svc *Service) Get(ctx context.Context, userID string, subj subject.Subject, id string) (Assignment, error) {
	if err := subject.Authorize(userID, subj); err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Assignment{}, core.NewNotFoundError(msgNotFound)
		}
		return Assignment{}, errors.Wrap(err, "getting assignment")
	}
	if err = Authorize(userID, subj, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// Query lists subj's assignments matching filter, due_date ASC then created_at DESC, core.PageSize per page.
func (svc *Service) Query(ctx context.Context, userID string, subj subject.Subject, filter QueryFilter, page core.PageRequest) (Page, error) {
	if err := subject.Authorize(userID, subj); err != nil {
		return Page{}, err
	}
	filter.Clean()
	now := core.NowFunc()
	assignments, total, err := svc.repo.QueryAssignments(ctx, userID, subj.ID, filter, page, now)
	if err != nil {
		return Page{}, errors.Wrap(err, "querying assignments")
	}
	return Page{
		Pagination: core.NewPagination(page.Number(), page.Limit(), total),
		Data:       Views(assignments, now),
		Filters:    filter,
	}, nil
}

// Create adds a validated na to subj. Its owner is always subj's owner.
func (svc *Service) Create(ctx context.Context, subj subject.Subject, na NewAssignment) (Assignment, error) {
	now := core.NowFunc()
	a := Assignment{
		SubjectID:   subj.ID,
		UserID:      subj.UserID,
		Name:        na.Name,
		Description: na.Description,
		Type:        na.Type,
		DueDate:     na.dueDate(),
		IsCompleted: na.IsCompleted != nil && *na.IsCompleted,
		Priority:    na.Priority,
		Points:      na.Points,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	a, err := svc.repo.CreateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return a, nil
}

// Update rewrites the editable fields of a. Its subject and owner never change.
func (svc *Service) Update(ctx context.Context, userID string, subj subject.Subject, a Assignment, ua UpdateAssignment) (Assignment, error) {
	if err := Authorize(userID, subj, a); err != nil {
		return Assignment{}, err
	}
	a.Name = ua.Name
	a.Description = ua.Description
	a.Type = ua.Type
	a.DueDate = NewAssignment(ua).dueDate()
	a.IsCompleted = ua.IsCompleted != nil && *ua.IsCompleted
	a.Points = ua.Points
	if ua.Priority != "" {
		a.Priority = ua.Priority
	}
	a.UpdatedAt = core.NowFunc()

	a, err := svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return a, nil
}

// ToggleComplete flips a.IsCompleted and tells whether it got "completed" or "marked as incomplete".
func (svc *Service) ToggleComplete(ctx context.Context, userID string, subj subject.Subject, a Assignment) (Assignment, string, error) {
	if err := Authorize(userID, subj, a); err != nil {
		return Assignment{}, "", err
	}
	a, err := svc.repo.ToggleAssignmentComplete(ctx, a.ID, a.SubjectID, a.UserID, core.NowFunc())
	if err != nil {
		return Assignment{}, "", errors.Wrap(err, "toggling assignment completion")
	}
	if a.IsCompleted {
		return a, Completed, nil
	}
	return a, MarkedIncomplete, nil
}

func (svc *Service) Delete(ctx context.Context, userID string, subj subject.Subject, a Assignment) error {
	if err := Authorize(userID, subj, a); err != nil {
		return err
	}
	if err := svc.repo.DeleteAssignment(ctx, a.ID, a.SubjectID, a.UserID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
