package subject

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrCodeExists = errors.New("the subject code has already been taken")

	msgNotFound = "Subject not found."
)

type (
	// Repository is the persistence of subjects.
	// Every query is scoped to the given owner before any other predicate is applied.
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, userID, code string, excluded []Subject, exec ...core.DBExecutor) error
		CreateSubject(ctx context.Context, subj Subject, exec ...core.DBExecutor) (Subject, error)
		// GetSubject finds a subject by ID regardless of its owner, so that callers can tell 403 from 404.
		GetSubject(ctx context.Context, id string, exec ...core.DBExecutor) (Subject, error)
		GetSubjectCounts(ctx context.Context, id string, now time.Time, exec ...core.DBExecutor) (Counts, error)
		QuerySubjects(ctx context.Context, userID string, filter QueryFilter, ordering []core.DBOrdering, page core.PageRequest, now time.Time, exec ...core.DBExecutor) ([]WithCounts, int, error)
		UpdateSubject(ctx context.Context, subj Subject, exec ...core.DBExecutor) (Subject, error)
		// ToggleSubjectActive flips is_active in a single statement and returns the stored row.
		ToggleSubjectActive(ctx context.Context, id, userID string, now time.Time, exec ...core.DBExecutor) (Subject, error)
		DeleteSubject(ctx context.Context, id, userID string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, userID, code string, excluded ...Subject) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, userID, code, excluded); err != nil {
		return svc.trapCodeExists(err)
	}
	return nil
}

// trapCodeExists reports code collisions on the subject_code field.
func (svc *Service) trapCodeExists(err error) error {
	if errors.Cause(err) == ErrCodeExists {
		return core.NewValidationError(ErrCodeExists, core.FieldError{Field: "subject_code", Error: ErrCodeExists.Error()})
	}
	return err
}

// Get returns the subject `id` if userID owns it.
func (svc *Service) Get(ctx context.Context, userID, id string) (Subject, error) {
	subj, err := svc.repo.GetSubject(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Subject{}, core.NewNotFoundError(msgNotFound)
		}
		return Subject{}, errors.Wrap(err, "getting subject")
	}
	if err = Authorize(userID, subj); err != nil {
		return Subject{}, err
	}
	return subj, nil
}

// GetWithCounts returns the subject `id` with its assignment counts.
func (svc *Service) GetWithCounts(ctx context.Context, userID, id string) (WithCounts, error) {
	subj, err := svc.Get(ctx, userID, id)
	if err != nil {
		return WithCounts{}, err
	}
	counts, err := svc.repo.GetSubjectCounts(ctx, subj.ID, core.NowFunc())
	if err != nil {
		return WithCounts{}, errors.Wrap(err, "counting assignments")
	}
	return WithCounts{Subject: subj, Counts: counts}, nil
}

// Query lists userID's subjects matching filter, name ASC by default, core.PageSize per page.
func (svc *Service) Query(ctx context.Context, userID string, filter QueryFilter, ordering []core.DBOrdering, page core.PageRequest) (Page, error) {
	filter.Clean()
	subjects, total, err := svc.repo.QuerySubjects(ctx, userID, filter, CleanOrdering(ordering), page, core.NowFunc())
	if err != nil {
		return Page{}, errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []WithCounts{}
	}
	return Page{
		Pagination: core.NewPagination(page.Number(), page.Limit(), total),
		Data:       subjects,
		Filters:    filter,
	}, nil
}

func (svc *Service) Create(ctx context.Context, userID string, ns NewSubject) (Subject, error) {
	now := core.NowFunc()
	subj := Subject{
		UserID:          userID,
		Name:            ns.Name,
		Description:     ns.Description,
		TeacherName:     ns.TeacherName,
		PeriodOfStudy:   ns.PeriodOfStudy,
		SubjectCode:     ns.SubjectCode,
		DifficultyLevel: ns.DifficultyLevel,
		IsActive:        ns.IsActive == nil || *ns.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if ns.CreditHours != nil {
		subj.CreditHours = *ns.CreditHours
	}
	subj, err := svc.repo.CreateSubject(ctx, subj)
	if err != nil {
		return Subject{}, svc.trapCodeExists(errors.Wrap(err, "creating subject"))
	}
	return subj, nil
}

// Update rewrites the editable fields of subj if userID owns it. The owner never changes.
func (svc *Service) Update(ctx context.Context, userID string, subj Subject, us UpdateSubject) (Subject, error) {
	if err := Authorize(userID, subj); err != nil {
		return Subject{}, err
	}
	subj.Name = us.Name
	subj.Description = us.Description
	subj.TeacherName = us.TeacherName
	subj.PeriodOfStudy = us.PeriodOfStudy
	subj.SubjectCode = us.SubjectCode
	subj.DifficultyLevel = us.DifficultyLevel
	subj.IsActive = us.IsActive == nil || *us.IsActive
	if us.CreditHours != nil {
		subj.CreditHours = *us.CreditHours
	}
	subj.UpdatedAt = core.NowFunc()

	subj, err := svc.repo.UpdateSubject(ctx, subj)
	if err != nil {
		return Subject{}, svc.trapCodeExists(errors.Wrap(err, "updating subject"))
	}
	return subj, nil
}

// ToggleActive flips subj.IsActive and tells whether it got "activated" or "deactivated".
func (svc *Service) ToggleActive(ctx context.Context, userID string, subj Subject) (Subject, string, error) {
	if err := Authorize(userID, subj); err != nil {
		return Subject{}, "", err
	}
	subj, err := svc.repo.ToggleSubjectActive(ctx, subj.ID, subj.UserID, core.NowFunc())
	if err != nil {
		return Subject{}, "", errors.Wrap(err, "toggling subject status")
	}
	if subj.IsActive {
		return subj, Activated, nil
	}
	return subj, Deactivated, nil
}

// Delete removes subj and, by cascade, its assignments.
func (svc *Service) Delete(ctx context.Context, userID string, subj Subject) error {
	if err := Authorize(userID, subj); err != nil {
		return err
	}
	if err := svc.repo.DeleteSubject(ctx, subj.ID, subj.UserID); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}
