package assignment

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
)

var (
	// errors
	ErrTypeNotFound   = errors.New("assignment type not found")
	ErrTypeNameExists = errors.New("the name has already been taken")

	msgTypeNotFound = "Assignment type not found."
)

type (
	TypeRepository interface {
		CheckTypeNameUniqueness(ctx context.Context, userID, name string, exec ...core.DBExecutor) error
		CreateType(ctx context.Context, typ Type, exec ...core.DBExecutor) (Type, error)
		// FirstOrCreateType returns the owner's type named typ.Name, creating it from typ when missing.
		FirstOrCreateType(ctx context.Context, typ Type, exec ...core.DBExecutor) (Type, bool, error)
		GetType(ctx context.Context, id string, exec ...core.DBExecutor) (Type, error)
		QueryTypes(ctx context.Context, userID string, activeOnly bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Type, error)
		UpdateType(ctx context.Context, typ Type, exec ...core.DBExecutor) (Type, error)
		ToggleTypeActive(ctx context.Context, id, userID string, now time.Time, exec ...core.DBExecutor) (Type, error)
	}

	TypeService struct {
		repo TypeRepository
	}
)

var _ user.TypeSeeder = (*TypeService)(nil)

func NewTypeService(repo TypeRepository) *TypeService {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &TypeService{repo: repo}
}

func (svc *TypeService) CheckUniqueness(ctx context.Context, userID, name string) error {
	if err := svc.repo.CheckTypeNameUniqueness(ctx, userID, name); err != nil {
		return svc.trapNameExists(err)
	}
	return nil
}

func (svc *TypeService) trapNameExists(err error) error {
	if errors.Cause(err) == ErrTypeNameExists {
		return core.NewValidationError(ErrTypeNameExists, core.FieldError{Field: "name", Error: ErrTypeNameExists.Error()})
	}
	return err
}

// SeedDefaultTypes gives userID every DefaultTypes they do not have yet.
func (svc *TypeService) SeedDefaultTypes(ctx context.Context, userID string, exec ...core.DBExecutor) error {
	now := core.NowFunc()
	for _, typ := range DefaultTypes {
		typ.UserID = userID
		typ.IsActive = true
		typ.CreatedAt = now
		typ.UpdatedAt = now
		if _, _, err := svc.repo.FirstOrCreateType(ctx, typ, exec...); err != nil {
			return errors.Wrapf(err, "seeding type %q", typ.Name)
		}
	}
	return nil
}

// Query lists userID's types, sort_order then label.
func (svc *TypeService) Query(ctx context.Context, userID string, activeOnly bool) ([]Type, error) {
	types, err := svc.repo.QueryTypes(ctx, userID, activeOnly, ListingOrdering)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment types")
	}
	if types == nil {
		types = []Type{}
	}
	return types, nil
}

// Choices lists the types userID can currently give to an assignment, sort_order then name.
func (svc *TypeService) Choices(ctx context.Context, userID string) ([]Type, error) {
	types, err := svc.repo.QueryTypes(ctx, userID, true, ChoicesOrdering)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment type choices")
	}
	if types == nil {
		types = []Type{}
	}
	return types, nil
}

// ActiveNames returns the names of userID's active types, read fresh on every call.
func (svc *TypeService) ActiveNames(ctx context.Context, userID string) ([]string, error) {
	types, err := svc.repo.QueryTypes(ctx, userID, true, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying active assignment types")
	}
	names := make([]string, 0, len(types))
	for _, typ := range types {
		names = append(names, typ.Name)
	}
	return names, nil
}

// Get returns the type `id` if userID owns it. Other owners' types are not found.
func (svc *TypeService) Get(ctx context.Context, userID, id string) (Type, error) {
	typ, err := svc.repo.GetType(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrTypeNotFound {
			return Type{}, core.NewNotFoundError(msgTypeNotFound)
		}
		return Type{}, errors.Wrap(err, "getting assignment type")
	}
	if typ.UserID != userID {
		return Type{}, core.NewNotFoundError(msgTypeNotFound)
	}
	return typ, nil
}

func (svc *TypeService) Create(ctx context.Context, userID string, nt NewType) (Type, error) {
	now := core.NowFunc()
	typ := Type{
		UserID:    userID,
		Name:      nt.Name,
		Label:     nt.Label,
		Color:     nt.Color,
		Icon:      nt.Icon,
		IsActive:  nt.IsActive == nil || *nt.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if typ.Color == "" {
		typ.Color = DefaultTypeColor
	}
	if nt.SortOrder != nil {
		typ.SortOrder = *nt.SortOrder
	}
	typ, err := svc.repo.CreateType(ctx, typ)
	if err != nil {
		return Type{}, svc.trapNameExists(errors.Wrap(err, "creating assignment type"))
	}
	return typ, nil
}

func (svc *TypeService) Update(ctx context.Context, typ Type, ut UpdateType) (Type, error) {
	typ.Label = ut.Label
	typ.Icon = ut.Icon
	if ut.Color != "" {
		typ.Color = ut.Color
	}
	if ut.IsActive != nil {
		typ.IsActive = *ut.IsActive
	}
	if ut.SortOrder != nil {
		typ.SortOrder = *ut.SortOrder
	}
	typ.UpdatedAt = core.NowFunc()

	typ, err := svc.repo.UpdateType(ctx, typ)
	if err != nil {
		return Type{}, errors.Wrap(err, "updating assignment type")
	}
	return typ, nil
}

// ToggleActive flips typ.IsActive. Assignments already using typ keep it.
func (svc *TypeService) ToggleActive(ctx context.Context, typ Type) (Type, string, error) {
	typ, err := svc.repo.ToggleTypeActive(ctx, typ.ID, typ.UserID, core.NowFunc())
	if err != nil {
		return Type{}, "", errors.Wrap(err, "toggling assignment type status")
	}
	if typ.IsActive {
		return typ, subject.Activated, nil
	}
	return typ, subject.Deactivated, nil
}
