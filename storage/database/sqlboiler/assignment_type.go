package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
)

const (
	typesTable   = "assignment_types"
	typesNameKey = "assignment_types_name_user_id_key"
)

var typeColumns = []string{
	"id", "user_id", "name", "label", "color", "icon", "is_active", "sort_order", "created_at", "updated_at",
}

type typeRow struct {
	ID        string      `boil:"id"`
	UserID    string      `boil:"user_id"`
	Name      string      `boil:"name"`
	Label     string      `boil:"label"`
	Color     string      `boil:"color"`
	Icon      null.String `boil:"icon"`
	IsActive  bool        `boil:"is_active"`
	SortOrder int         `boil:"sort_order"`
	CreatedAt time.Time   `boil:"created_at"`
	UpdatedAt time.Time   `boil:"updated_at"`
}

func boilType(typ assignment.Type) typeRow {
	return typeRow{
		ID:        typ.ID,
		UserID:    typ.UserID,
		Name:      typ.Name,
		Label:     typ.Label,
		Color:     typ.Color,
		Icon:      null.NewString(typ.Icon, typ.Icon != ""),
		IsActive:  typ.IsActive,
		SortOrder: typ.SortOrder,
		CreatedAt: typ.CreatedAt.UTC(),
		UpdatedAt: typ.UpdatedAt.UTC(),
	}
}

func (row typeRow) values() []interface{} {
	return []interface{}{
		row.ID, row.UserID, row.Name, row.Label, row.Color, row.Icon, row.IsActive, row.SortOrder, row.CreatedAt, row.UpdatedAt,
	}
}

func (row typeRow) unboil() assignment.Type {
	return assignment.Type{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Label:     row.Label,
		Color:     row.Color,
		Icon:      row.Icon.String,
		IsActive:  row.IsActive,
		SortOrder: row.SortOrder,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

type typeRepository struct {
	exec core.DBExecutor
}

var _ assignment.TypeRepository = (*typeRepository)(nil) // interface compliance check

func NewTypeRepository(exec core.DBExecutor) *typeRepository {
	return &typeRepository{exec: exec}
}

// trapErr maps psql errors to assignment type errors
func (repo typeRepository) trapErr(err error, msg string) error {
	if isUniqueViolation(err, typesNameKey) {
		return assignment.ErrTypeNameExists
	}
	return trapNoRowsErr(err, assignment.ErrTypeNotFound, msg)
}

func (repo typeRepository) CheckTypeNameUniqueness(ctx context.Context, userID, name string, exec ...core.DBExecutor) error {
	found, err := exists(ctx, getExec(repo.exec, exec),
		qm.From(typesTable), qm.Where("user_id = ?", userID), qm.Where("name = ?", name))
	if err != nil {
		return errors.Wrap(err, "checking assignment type name uniqueness")
	}
	if found {
		return assignment.ErrTypeNameExists
	}
	return nil
}

func (repo typeRepository) CreateType(ctx context.Context, typ assignment.Type, exec ...core.DBExecutor) (assignment.Type, error) {
	typ.ID = uuid.New().String()
	var created typeRow
	err := queries.Raw(insertQuery(typesTable, typeColumns), boilType(typ).values()...).
		Bind(ctx, getExec(repo.exec, exec), &created)
	if err != nil {
		return assignment.Type{}, repo.trapErr(err, "inserting assignment type")
	}
	return created.unboil(), nil
}

// FirstOrCreateType inserts typ unless the owner already has its name, then reads the stored row.
func (repo typeRepository) FirstOrCreateType(ctx context.Context, typ assignment.Type, exec ...core.DBExecutor) (assignment.Type, bool, error) {
	exe := getExec(repo.exec, exec)
	typ.ID = uuid.New().String()

	res, err := queries.Raw(
		insertStmt(typesTable, typeColumns)+" ON CONFLICT ON CONSTRAINT "+quote(typesNameKey)+" DO NOTHING",
		boilType(typ).values()...,
	).ExecContext(ctx, exe)
	if err != nil {
		return assignment.Type{}, false, errors.Wrap(err, "inserting assignment type")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return assignment.Type{}, false, errors.Wrap(err, "inserting assignment type")
	}

	var row typeRow
	q := newQuery(qm.Select(typeColumns...), qm.From(typesTable), qm.Where("user_id = ?", typ.UserID), qm.Where("name = ?", typ.Name))
	if err = q.Bind(ctx, exe, &row); err != nil {
		return assignment.Type{}, false, repo.trapErr(err, "finding assignment type")
	}
	return row.unboil(), n > 0, nil
}

func (repo typeRepository) GetType(ctx context.Context, id string, exec ...core.DBExecutor) (assignment.Type, error) {
	if !validID(id) {
		return assignment.Type{}, assignment.ErrTypeNotFound
	}
	var row typeRow
	q := newQuery(qm.Select(typeColumns...), qm.From(typesTable), qm.Where("id = ?", id))
	if err := q.Bind(ctx, getExec(repo.exec, exec), &row); err != nil {
		return assignment.Type{}, repo.trapErr(err, "finding assignment type")
	}
	return row.unboil(), nil
}

func (repo typeRepository) QueryTypes(ctx context.Context, userID string, activeOnly bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]assignment.Type, error) {
	mods := []qm.QueryMod{qm.Select(typeColumns...), qm.From(typesTable), qm.Where("user_id = ?", userID)}
	if activeOnly {
		mods = append(mods, qm.Where("is_active = ?", true))
	}
	if len(ordering) > 0 {
		mods = append(mods, orderBy(typesTable, ordering))
	}

	var rows []typeRow
	if err := newQuery(mods...).Bind(ctx, getExec(repo.exec, exec), &rows); err != nil {
		return nil, errors.Wrap(err, "querying assignment types")
	}
	types := make([]assignment.Type, 0, len(rows))
	for _, row := range rows {
		types = append(types, row.unboil())
	}
	return types, nil
}

func (repo typeRepository) UpdateType(ctx context.Context, typ assignment.Type, exec ...core.DBExecutor) (assignment.Type, error) {
	row := boilType(typ)
	cols := []string{"label", "color", "icon", "is_active", "sort_order", "updated_at"}
	args := []interface{}{row.Label, row.Color, row.Icon, row.IsActive, row.SortOrder, row.UpdatedAt, row.ID, row.UserID}

	var updated typeRow
	err := queries.Raw(updateQuery(typesTable, cols, typeColumns, "id", "user_id"), args...).
		Bind(ctx, getExec(repo.exec, exec), &updated)
	if err != nil {
		return assignment.Type{}, repo.trapErr(err, "updating assignment type")
	}
	return updated.unboil(), nil
}

func (repo typeRepository) ToggleTypeActive(ctx context.Context, id, userID string, now time.Time, exec ...core.DBExecutor) (assignment.Type, error) {
	var row typeRow
	err := queries.Raw(toggleQuery(typesTable, "is_active", typeColumns), now.UTC(), id, userID).
		Bind(ctx, getExec(repo.exec, exec), &row)
	if err != nil {
		return assignment.Type{}, repo.trapErr(err, "toggling assignment type status")
	}
	return row.unboil(), nil
}
