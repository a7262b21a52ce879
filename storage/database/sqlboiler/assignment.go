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
	assignmentsTable      = "assignments"
	assignmentsSubjectKey = "assignments_subject_id_user_id_fkey"
)

var (
	assignmentColumns = []string{
		"id", "subject_id", "user_id", "name", "description", "type", "due_date",
		"is_completed", "priority", "points", "created_at", "updated_at",
	}
	// assignmentOrdering sorts every assignment listing.
	assignmentOrdering = []core.DBOrdering{{Field: "due_date", Ascending: true}, {Field: "created_at", Ascending: false}}
)

type assignmentRow struct {
	ID          string      `boil:"id"`
	SubjectID   string      `boil:"subject_id"`
	UserID      string      `boil:"user_id"`
	Name        string      `boil:"name"`
	Description null.String `boil:"description"`
	Type        string      `boil:"type"`
	DueDate     time.Time   `boil:"due_date"`
	IsCompleted bool        `boil:"is_completed"`
	Priority    string      `boil:"priority"`
	Points      null.Int    `boil:"points"`
	CreatedAt   time.Time   `boil:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at"`
}

func boilAssignment(a assignment.Assignment) assignmentRow {
	return assignmentRow{
		ID:          a.ID,
		SubjectID:   a.SubjectID,
		UserID:      a.UserID,
		Name:        a.Name,
		Description: null.NewString(a.Description, a.Description != ""),
		Type:        a.Type,
		DueDate:     a.DueDate.UTC(),
		IsCompleted: a.IsCompleted,
		Priority:    a.Priority,
		Points:      null.IntFromPtr(a.Points),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

func (row assignmentRow) values() []interface{} {
	return []interface{}{
		row.ID, row.SubjectID, row.UserID, row.Name, row.Description, row.Type, row.DueDate,
		row.IsCompleted, row.Priority, row.Points, row.CreatedAt, row.UpdatedAt,
	}
}

func (row assignmentRow) unboil() assignment.Assignment {
	return assignment.Assignment{
		ID:          row.ID,
		SubjectID:   row.SubjectID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description.String,
		Type:        row.Type,
		DueDate:     row.DueDate.UTC(),
		IsCompleted: row.IsCompleted,
		Priority:    row.Priority,
		Points:      row.Points.Ptr(),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func assignmentRows(rows []assignmentRow) []assignment.Assignment {
	list := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.unboil())
	}
	return list
}

type assignmentRepository struct {
	exec core.DBExecutor
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{exec: exec}
}

// trapErr maps psql errors to assignment errors
func (repo assignmentRepository) trapErr(err error, msg string) error {
	if isForeignKeyViolation(err, assignmentsSubjectKey) {
		return assignment.ErrSubjectMismatch
	}
	return trapNoRowsErr(err, assignment.ErrNotFound, msg)
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	a.ID = uuid.New().String()
	var created assignmentRow
	err := queries.Raw(insertQuery(assignmentsTable, assignmentColumns), boilAssignment(a).values()...).
		Bind(ctx, getExec(repo.exec, exec), &created)
	if err != nil {
		return assignment.Assignment{}, repo.trapErr(err, "inserting assignment")
	}
	return created.unboil(), nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string, exec ...core.DBExecutor) (assignment.Assignment, error) {
	if !validID(id) {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	var row assignmentRow
	q := newQuery(qm.Select(assignmentColumns...), qm.From(assignmentsTable), qm.Where("id = ?", id))
	if err := q.Bind(ctx, getExec(repo.exec, exec), &row); err != nil {
		return assignment.Assignment{}, repo.trapErr(err, "finding assignment")
	}
	return row.unboil(), nil
}

// statusMod translates the status filter. due_soon uses the upcoming window.
func statusMod(status string, now time.Time) qm.QueryMod {
	switch status {
	case assignment.StatusCompleted:
		return qm.Where("assignments.is_completed = ?", true)
	case assignment.StatusPending:
		return qm.Where("assignments.is_completed = ?", false)
	case assignment.StatusOverdue:
		return qm.Where("assignments.is_completed = ? AND assignments.due_date < ?", false, now.UTC())
	case assignment.StatusDueSoon:
		return qm.Where(
			"assignments.is_completed = ? AND assignments.due_date BETWEEN ? AND ?",
			false, now.UTC(), now.Add(assignment.UpcomingWindow).UTC())
	}
	return nil
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context, userID, subjectID string, filter assignment.QueryFilter, page core.PageRequest, now time.Time, exec ...core.DBExecutor) ([]assignment.Assignment, int, error) {
	exe := getExec(repo.exec, exec)

	where := []qm.QueryMod{
		qm.Where("assignments.user_id = ?", userID),
		qm.Where("assignments.subject_id = ?", subjectID),
	}
	if filter.Type != "" {
		where = append(where, qm.Where("assignments.type = ?", filter.Type))
	}
	if filter.Priority != "" {
		where = append(where, qm.Where("assignments.priority = ?", filter.Priority))
	}
	if mod := statusMod(filter.Status, now); mod != nil {
		where = append(where, mod)
	}

	total, err := count(ctx, exe, append([]qm.QueryMod{qm.From(assignmentsTable)}, where...)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting assignments")
	}

	mods := append([]qm.QueryMod{qm.Select(assignmentColumns...), qm.From(assignmentsTable)}, where...)
	mods = append(mods, orderBy(assignmentsTable, assignmentOrdering), qm.Limit(page.Limit()), qm.Offset(page.Offset()))

	var rows []assignmentRow
	if err = newQuery(mods...).Bind(ctx, exe, &rows); err != nil {
		return nil, 0, errors.Wrap(err, "querying assignments")
	}
	return assignmentRows(rows), total, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	row := boilAssignment(a)
	cols := []string{"name", "description", "type", "due_date", "is_completed", "priority", "points", "updated_at"}
	args := []interface{}{
		row.Name, row.Description, row.Type, row.DueDate, row.IsCompleted, row.Priority, row.Points, row.UpdatedAt,
		row.ID, row.SubjectID, row.UserID,
	}

	var updated assignmentRow
	err := queries.Raw(updateQuery(assignmentsTable, cols, assignmentColumns, "id", "subject_id", "user_id"), args...).
		Bind(ctx, getExec(repo.exec, exec), &updated)
	if err != nil {
		return assignment.Assignment{}, repo.trapErr(err, "updating assignment")
	}
	return updated.unboil(), nil
}

func (repo assignmentRepository) ToggleAssignmentComplete(ctx context.Context, id, subjectID, userID string, now time.Time, exec ...core.DBExecutor) (assignment.Assignment, error) {
	var row assignmentRow
	err := queries.Raw(toggleQuery(assignmentsTable, "is_completed", assignmentColumns, "subject_id"), now.UTC(), id, userID, subjectID).
		Bind(ctx, getExec(repo.exec, exec), &row)
	if err != nil {
		return assignment.Assignment{}, repo.trapErr(err, "toggling assignment completion")
	}
	return row.unboil(), nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id, subjectID, userID string, exec ...core.DBExecutor) error {
	q := newQuery(
		qm.From(assignmentsTable),
		qm.Where("id = ?", id),
		qm.Where("subject_id = ?", subjectID),
		qm.Where("user_id = ?", userID),
	)
	queries.SetDelete(q)
	if _, err := q.ExecContext(ctx, getExec(repo.exec, exec)); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
