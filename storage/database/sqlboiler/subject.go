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
	"github.com/trezcool/studytrack/core/subject"
)

const (
	subjectsTable   = "subjects"
	subjectsCodeKey = "subjects_user_id_subject_code_key"
)

var (
	subjectColumns = []string{
		"id", "user_id", "name", "description", "teacher_name", "period_of_study",
		"credit_hours", "subject_code", "difficulty_level", "is_active", "created_at", "updated_at",
	}
	// subjectCountsColumns are read from the countsJoin.
	subjectCountsColumns = []string{
		"counts.total AS assignments_count",
		"counts.completed AS completed_assignments_count",
		"counts.total - counts.completed AS pending_assignments_count",
		"counts.overdue AS overdue_assignments_count",
	}
)

type subjectRow struct {
	ID              string      `boil:"id"`
	UserID          string      `boil:"user_id"`
	Name            string      `boil:"name"`
	Description     null.String `boil:"description"`
	TeacherName     string      `boil:"teacher_name"`
	PeriodOfStudy   string      `boil:"period_of_study"`
	CreditHours     int         `boil:"credit_hours"`
	SubjectCode     string      `boil:"subject_code"`
	DifficultyLevel string      `boil:"difficulty_level"`
	IsActive        bool        `boil:"is_active"`
	CreatedAt       time.Time   `boil:"created_at"`
	UpdatedAt       time.Time   `boil:"updated_at"`
}

type subjectCountsRow struct {
	subjectRow `boil:",bind"`
	Total      int `boil:"assignments_count"`
	Completed  int `boil:"completed_assignments_count"`
	Pending    int `boil:"pending_assignments_count"`
	Overdue    int `boil:"overdue_assignments_count"`
}

func boilSubject(subj subject.Subject) subjectRow {
	return subjectRow{
		ID:              subj.ID,
		UserID:          subj.UserID,
		Name:            subj.Name,
		Description:     null.NewString(subj.Description, subj.Description != ""),
		TeacherName:     subj.TeacherName,
		PeriodOfStudy:   subj.PeriodOfStudy,
		CreditHours:     subj.CreditHours,
		SubjectCode:     subj.SubjectCode,
		DifficultyLevel: subj.DifficultyLevel,
		IsActive:        subj.IsActive,
		CreatedAt:       subj.CreatedAt.UTC(),
		UpdatedAt:       subj.UpdatedAt.UTC(),
	}
}

func (row subjectRow) values() []interface{} {
	return []interface{}{
		row.ID, row.UserID, row.Name, row.Description, row.TeacherName, row.PeriodOfStudy,
		row.CreditHours, row.SubjectCode, row.DifficultyLevel, row.IsActive, row.CreatedAt, row.UpdatedAt,
	}
}

func (row subjectRow) unboil() subject.Subject {
	return subject.Subject{
		ID:              row.ID,
		UserID:          row.UserID,
		Name:            row.Name,
		Description:     row.Description.String,
		TeacherName:     row.TeacherName,
		PeriodOfStudy:   row.PeriodOfStudy,
		CreditHours:     row.CreditHours,
		SubjectCode:     row.SubjectCode,
		DifficultyLevel: row.DifficultyLevel,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}

func (row subjectCountsRow) unboil() subject.WithCounts {
	return subject.WithCounts{
		Subject: row.subjectRow.unboil(),
		Counts: subject.Counts{
			Total:     row.Total,
			Completed: row.Completed,
			Pending:   row.Pending,
			Overdue:   row.Overdue,
		},
	}
}

// countsJoin aggregates the assignments of each subject.
func countsJoin(now time.Time) qm.QueryMod {
	return qm.LeftOuterJoin(`LATERAL (
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE a.is_completed) AS completed,
			COUNT(*) FILTER (WHERE NOT a.is_completed AND a.due_date < ?) AS overdue
		FROM assignments a WHERE a.subject_id = subjects.id
	) counts ON true`, now.UTC())
}

func selectSubjectsWithCounts(now time.Time) []qm.QueryMod {
	cols := make([]string, 0, len(subjectColumns)+len(subjectCountsColumns))
	for _, col := range subjectColumns {
		cols = append(cols, subjectsTable+"."+col)
	}
	cols = append(cols, subjectCountsColumns...)
	return []qm.QueryMod{qm.Select(cols...), qm.From(subjectsTable), countsJoin(now)}
}

func subjectRows(rows []subjectCountsRow) []subject.WithCounts {
	list := make([]subject.WithCounts, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.unboil())
	}
	return list
}

type subjectRepository struct {
	exec core.DBExecutor
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(exec core.DBExecutor) *subjectRepository {
	return &subjectRepository{exec: exec}
}

// trapErr maps psql errors to subject errors
func (repo subjectRepository) trapErr(err error, msg string) error {
	if isUniqueViolation(err, subjectsCodeKey) {
		return subject.ErrCodeExists
	}
	return trapNoRowsErr(err, subject.ErrNotFound, msg)
}

func (repo subjectRepository) CheckCodeUniqueness(ctx context.Context, userID, code string, excluded []subject.Subject, exec ...core.DBExecutor) error {
	mods := []qm.QueryMod{
		qm.From(subjectsTable),
		qm.Where("user_id = ?", userID),
		qm.Where("subject_code = ?", code),
	}
	if len(excluded) > 0 {
		ids := make([]interface{}, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		mods = append(mods, qm.WhereIn("id NOT IN ?", ids...))
	}

	found, err := exists(ctx, getExec(repo.exec, exec), mods...)
	if err != nil {
		return errors.Wrap(err, "checking subject code uniqueness")
	}
	if found {
		return subject.ErrCodeExists
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, subj subject.Subject, exec ...core.DBExecutor) (subject.Subject, error) {
	subj.ID = uuid.New().String()
	var created subjectRow
	err := queries.Raw(insertQuery(subjectsTable, subjectColumns), boilSubject(subj).values()...).
		Bind(ctx, getExec(repo.exec, exec), &created)
	if err != nil {
		return subject.Subject{}, repo.trapErr(err, "inserting subject")
	}
	return created.unboil(), nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id string, exec ...core.DBExecutor) (subject.Subject, error) {
	if !validID(id) {
		return subject.Subject{}, subject.ErrNotFound
	}
	var row subjectRow
	q := newQuery(qm.Select(subjectColumns...), qm.From(subjectsTable), qm.Where("id = ?", id))
	if err := q.Bind(ctx, getExec(repo.exec, exec), &row); err != nil {
		return subject.Subject{}, repo.trapErr(err, "finding subject")
	}
	return row.unboil(), nil
}

func (repo subjectRepository) GetSubjectCounts(ctx context.Context, id string, now time.Time, exec ...core.DBExecutor) (subject.Counts, error) {
	var row subjectCountsRow
	mods := append(selectSubjectsWithCounts(now), qm.Where("subjects.id = ?", id))
	if err := newQuery(mods...).Bind(ctx, getExec(repo.exec, exec), &row); err != nil {
		return subject.Counts{}, repo.trapErr(err, "counting subject assignments")
	}
	return row.unboil().Counts, nil
}

// filterMods scopes to userID first, then applies filter.
func (repo subjectRepository) filterMods(userID string, filter subject.QueryFilter) []qm.QueryMod {
	mods := []qm.QueryMod{qm.Where("subjects.user_id = ?", userID)}

	// subjects with name, code or teacher matching the search keyword
	if filter.Search != "" {
		val := containsPattern(filter.Search)
		mods = append(mods, qm.Expr(
			qm.Where(`subjects.name ILIKE ? ESCAPE '\'`, val),
			qm.Or(`subjects.subject_code ILIKE ? ESCAPE '\'`, val),
			qm.Or(`subjects.teacher_name ILIKE ? ESCAPE '\'`, val),
		))
	}
	if filter.Difficulty != "" {
		mods = append(mods, qm.Where("subjects.difficulty_level = ?", filter.Difficulty))
	}
	if filter.Period != "" {
		mods = append(mods, qm.Where("subjects.period_of_study = ?", filter.Period))
	}
	if isActive := filter.IsActive(); isActive != nil {
		mods = append(mods, qm.Where("subjects.is_active = ?", *isActive))
	}
	return mods
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, userID string, filter subject.QueryFilter, ordering []core.DBOrdering, page core.PageRequest, now time.Time, exec ...core.DBExecutor) ([]subject.WithCounts, int, error) {
	exe := getExec(repo.exec, exec)
	where := repo.filterMods(userID, filter)

	total, err := count(ctx, exe, append([]qm.QueryMod{qm.From(subjectsTable)}, where...)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting subjects")
	}

	mods := append(selectSubjectsWithCounts(now), where...)
	mods = append(mods, orderBy(subjectsTable, ordering), qm.Limit(page.Limit()), qm.Offset(page.Offset()))

	var rows []subjectCountsRow
	if err = newQuery(mods...).Bind(ctx, exe, &rows); err != nil {
		return nil, 0, errors.Wrap(err, "querying subjects")
	}
	return subjectRows(rows), total, nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, subj subject.Subject, exec ...core.DBExecutor) (subject.Subject, error) {
	row := boilSubject(subj)
	cols := []string{
		"name", "description", "teacher_name", "period_of_study", "credit_hours",
		"subject_code", "difficulty_level", "is_active", "updated_at",
	}
	args := []interface{}{
		row.Name, row.Description, row.TeacherName, row.PeriodOfStudy, row.CreditHours,
		row.SubjectCode, row.DifficultyLevel, row.IsActive, row.UpdatedAt,
		row.ID, row.UserID,
	}

	var updated subjectRow
	err := queries.Raw(updateQuery(subjectsTable, cols, subjectColumns, "id", "user_id"), args...).
		Bind(ctx, getExec(repo.exec, exec), &updated)
	if err != nil {
		return subject.Subject{}, repo.trapErr(err, "updating subject")
	}
	return updated.unboil(), nil
}

func (repo subjectRepository) ToggleSubjectActive(ctx context.Context, id, userID string, now time.Time, exec ...core.DBExecutor) (subject.Subject, error) {
	var row subjectRow
	err := queries.Raw(toggleQuery(subjectsTable, "is_active", subjectColumns), now.UTC(), id, userID).
		Bind(ctx, getExec(repo.exec, exec), &row)
	if err != nil {
		return subject.Subject{}, repo.trapErr(err, "toggling subject status")
	}
	return row.unboil(), nil
}

// DeleteSubject relies on ON DELETE CASCADE for the subject's assignments.
func (repo subjectRepository) DeleteSubject(ctx context.Context, id, userID string, exec ...core.DBExecutor) error {
	q := newQuery(qm.From(subjectsTable), qm.Where("id = ?", id), qm.Where("user_id = ?", userID))
	queries.SetDelete(q)
	if _, err := q.ExecContext(ctx, getExec(repo.exec, exec)); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}
