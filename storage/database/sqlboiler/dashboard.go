package boiledrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/subject"
)

type dashboardRepository struct {
	exec core.DBExecutor
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(exec core.DBExecutor) *dashboardRepository {
	return &dashboardRepository{exec: exec}
}

func (repo dashboardRepository) CountSubjects(ctx context.Context, userID string, exec ...core.DBExecutor) (total, active int, err error) {
	q := newQuery(
		qm.Select("COUNT(*)", "COUNT(*) FILTER (WHERE is_active)"),
		qm.From(subjectsTable),
		qm.Where("user_id = ?", userID),
	)
	if err = q.QueryRowContext(ctx, getExec(repo.exec, exec)).Scan(&total, &active); err != nil {
		return 0, 0, errors.Wrap(err, "counting subjects")
	}
	return total, active, nil
}

func (repo dashboardRepository) CountAssignments(ctx context.Context, userID string, now time.Time, exec ...core.DBExecutor) (subject.Counts, error) {
	var counts subject.Counts
	q := queries.Raw(`SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_completed),
		COUNT(*) FILTER (WHERE NOT is_completed AND due_date < $2)
		FROM "assignments" WHERE "user_id" = $1`, userID, now.UTC())
	if err := q.QueryRowContext(ctx, getExec(repo.exec, exec)).Scan(&counts.Total, &counts.Completed, &counts.Overdue); err != nil {
		return subject.Counts{}, errors.Wrap(err, "counting assignments")
	}
	counts.Pending = counts.Total - counts.Completed
	return counts, nil
}

func (repo dashboardRepository) LatestSubjects(ctx context.Context, userID string, limit int, now time.Time, exec ...core.DBExecutor) ([]subject.WithCounts, error) {
	mods := append(selectSubjectsWithCounts(now),
		qm.Where("subjects.user_id = ?", userID),
		orderBy(subjectsTable, []core.DBOrdering{{Field: "created_at", Ascending: false}}),
		qm.Limit(limit),
	)
	var rows []subjectCountsRow
	if err := newQuery(mods...).Bind(ctx, getExec(repo.exec, exec), &rows); err != nil {
		return nil, errors.Wrap(err, "querying latest subjects")
	}
	return subjectRows(rows), nil
}

// withSubjects pairs the assignments with their subjects.
func (repo dashboardRepository) withSubjects(ctx context.Context, exe core.DBExecutor, rows []assignmentRow) ([]dashboard.Row, error) {
	if len(rows) == 0 {
		return []dashboard.Row{}, nil
	}
	ids := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SubjectID)
	}

	var subjRows []subjectRow
	q := newQuery(qm.Select(subjectColumns...), qm.From(subjectsTable), qm.WhereIn("id IN ?", ids...))
	if err := q.Bind(ctx, exe, &subjRows); err != nil {
		return nil, errors.Wrap(err, "querying assignment subjects")
	}
	subjects := make(map[string]subject.Subject, len(subjRows))
	for _, row := range subjRows {
		subjects[row.ID] = row.unboil()
	}

	list := make([]dashboard.Row, 0, len(rows))
	for _, row := range rows {
		list = append(list, dashboard.Row{Assignment: row.unboil(), Subject: subjects[row.SubjectID]})
	}
	return list, nil
}

func (repo dashboardRepository) EarliestDue(ctx context.Context, userID string, limit int, exec ...core.DBExecutor) ([]dashboard.Row, error) {
	exe := getExec(repo.exec, exec)
	q := newQuery(
		qm.Select(assignmentColumns...),
		qm.From(assignmentsTable),
		qm.Where("assignments.user_id = ?", userID),
		orderBy(assignmentsTable, assignmentOrdering),
		qm.Limit(limit),
	)
	var rows []assignmentRow
	if err := q.Bind(ctx, exe, &rows); err != nil {
		return nil, errors.Wrap(err, "querying earliest due assignments")
	}
	return repo.withSubjects(ctx, exe, rows)
}

func (repo dashboardRepository) PendingDueBetween(ctx context.Context, userID string, from, to time.Time, exec ...core.DBExecutor) ([]dashboard.Row, error) {
	exe := getExec(repo.exec, exec)
	q := newQuery(
		qm.Select(assignmentColumns...),
		qm.From(assignmentsTable),
		qm.Where("assignments.user_id = ?", userID),
		qm.Where("assignments.is_completed = ?", false),
		qm.Where("assignments.due_date BETWEEN ? AND ?", from.UTC(), to.UTC()),
		orderBy(assignmentsTable, assignmentOrdering),
	)
	var rows []assignmentRow
	if err := q.Bind(ctx, exe, &rows); err != nil {
		return nil, errors.Wrap(err, "querying pending assignments")
	}
	return repo.withSubjects(ctx, exe, rows)
}
