package boiledrepos

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
)

func Test_insertQuery(t *testing.T) {
	got := insertQuery("users", []string{"id", "name"})
	assert.Equal(t, `INSERT INTO "users" ("id", "name") VALUES ($1,$2) RETURNING "id", "name"`, got)
}

func Test_updateQuery(t *testing.T) {
	got := updateQuery("subjects", []string{"name", "is_active"}, []string{"id"}, "id", "user_id")
	assert.Contains(t, got, `UPDATE "subjects" SET `)
	assert.Contains(t, got, `$1`)
	assert.Contains(t, got, `$2`)
	assert.Contains(t, got, `WHERE "id" = $3 AND "user_id" = $4 RETURNING "id"`)
}

func Test_toggleQuery(t *testing.T) {
	tests := []struct {
		name  string
		table string
		col   string
		where []string
		want  string
	}{
		{
			name: "subject", table: "subjects", col: "is_active",
			want: `UPDATE "subjects" SET "is_active" = NOT "is_active", "updated_at" = $1 WHERE "id" = $2 AND "user_id" = $3 RETURNING "id"`,
		},
		{
			name: "assignment", table: "assignments", col: "is_completed", where: []string{"subject_id"},
			want: `UPDATE "assignments" SET "is_completed" = NOT "is_completed", "updated_at" = $1 WHERE "id" = $2 AND "user_id" = $3 AND "subject_id" = $4 RETURNING "id"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toggleQuery(tt.table, tt.col, []string{"id"}, tt.where...))
		})
	}
}

func Test_orderBy(t *testing.T) {
	q := newQuery(qm.From("subjects"), orderBy("subjects", []core.DBOrdering{
		{Field: "name", Ascending: true},
		{Field: "created_at"},
	}))
	sqlStr, _ := queries.BuildQuery(q)
	assert.Contains(t, sqlStr, "ORDER BY subjects.name ASC, subjects.created_at DESC, subjects.id ASC")

	q = newQuery(qm.From("subjects"), orderBy("subjects", []core.DBOrdering{{Field: "id"}}))
	sqlStr, _ = queries.BuildQuery(q)
	assert.Contains(t, sqlStr, "ORDER BY subjects.id DESC")
	assert.NotContains(t, sqlStr, "ASC")
}

func Test_containsPattern(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{search: "math", want: "%math%"},
		{search: "50%", want: `%50\%%`},
		{search: "50%_x", want: `%50\%\_x%`},
		{search: `C:\docs`, want: `%C:\\docs%`},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.search))
		})
	}
}

func Test_subjectRepository_filterMods(t *testing.T) {
	repo := subjectRepository{}
	filter := subject.QueryFilter{Search: "math", Difficulty: "advanced", Status: subject.StatusInactive}

	q := newQuery(append([]qm.QueryMod{qm.From(subjectsTable)}, repo.filterMods("usr", filter)...)...)
	sqlStr, args := queries.BuildQuery(q)

	assert.Contains(t, sqlStr, "subjects.user_id = $1")
	assert.Contains(t, sqlStr, `subjects.name ILIKE $2 ESCAPE '\'`)
	assert.NotContains(t, sqlStr, "period_of_study")
	assert.Equal(t, []interface{}{"usr", "%math%", "%math%", "%math%", "advanced", false}, args)
}

func Test_statusMod(t *testing.T) {
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, statusMod("", now))

	q := newQuery(qm.From(assignmentsTable), statusMod("due_soon", now))
	_, args := queries.BuildQuery(q)
	assert.Equal(t, []interface{}{false, now, now.Add(7 * 24 * time.Hour)}, args)
}

func Test_isUniqueViolation(t *testing.T) {
	err := errors.Wrap(&pq.Error{Code: uniqueViolation, Constraint: subjectsCodeKey}, "inserting subject")

	assert.True(t, isUniqueViolation(err, subjectsCodeKey))
	assert.False(t, isUniqueViolation(err, usersEmailKey))
	assert.False(t, isForeignKeyViolation(err, assignmentsSubjectKey))
	assert.False(t, isUniqueViolation(errors.New("lol"), subjectsCodeKey))
}
