// Package boiledrepos implements the repositories on PostgreSQL with sqlboiler's query builder.
package boiledrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/strmangle"

	"github.com/trezcool/studytrack/core"
)

// postgres codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var dialect = drivers.Dialect{
	LQ:                   '"',
	RQ:                   '"',
	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// newQuery builds a postgres query out of mods.
func newQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

func getExec(exec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return exec
}

func quote(ident string) string {
	return strmangle.IdentQuote(dialect.LQ, dialect.RQ, ident)
}

func quoteCols(cols []string) string {
	return strings.Join(strmangle.IdentQuoteSlice(dialect.LQ, dialect.RQ, cols), ", ")
}

func insertStmt(table string, cols []string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quote(table), quoteCols(cols), strmangle.Placeholders(dialect.UseIndexPlaceholders, len(cols), 1, 1))
}

// insertQuery inserts cols and returns the stored row.
func insertQuery(table string, cols []string) string {
	return insertStmt(table, cols) + " RETURNING " + quoteCols(cols)
}

// updateQuery sets cols on the row matching the where columns, placed after cols.
func updateQuery(table string, cols, returning []string, where ...string) string {
	conds := make([]string, 0, len(where))
	for i, col := range where {
		conds = append(conds, fmt.Sprintf("%s = $%d", quote(col), len(cols)+i+1))
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s RETURNING %s",
		quote(table), strmangle.SetParamNames(string(dialect.LQ), string(dialect.RQ), 1, cols),
		strings.Join(conds, " AND "), quoteCols(returning))
}

// toggleQuery flips the boolean col of the row `id` owned by `user_id` (plus any extra where column).
func toggleQuery(table, col string, returning []string, where ...string) string {
	conds := []string{quote("id") + " = $2", quote("user_id") + " = $3"}
	for i, w := range where {
		conds = append(conds, fmt.Sprintf("%s = $%d", quote(w), i+4))
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s = NOT %s, %s = $1 WHERE %s RETURNING %s",
		quote(table), quote(col), quote(col), quote("updated_at"), strings.Join(conds, " AND "), quoteCols(returning))
}

// orderBy sorts on the columns of table. Ties are broken by id so rows keep their page.
func orderBy(table string, ordering []core.DBOrdering) qm.QueryMod {
	list := make([]string, 0, len(ordering)+1)
	byID := false
	for _, ord := range ordering {
		byID = byID || ord.Field == "id"
		list = append(list, table+"."+ord.String())
	}
	if !byID {
		list = append(list, table+".id ASC")
	}
	return qm.OrderBy(strings.Join(list, ", "))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern matches s literally anywhere in a column, along with `ILIKE ? ESCAPE '\'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func pqError(err error, code string) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr, true
	}
	return nil, false
}

// isUniqueViolation tells whether err violates the unique constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := pqError(err, uniqueViolation)
	return ok && pqErr.Constraint == constraint
}

func isForeignKeyViolation(err error, constraint string) bool {
	pqErr, ok := pqError(err, foreignKeyViolation)
	return ok && pqErr.Constraint == constraint
}

// trapNoRowsErr maps "no rows" to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// exists tells whether the query built out of mods matches any row.
func exists(ctx context.Context, exec core.DBExecutor, mods ...qm.QueryMod) (bool, error) {
	var found bool
	q := newQuery(mods...)
	qm.Apply(q, qm.Select("1"), qm.Limit(1))
	sqlStr, args := queries.BuildQuery(q)
	sqlStr = "SELECT EXISTS (" + strings.TrimSuffix(sqlStr, ";") + ")"
	if err := exec.QueryRowContext(ctx, sqlStr, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// count runs SELECT COUNT(*) over the mods.
func count(ctx context.Context, exec core.DBExecutor, mods ...qm.QueryMod) (int, error) {
	var n int
	q := newQuery(mods...)
	qm.Apply(q, qm.Select("COUNT(*)"))
	if err := q.QueryRowContext(ctx, exec).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
