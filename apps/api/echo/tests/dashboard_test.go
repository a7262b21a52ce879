package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/tests"
)

func itemNames(items []dashboard.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func Test_dashboardApi(t *testing.T) {
	db.Flush()
	usr, token := newStudent(t, "Jane Student", "jane@test.cd")
	other, otherToken := newStudent(t, "Other Student", "other@test.cd")

	subjects := make([]subject.Subject, 0, 6)
	for i := 1; i <= 6; i++ {
		subjects = append(subjects, testutil.CreateSubject(t, subjRepo, subject.Subject{
			UserID:      usr.ID,
			Name:        fmt.Sprintf("Subject %d", i),
			SubjectCode: fmt.Sprintf("S%d", i),
			IsActive:    i != 2,
			CreatedAt:   now.Add(time.Duration(i-7) * time.Hour),
		}))
	}
	math := subjects[0]
	for _, a := range []assignment.Assignment{
		{Name: "overdue", DueDate: now.Add(-2 * day)},
		{Name: "done yesterday", DueDate: now.Add(-day), IsCompleted: true},
		{Name: "tomorrow", DueDate: now.Add(day)},
		{Name: "done in advance", DueDate: now.Add(2 * day), IsCompleted: true},
		{Name: "in 6 days", DueDate: now.Add(6 * day)},
		{Name: "in 8 days", DueDate: now.Add(8 * day)},
	} {
		testutil.CreateAssignment(t, asgRepo, math, a)
	}
	otherSubj := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: other.ID, Name: "Other", SubjectCode: "O1", IsActive: true})
	testutil.CreateAssignment(t, asgRepo, otherSubj, assignment.Assignment{Name: "not mine", DueDate: now.Add(day)})

	t.Run("auth required", func(t *testing.T) {
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, serve(http.MethodGet, "/api/dashboard", ""))
	})

	rec := serve(http.MethodGet, "/api/dashboard", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var board dashboard.Dashboard
	unmarchall(t, rec, &board)

	t.Run("stats", func(t *testing.T) {
		assert.Equal(t, dashboard.Stats{
			TotalSubjects:        6,
			ActiveSubjects:       5,
			TotalAssignments:     6,
			CompletedAssignments: 2,
			PendingAssignments:   4,
			OverdueAssignments:   1,
		}, board.Stats)

		raw := make(map[string]json.RawMessage)
		unmarchall(t, rec, &raw)
		stats := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(raw["stats"], &stats))
		for _, key := range []string{"totalSubjects", "activeSubjects", "totalAssignments", "completedAssignments", "pendingAssignments", "overdueAssignments"} {
			assert.Contains(t, stats, key)
		}
	})

	t.Run("latest subjects", func(t *testing.T) {
		require.Len(t, board.Subjects, dashboard.Length)
		names := make([]string, 0, len(board.Subjects))
		for _, subj := range board.Subjects {
			names = append(names, subj.Name)
		}
		assert.Equal(t, []string{"Subject 6", "Subject 5", "Subject 4", "Subject 3", "Subject 2"}, names)
		assert.Equal(t, 0, board.Subjects[0].Total)
	})

	t.Run("recent assignments", func(t *testing.T) {
		assert.Equal(t, []string{"overdue", "done yesterday", "tomorrow", "done in advance", "in 6 days"}, itemNames(board.RecentAssignments))
		for _, it := range board.RecentAssignments {
			assert.Equal(t, math.ID, it.Subject.ID)
		}
		assert.True(t, board.RecentAssignments[0].IsOverdue)
	})

	t.Run("upcoming assignments", func(t *testing.T) {
		assert.Equal(t, []string{"tomorrow", "in 6 days"}, itemNames(board.UpcomingAssignments))
		assert.True(t, board.UpcomingAssignments[0].IsDueSoon)
		assert.False(t, board.UpcomingAssignments[1].IsDueSoon)
		assert.Equal(t, "Subject 1", board.UpcomingAssignments[0].Subject.Name)
	})

	t.Run("scoped to the caller", func(t *testing.T) {
		rec := serve(http.MethodGet, "/api/dashboard", otherToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var board dashboard.Dashboard
		unmarchall(t, rec, &board)
		assert.Equal(t, dashboard.Stats{TotalSubjects: 1, ActiveSubjects: 1, TotalAssignments: 1, PendingAssignments: 1}, board.Stats)
		assert.Equal(t, []string{"not mine"}, itemNames(board.UpcomingAssignments))
	})
}
