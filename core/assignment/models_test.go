package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
)

var now = time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC)

func TestAssignment_flags(t *testing.T) {
	tests := []struct {
		name        string
		dueDate     time.Time
		completed   bool
		wantOverdue bool
		wantDueSoon bool
	}{
		{name: "past due", dueDate: now.Add(-time.Second), wantOverdue: true},
		{name: "past due but completed", dueDate: now.Add(-time.Hour), completed: true},
		{name: "due right now", dueDate: now, wantDueSoon: true},
		{name: "due in 2 days", dueDate: now.Add(48 * time.Hour), wantDueSoon: true},
		{name: "due at the end of the window", dueDate: now.Add(DueSoonWindow), wantDueSoon: true},
		{name: "due just after the window", dueDate: now.Add(DueSoonWindow + time.Second)},
		{name: "due in 5 days", dueDate: now.Add(5 * 24 * time.Hour)},
		{name: "due soon but completed", dueDate: now.Add(time.Hour), completed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{DueDate: tt.dueDate, IsCompleted: tt.completed}
			assert.Equal(t, tt.wantOverdue, a.IsOverdue(now), "IsOverdue()")
			assert.Equal(t, tt.wantDueSoon, a.IsDueSoon(now), "IsDueSoon()")
			assert.False(t, a.IsOverdue(now) && a.IsDueSoon(now), "flags are exclusive")

			v := a.View(now)
			assert.Equal(t, tt.wantOverdue, v.IsOverdue)
			assert.Equal(t, tt.wantDueSoon, v.IsDueSoon)
		})
	}

	assert.NotEqual(t, DueSoonWindow, UpcomingWindow)
}

func TestTally(t *testing.T) {
	assignments := []Assignment{
		{DueDate: now.Add(-48 * time.Hour)},                   // overdue
		{DueDate: now.Add(-time.Hour)},                        // overdue
		{DueDate: now.Add(-time.Hour), IsCompleted: true},     // completed
		{DueDate: now.Add(24 * time.Hour), IsCompleted: true}, // completed
		{DueDate: now.Add(24 * time.Hour)},                    // pending
		{DueDate: now.Add(30 * 24 * time.Hour)},               // pending
	}
	counts := Tally(assignments, now)
	assert.Equal(t, subject.Counts{Total: 6, Completed: 2, Pending: 4, Overdue: 2}, counts)
	assert.Equal(t, counts.Total, counts.Completed+counts.Pending)

	assert.Equal(t, subject.Counts{}, Tally(nil, now))
}

func TestAuthorize(t *testing.T) {
	subj := subject.Subject{ID: "s1", UserID: "u1"}

	tests := []struct {
		name          string
		userID        string
		a             Assignment
		wantForbidden bool
		wantNotFound  bool
	}{
		{name: "owner", userID: "u1", a: Assignment{ID: "a1", SubjectID: "s1", UserID: "u1"}},
		{name: "other user", userID: "u2", a: Assignment{ID: "a1", SubjectID: "s1", UserID: "u1"}, wantForbidden: true},
		{name: "other subject", userID: "u1", a: Assignment{ID: "a2", SubjectID: "s2", UserID: "u1"}, wantNotFound: true},
		{name: "other user and subject", userID: "u2", a: Assignment{ID: "a2", SubjectID: "s2", UserID: "u2"}, wantForbidden: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.userID, subj, tt.a)
			assert.Equal(t, tt.wantForbidden, core.IsForbidden(err), "IsForbidden(%v)", err)
			assert.Equal(t, tt.wantNotFound, core.IsNotFound(err), "IsNotFound(%v)", err)
			if !tt.wantForbidden && !tt.wantNotFound {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryFilter_Clean(t *testing.T) {
	tests := []struct {
		name   string
		filter QueryFilter
		want   QueryFilter
	}{
		{name: "empty", want: QueryFilter{}},
		{name: "cleaned", filter: QueryFilter{Type: " exam ", Priority: " HIGH", Status: "Overdue "}, want: QueryFilter{Type: "exam", Priority: "high", Status: StatusOverdue}},
		{name: "due soon", filter: QueryFilter{Status: "due_soon"}, want: QueryFilter{Status: StatusDueSoon}},
		{name: "unknown status", filter: QueryFilter{Status: "later"}, want: QueryFilter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Clean()
			assert.Equal(t, tt.want, tt.filter)
		})
	}
}
