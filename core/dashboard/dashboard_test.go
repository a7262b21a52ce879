package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
	appfs "github.com/trezcool/studytrack/fs"
	dummydb "github.com/trezcool/studytrack/storage/database/dummy"
	testutil "github.com/trezcool/studytrack/tests"
)

var now = time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func setup(t *testing.T) (*dashboard.Service, subject.Repository, assignment.Repository) {
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = func() time.Time { return time.Now().UTC() } })

	db, err := dummydb.Open()
	require.NoError(t, err)
	return dashboard.NewService(dummydb.NewDashboardRepository(db)), dummydb.NewSubjectRepository(db), dummydb.NewAssignmentRepository(db)
}

func TestService_Stats(t *testing.T) {
	svc, subjRepo, asgRepo := setup(t)
	ctx := context.Background()

	algebra := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: "u1", Name: "Algebra", SubjectCode: "MATH101", IsActive: true})
	history := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: "u1", Name: "History", SubjectCode: "HIST101"})
	theirs := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: "u2", Name: "Physics", SubjectCode: "PHYS101", IsActive: true})

	testutil.CreateAssignment(t, asgRepo, algebra, assignment.Assignment{Name: "Late", DueDate: now.Add(-day)})
	testutil.CreateAssignment(t, asgRepo, algebra, assignment.Assignment{Name: "Done", DueDate: now.Add(-day), IsCompleted: true})
	testutil.CreateAssignment(t, asgRepo, history, assignment.Assignment{Name: "Next", DueDate: now.Add(day)})
	testutil.CreateAssignment(t, asgRepo, theirs, assignment.Assignment{Name: "Theirs", DueDate: now.Add(-day)})

	stats, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{
		TotalSubjects:        2,
		ActiveSubjects:       1,
		TotalAssignments:     3,
		CompletedAssignments: 1,
		PendingAssignments:   2,
		OverdueAssignments:   1,
	}, stats)

	stats, err = svc.Stats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{}, stats)
}

func TestService_Upcoming(t *testing.T) {
	svc, subjRepo, asgRepo := setup(t)
	ctx := context.Background()

	subj := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: "u1", Name: "Algebra", SubjectCode: "MATH101"})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Late", DueDate: now.Add(-time.Minute)})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Week end", DueDate: now.Add(7 * day)})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Tomorrow", DueDate: now.Add(day)})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Done", DueDate: now.Add(2 * day), IsCompleted: true})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Later", DueDate: now.Add(7*day + time.Minute)})

	upcoming, err := svc.Upcoming(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(t, upcoming, 2) {
		assert.Equal(t, "Tomorrow", upcoming[0].Name)
		assert.True(t, upcoming[0].IsDueSoon)
		assert.Equal(t, "Algebra", upcoming[0].Subject.Name)
		assert.Equal(t, "Week end", upcoming[1].Name)
		assert.False(t, upcoming[1].IsDueSoon, "upcoming is wider than due soon")
	}
}

func TestNewReminder(t *testing.T) {
	conf := testutil.NewConfig()
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, testutil.NewLogger(conf))

	usr := user.User{ID: "u1", Name: "Jane Doe", Email: "jane@test.cd"}
	assert.Nil(t, dashboard.NewReminder(usr, nil), "nothing to remind")

	subj := subject.Subject{Name: "Algebra"}
	upcoming := []dashboard.Item{
		{View: assignment.Assignment{Name: "Problem set", DueDate: now.Add(day)}.View(now), Subject: subj},
		{View: assignment.Assignment{Name: "Exam prep", DueDate: now.Add(5 * day)}.View(now), Subject: subj},
	}
	msg := dashboard.NewReminder(usr, upcoming)
	require.NotNil(t, msg)
	if assert.Len(t, msg.To, 1) {
		assert.Equal(t, "jane@test.cd", msg.To[0].Address)
		assert.Equal(t, "Jane Doe", msg.To[0].Name)
	}
	assert.Equal(t, "2 upcoming assignment(s)", msg.Subject)
	assert.Equal(t, dashboard.ReminderTemplate, msg.TemplateName)

	require.NoError(t, msg.Render())
	assert.Contains(t, msg.TextContent, "Hi Jane Doe,")
	assert.Contains(t, msg.TextContent, "Tue Mar 12, 12:00 | Algebra | Problem set (due soon)")
	assert.Contains(t, msg.TextContent, "Sat Mar 16, 12:00 | Algebra | Exam prep\n")
	assert.Contains(t, msg.HTMLContent, "Problem set")
}
