package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
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
	emailsvc "github.com/trezcool/studytrack/services/email"
	dummydb "github.com/trezcool/studytrack/storage/database/dummy"
	testutil "github.com/trezcool/studytrack/tests"
)

var (
	db       *dummydb.DB
	usrRepo  user.Repository
	subjRepo subject.Repository
	asgRepo  assignment.Repository
	typeRepo assignment.TypeRepository
)

func setup(t *testing.T) *commandLine {
	conf := testutil.NewConfig()
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, testutil.NewLogger(conf))

	// set up DB & repos
	var err error
	db, err = dummydb.Open()
	require.NoError(t, err)
	usrRepo = dummydb.NewUserRepository(db)
	subjRepo = dummydb.NewSubjectRepository(db)
	asgRepo = dummydb.NewAssignmentRepository(db)
	typeRepo = dummydb.NewTypeRepository(db)

	typeSvc := assignment.NewTypeService(typeRepo)

	// start CLI
	return &commandLine{
		usrSvc:  user.NewService(db, usrRepo, typeSvc),
		typeSvc: typeSvc,
		dashSvc: dashboard.NewService(dummydb.NewDashboardRepository(db)),
		mailSvc: emailsvc.NewConsoleServiceMock(conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if pwd, ok := tt.extra.(string); ok {
			return []byte(pwd), nil
		}
		return nil, nil
	}
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		if dir != appfs.MigrationsDir {
			return fmt.Errorf("unexpected migrations dir %q", dir)
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "reminders", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	existing := testutil.CreateUser(t, usrRepo, "Existing", "existing@test.cd", "Sup3r-S3cret!")

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no name", args: []string{"adduser", "-email", "new@test.cd"}, extra: "Sup3r-S3cret!", wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "new@test.cd", "-name", "New"}, wantErr: errHelp},
		{name: "email taken", args: []string{"adduser", "-email", "EXISTING@test.cd", "-name", "Other"}, extra: "Sup3r-S3cret!", wantErr: user.ErrEmailExists},
		{name: "created", args: []string{"adduser", "-email", " New@Test.cd ", "-name", " New Student "}, extra: "Sup3r-S3cret!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)

			usr, err := cli.usrSvc.GetByEmail(context.Background(), "new@test.cd")
			require.NoError(t, err)
			assert.Equal(t, "New Student", usr.Name)
			assert.NoError(t, usr.CheckPassword("Sup3r-S3cret!"))

			types, err := typeRepo.QueryTypes(context.Background(), usr.ID, false, nil)
			require.NoError(t, err)
			assert.Len(t, types, len(assignment.DefaultTypes), "default types are seeded")
		})
	}

	usr, err := cli.usrSvc.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Existing", usr.Name, "existing user is untouched")
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "mdr")

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: "lmao"},
		{name: "reset with uppercased email", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: "mdr-lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)

			refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
			require.NoError(t, err)
			assert.NoError(t, refreshedUsr.CheckPassword(tt.extra.(string)), "failed to update new password")
		})
	}
}

func Test_commandLine_seedTypes(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	usr1 := testutil.CreateUser(t, usrRepo, "One", "one@test.cd", "")
	usr2 := testutil.CreateUser(t, usrRepo, "Two", "two@test.cd", "")
	testutil.CreateType(t, typeRepo, assignment.Type{UserID: usr2.ID, Name: "homework", Label: "My Homework"})
	testutil.CreateType(t, typeRepo, assignment.Type{UserID: usr2.ID, Name: "reading", Label: "Reading"})

	require.NoError(t, cli.run([]string{"admin", "seedtypes"}))
	require.NoError(t, cli.run([]string{"admin", "seedtypes"}), "seeding twice is harmless")

	types1, err := typeRepo.QueryTypes(ctx, usr1.ID, false, nil)
	require.NoError(t, err)
	assert.Len(t, types1, len(assignment.DefaultTypes))

	types2, err := typeRepo.QueryTypes(ctx, usr2.ID, false, nil)
	require.NoError(t, err)
	assert.Len(t, types2, len(assignment.DefaultTypes)+1)
	for _, typ := range types2 {
		if typ.Name == "homework" {
			assert.Equal(t, "My Homework", typ.Label, "existing types are kept")
		}
	}
}

func Test_commandLine_remind(t *testing.T) {
	cli := setup(t)
	emailsvc.ResetSentMessages()
	defer emailsvc.ResetSentMessages()

	now := time.Now().UTC()
	busy := testutil.CreateUser(t, usrRepo, "Busy", "busy@test.cd", "")
	idle := testutil.CreateUser(t, usrRepo, "Idle", "idle@test.cd", "")

	subj := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: busy.ID, Name: "Algebra", SubjectCode: "MATH101"})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Problem set", DueDate: now.Add(2 * 24 * time.Hour)})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Exam prep", DueDate: now.Add(5 * 24 * time.Hour)})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Done", DueDate: now.Add(24 * time.Hour), IsCompleted: true})
	testutil.CreateAssignment(t, asgRepo, subj, assignment.Assignment{Name: "Far away", DueDate: now.Add(30 * 24 * time.Hour)})

	idleSubj := testutil.CreateSubject(t, subjRepo, subject.Subject{UserID: idle.ID, Name: "History", SubjectCode: "HIST101"})
	testutil.CreateAssignment(t, asgRepo, idleSubj, assignment.Assignment{Name: "Late essay", DueDate: now.Add(-24 * time.Hour)})

	require.NoError(t, cli.run([]string{"admin", "remind"}))

	sent := emailsvc.SentMessages()
	if assert.Len(t, sent, 1, "only users with upcoming assignments are reminded") {
		msg := sent[0]
		if assert.Len(t, msg.To, 1) {
			assert.Equal(t, busy.Email, msg.To[0].Address)
		}
		assert.Equal(t, "2 upcoming assignment(s)", msg.Subject)
		assert.Contains(t, msg.TextContent, "Problem set (due soon)")
		assert.Contains(t, msg.TextContent, "Exam prep")
		assert.NotContains(t, msg.TextContent, "Done")
		assert.NotContains(t, msg.TextContent, "Far away")
	}
}
