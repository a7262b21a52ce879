package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
)

func TestDB(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	usrRepo := NewUserRepository(db)
	subjRepo := NewSubjectRepository(db)
	asgRepo := NewAssignmentRepository(db)

	var usr user.User
	err = db.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		usr, err = usrRepo.CreateUser(ctx, user.User{Name: "Jane", Email: "jane@test.cd", CreatedAt: now}, exec)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.Equal(t, boom, db.InTx(ctx, func(core.DBExecutor) error { return boom }))

	subj, err := subjRepo.CreateSubject(ctx, subject.Subject{UserID: usr.ID, Name: "Algebra", SubjectCode: "MATH101"})
	require.NoError(t, err)
	_, err = subjRepo.CreateSubject(ctx, subject.Subject{UserID: usr.ID, Name: "Algebra II", SubjectCode: "MATH101"})
	assert.Equal(t, subject.ErrCodeExists, err)

	_, err = asgRepo.CreateAssignment(ctx, assignment.Assignment{SubjectID: subj.ID, UserID: "someone-else", Name: "Essay", DueDate: now})
	assert.Equal(t, assignment.ErrSubjectMismatch, err, "an assignment shares its subject's owner")
	a, err := asgRepo.CreateAssignment(ctx, assignment.Assignment{SubjectID: subj.ID, UserID: usr.ID, Name: "Essay", DueDate: now})
	require.NoError(t, err)

	toggled, err := asgRepo.ToggleAssignmentComplete(ctx, a.ID, subj.ID, "someone-else", now)
	assert.Equal(t, assignment.ErrNotFound, err)
	assert.Empty(t, toggled.ID)

	db.Flush()
	_, err = usrRepo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	assert.Equal(t, user.ErrNotFound, err)
	_, err = subjRepo.GetSubject(ctx, subj.ID)
	assert.Equal(t, subject.ErrNotFound, err)
	_, err = asgRepo.GetAssignment(ctx, a.ID)
	assert.Equal(t, assignment.ErrNotFound, err)
}
