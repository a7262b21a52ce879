// Package testutil holds the helpers shared by the tests: config, logger, validator & entity factories.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
	logsvc "github.com/trezcool/studytrack/services/logger"
)

// NewConfig returns the default configuration in test mode.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	return conf
}

// NewLogger returns a silent logger that never reports to rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator with every app rule registered, and its (en) translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, createdAt ...time.Time) user.User {
	t.Helper()
	tstamp := core.NowFunc()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateSubject stores subj. UserID, Name & SubjectCode are expected; other blank fields get defaults.
func CreateSubject(t *testing.T, repo subject.Repository, subj subject.Subject) subject.Subject {
	t.Helper()
	if subj.TeacherName == "" {
		subj.TeacherName = "Dr. Smith"
	}
	if subj.PeriodOfStudy == "" {
		subj.PeriodOfStudy = "Fall 2024"
	}
	if subj.CreditHours == 0 {
		subj.CreditHours = 3
	}
	if subj.DifficultyLevel == "" {
		subj.DifficultyLevel = subject.DifficultyBeginner
	}
	if subj.CreatedAt.IsZero() {
		subj.CreatedAt = core.NowFunc()
	}
	if subj.UpdatedAt.IsZero() {
		subj.UpdatedAt = subj.CreatedAt
	}
	subj, err := repo.CreateSubject(context.Background(), subj)
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

// CreateAssignment stores a in subj. Name & DueDate are expected; other blank fields get defaults.
func CreateAssignment(t *testing.T, repo assignment.Repository, subj subject.Subject, a assignment.Assignment) assignment.Assignment {
	t.Helper()
	a.SubjectID = subj.ID
	a.UserID = subj.UserID
	if a.Type == "" {
		a.Type = "homework"
	}
	if a.Priority == "" {
		a.Priority = assignment.PriorityMedium
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = core.NowFunc()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	a, err := repo.CreateAssignment(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

// CreateType stores typ. UserID & Name are expected; other blank fields get defaults.
func CreateType(t *testing.T, repo assignment.TypeRepository, typ assignment.Type) assignment.Type {
	t.Helper()
	if typ.Label == "" {
		typ.Label = typ.Name
	}
	if typ.Color == "" {
		typ.Color = assignment.DefaultTypeColor
	}
	if typ.CreatedAt.IsZero() {
		typ.CreatedAt = core.NowFunc()
	}
	if typ.UpdatedAt.IsZero() {
		typ.UpdatedAt = typ.CreatedAt
	}
	typ, err := repo.CreateType(context.Background(), typ)
	if err != nil {
		t.Fatalf("CreateType() failed: %v", err)
	}
	return typ
}

// SeedTypes gives userID the default assignment types.
func SeedTypes(t *testing.T, repo assignment.TypeRepository, userID string) {
	t.Helper()
	if err := assignment.NewTypeService(repo).SeedDefaultTypes(context.Background(), userID); err != nil {
		t.Fatalf("SeedTypes() failed: %v", err)
	}
}
