package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
)

const (
	contextSubjectKey    = "subject"
	contextAssignmentKey = "assignment"
	contextTypeKey       = "assignmentType"
)

// subjectMiddleware loads the `:subject_id` subject of the context user.
// Missing subjects are 404, others' subjects 403.
func subjectMiddleware(svc *subject.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			subj, err := svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("subject_id"))
			if err != nil {
				return errors.Wrap(err, "getting subject")
			}
			ctx.Set(contextSubjectKey, subj)
			return next(ctx)
		}
	}
}

// assignmentMiddleware loads the `:assignment_id` assignment of the context subject.
func assignmentMiddleware(svc *assignment.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			subj, err := getContextSubject(ctx)
			if err != nil {
				return err
			}
			a, err := svc.Get(ctx.Request().Context(), usr.ID, subj, ctx.Param("assignment_id"))
			if err != nil {
				return errors.Wrap(err, "getting assignment")
			}
			ctx.Set(contextAssignmentKey, a)
			return next(ctx)
		}
	}
}

// typeMiddleware loads the `:type_id` assignment type of the context user.
func typeMiddleware(svc *assignment.TypeService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			typ, err := svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("type_id"))
			if err != nil {
				return errors.Wrap(err, "getting assignment type")
			}
			ctx.Set(contextTypeKey, typ)
			return next(ctx)
		}
	}
}

func getContextSubject(ctx echo.Context) (subject.Subject, error) {
	if subj, ok := ctx.Get(contextSubjectKey).(subject.Subject); ok {
		return subj, nil
	}
	return subject.Subject{}, errors.Wrap(errObjNotFoundInCtx, "retrieving subject from context")
}

func getContextAssignment(ctx echo.Context) (assignment.Assignment, error) {
	if a, ok := ctx.Get(contextAssignmentKey).(assignment.Assignment); ok {
		return a, nil
	}
	return assignment.Assignment{}, errors.Wrap(errObjNotFoundInCtx, "retrieving assignment from context")
}

func getContextType(ctx echo.Context) (assignment.Type, error) {
	if typ, ok := ctx.Get(contextTypeKey).(assignment.Type); ok {
		return typ, nil
	}
	return assignment.Type{}, errors.Wrap(errObjNotFoundInCtx, "retrieving assignment type from context")
}
