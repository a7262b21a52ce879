package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
)

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(
	g *echo.Group,
	auth []echo.MiddlewareFunc,
	subjects *subject.Service,
	svc *assignment.Service,
) {
	api := assignmentApi{svc: svc}

	mw := append(append([]echo.MiddlewareFunc{}, auth...), subjectMiddleware(subjects))
	ag := g.Group("/subjects/:subject_id/assignments", mw...)
	ag.GET("", api.query)
	ag.POST("", api.create)

	// detail endpoints
	dg := ag.Group("/:assignment_id", assignmentMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PATCH("/toggle-complete", api.toggleComplete)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	var filter assignment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	page, err := api.svc.Query(ctx.Request().Context(), usr.ID, subj, filter, bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := api.svc.ValidateNew(ctx.Request().Context(), subj, &data); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), subj, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, Response{Message: translate(ctx, msgAssignmentCreated), Data: a.View(core.NowFunc())})
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	a, err := getContextAssignment(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a.View(core.NowFunc()))
}

func (api *assignmentApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	a, err := getContextAssignment(ctx)
	if err != nil {
		return err
	}
	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := api.svc.ValidateUpdate(ctx.Request().Context(), subj, &data); err != nil {
		return err
	}

	a, err = api.svc.Update(ctx.Request().Context(), usr.ID, subj, a, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, msgAssignmentUpdated), Data: a.View(core.NowFunc())})
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	a, err := getContextAssignment(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr.ID, subj, a); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, msgAssignmentDeleted)})
}

func (api *assignmentApi) toggleComplete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	a, err := getContextAssignment(ctx)
	if err != nil {
		return err
	}
	a, outcome, err := api.svc.ToggleComplete(ctx.Request().Context(), usr.ID, subj, a)
	if err != nil {
		return errors.Wrap(err, "toggling assignment completion")
	}
	msg := translate(ctx, toggleMessageKey("assignment", outcome))
	return ctx.JSON(http.StatusOK, Response{Message: msg, Data: a.View(core.NowFunc())})
}
