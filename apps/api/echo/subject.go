package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
)

type (
	subjectApi struct {
		svc      *subject.Service
		types    *assignment.TypeService
		validate *validator.Validate
	}

	// subjectDetail is a subject with its counts and the types its assignments may take.
	subjectDetail struct {
		subject.WithCounts
		AssignmentTypes []assignment.Type `json:"assignment_types"`
	}
)

func registerSubjectAPI(
	g *echo.Group,
	auth []echo.MiddlewareFunc,
	svc *subject.Service,
	types *assignment.TypeService,
	validate *validator.Validate,
) {
	api := subjectApi{
		svc:      svc,
		types:    types,
		validate: validate,
	}

	sg := g.Group("/subjects", auth...)
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:subject_id", subjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PATCH("/toggle-status", api.toggleStatus)
}

// Handlers

func (api *subjectApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var filter subject.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	page, err := api.svc.Query(ctx.Request().Context(), usr.ID, filter, ordering.Orderings, bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *subjectApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(ctx.Request().Context(), usr.ID, api.validate, api.svc); err != nil {
		return err
	}

	subj, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, Response{Message: translate(ctx, msgSubjectCreated), Data: subj})
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	withCounts, err := api.svc.GetWithCounts(ctx.Request().Context(), subj.UserID, subj.ID)
	if err != nil {
		return errors.Wrap(err, "getting subject counts")
	}
	choices, err := api.types.Choices(ctx.Request().Context(), subj.UserID)
	if err != nil {
		return errors.Wrap(err, "getting assignment types")
	}
	return ctx.JSON(http.StatusOK, subjectDetail{WithCounts: withCounts, AssignmentTypes: choices})
}

func (api *subjectApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	var data subject.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(ctx.Request().Context(), subj, api.validate, api.svc); err != nil {
		return err
	}

	subj, err = api.svc.Update(ctx.Request().Context(), usr.ID, subj, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, msgSubjectUpdated), Data: subj})
}

// destroy deletes the subject and its assignments.
func (api *subjectApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr.ID, subj); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, msgSubjectDeleted)})
}

func (api *subjectApi) toggleStatus(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subj, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	subj, outcome, err := api.svc.ToggleActive(ctx.Request().Context(), usr.ID, subj)
	if err != nil {
		return errors.Wrap(err, "toggling subject status")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, toggleMessageKey("subject", outcome)), Data: subj})
}
