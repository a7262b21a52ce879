package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core/assignment"
)

type typeApi struct {
	svc      *assignment.TypeService
	validate *validator.Validate
}

func registerTypeAPI(
	g *echo.Group,
	auth []echo.MiddlewareFunc,
	svc *assignment.TypeService,
	validate *validator.Validate,
) {
	api := typeApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/assignment-types", auth...)
	tg.GET("", api.query)
	tg.POST("", api.create)

	// detail endpoints
	dg := tg.Group("/:type_id", typeMiddleware(api.svc))
	dg.PUT("", api.update)
	dg.PATCH("/toggle-status", api.toggleStatus)
}

// Handlers

func (api *typeApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var query typeQuery
	if err := ctx.Bind(&query); err != nil {
		query = typeQuery{}
	}

	types, err := api.svc.Query(ctx.Request().Context(), usr.ID, query.Active)
	if err != nil {
		return errors.Wrap(err, "querying assignment types")
	}
	return ctx.JSON(http.StatusOK, types)
}

func (api *typeApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewType
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewType")
	}
	if err := data.Validate(ctx.Request().Context(), usr.ID, api.validate, api.svc); err != nil {
		return err
	}

	typ, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment type")
	}
	return ctx.JSON(http.StatusCreated, Response{Message: translate(ctx, msgTypeCreated), Data: typ})
}

func (api *typeApi) update(ctx echo.Context) error {
	typ, err := getContextType(ctx)
	if err != nil {
		return err
	}
	var data assignment.UpdateType
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateType")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	typ, err = api.svc.Update(ctx.Request().Context(), typ, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment type")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, msgTypeUpdated), Data: typ})
}

func (api *typeApi) toggleStatus(ctx echo.Context) error {
	typ, err := getContextType(ctx)
	if err != nil {
		return err
	}
	typ, outcome, err := api.svc.ToggleActive(ctx.Request().Context(), typ)
	if err != nil {
		return errors.Wrap(err, "toggling assignment type status")
	}
	return ctx.JSON(http.StatusOK, Response{Message: translate(ctx, toggleMessageKey("type", outcome)), Data: typ})
}
