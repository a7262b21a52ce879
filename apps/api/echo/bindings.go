package echoapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/studytrack/core"
)

var (
	orderingParam = "ordering"
	pageParam     = "page"
)

// bindPage reads ?page=. Anything but a number falls back to the first page.
func bindPage(ctx echo.Context) core.PageRequest {
	n, err := strconv.Atoi(ctx.QueryParam(pageParam))
	if err != nil {
		return core.PageRequest{}
	}
	return core.PageRequest{Page: n}
}

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
}

type (
	// Response wraps the entity affected by a mutation with its confirmation message.
	Response struct {
		Message string      `json:"message"`
		Data    interface{} `json:"data,omitempty"`
	}

	typeQuery struct {
		Active bool `query:"active"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
