package assignment

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studytrack/core"
)

var (
	activeTypeTag  = "activetype"
	activeTypeText = "the selected type is invalid"
)

type activeTypesKey struct{}

func withActiveTypes(ctx context.Context, names []string) context.Context {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return context.WithValue(ctx, activeTypesKey{}, set)
}

// InitValidators registers the assignment rules on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidationCtx(activeTypeTag, activeTypeValidation)
	core.RegisterCustomTranslation(validate, translator, activeTypeTag, activeTypeText)
}

// activeTypeValidation only allows the type names carried by the validation context.
func activeTypeValidation(ctx context.Context, fl validator.FieldLevel) bool {
	set, _ := ctx.Value(activeTypesKey{}).(map[string]bool)
	return set[fl.Field().String()]
}
