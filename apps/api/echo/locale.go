package echoapi

import (
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/uk"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	defaultLocale        = "en"
	localeParam          = "locale"
	translatorContextKey = "translator"
)

// confirmation messages, by key
const (
	msgAccountCreated = "account_created"
	msgAccountDeleted = "account_deleted"

	msgSubjectCreated = "subject_created"
	msgSubjectUpdated = "subject_updated"
	msgSubjectDeleted = "subject_deleted"

	msgAssignmentCreated = "assignment_created"
	msgAssignmentUpdated = "assignment_updated"
	msgAssignmentDeleted = "assignment_deleted"

	msgTypeCreated = "type_created"
	msgTypeUpdated = "type_updated"
)

var messages = map[string]map[string]string{
	"en": {
		msgAccountCreated:                 "Account created successfully!",
		msgAccountDeleted:                 "Account deleted successfully!",
		msgSubjectCreated:                 "Subject created successfully!",
		msgSubjectUpdated:                 "Subject updated successfully!",
		msgSubjectDeleted:                 "Subject deleted successfully!",
		"subject_activated":               "Subject activated successfully!",
		"subject_deactivated":             "Subject deactivated successfully!",
		msgAssignmentCreated:              "Assignment created successfully!",
		msgAssignmentUpdated:              "Assignment updated successfully!",
		msgAssignmentDeleted:              "Assignment deleted successfully!",
		"assignment_completed":            "Assignment completed successfully!",
		"assignment_marked_as_incomplete": "Assignment marked as incomplete successfully!",
		msgTypeCreated:                    "Assignment type created successfully!",
		msgTypeUpdated:                    "Assignment type updated successfully!",
		"type_activated":                  "Assignment type activated successfully!",
		"type_deactivated":                "Assignment type deactivated successfully!",
	},
	"uk": {
		msgAccountCreated:                 "Обліковий запис успішно створено!",
		msgAccountDeleted:                 "Обліковий запис успішно видалено!",
		msgSubjectCreated:                 "Предмет успішно створено!",
		msgSubjectUpdated:                 "Предмет успішно оновлено!",
		msgSubjectDeleted:                 "Предмет успішно видалено!",
		"subject_activated":               "Предмет успішно активовано!",
		"subject_deactivated":             "Предмет успішно деактивовано!",
		msgAssignmentCreated:              "Завдання успішно створено!",
		msgAssignmentUpdated:              "Завдання успішно оновлено!",
		msgAssignmentDeleted:              "Завдання успішно видалено!",
		"assignment_completed":            "Завдання успішно виконано!",
		"assignment_marked_as_incomplete": "Завдання позначено як невиконане!",
		msgTypeCreated:                    "Тип завдання успішно створено!",
		msgTypeUpdated:                    "Тип завдання успішно оновлено!",
		"type_activated":                  "Тип завдання успішно активовано!",
		"type_deactivated":                "Тип завдання успішно деактивовано!",
	},
}

// NewTranslators returns the translators of the supported locales (en, uk), loaded with the confirmation messages.
func NewTranslators() (*ut.UniversalTranslator, error) {
	_en := en.New()
	uni := ut.New(_en, _en, uk.New())

	for locale, texts := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, errors.Errorf("translator %q not found", locale)
		}
		for key, text := range texts {
			if err := trans.Add(key, text, false); err != nil {
				return nil, errors.Wrapf(err, "adding %q message %q", locale, key)
			}
		}
	}
	return uni, nil
}

// requestLocales lists the locales asked by the request: ?locale= first, then Accept-Language.
func requestLocales(ctx echo.Context) []string {
	var locales []string
	if l := ctx.QueryParam(localeParam); l != "" {
		locales = append(locales, l)
	}
	for _, lang := range strings.Split(ctx.Request().Header.Get("Accept-Language"), ",") {
		if lang = strings.TrimSpace(strings.SplitN(lang, ";", 2)[0]); lang != "" && lang != "*" {
			locales = append(locales, lang)
		}
	}

	// "uk-UA" is served by "uk"
	normalized := make([]string, 0, len(locales))
	for _, l := range locales {
		l = strings.ToLower(strings.Split(strings.ReplaceAll(l, "_", "-"), "-")[0])
		normalized = append(normalized, l)
	}
	return normalized
}

// localeMiddleware picks the translator of the request. There is no locale state beyond the request.
func localeMiddleware(uni *ut.UniversalTranslator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			trans, found := uni.FindTranslator(requestLocales(ctx)...)
			if !found {
				trans, _ = uni.GetTranslator(defaultLocale)
			}
			ctx.Set(translatorContextKey, trans)
			return next(ctx)
		}
	}
}

// translate returns the confirmation message `key` in the locale of the request.
func translate(ctx echo.Context, key string) string {
	trans, ok := ctx.Get(translatorContextKey).(ut.Translator)
	if !ok {
		return key
	}
	msg, err := trans.T(key)
	if err != nil {
		return key
	}
	return msg
}

// toggleMessageKey builds the message key of a toggle outcome, e.g. ("assignment", "marked as incomplete").
func toggleMessageKey(prefix, outcome string) string {
	return prefix + "_" + strings.ReplaceAll(outcome, " ", "_")
}
