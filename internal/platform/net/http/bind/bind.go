// Package bind validates handler inputs and reports the first bad field as a Validation error
package bind

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

var shared = sync.OnceValue(func() checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("ident", ident)
	_ = entrans.RegisterDefaultTranslations(v, tr)

	override(v, tr, "max", "{0} must be at most {1}")
	override(v, tr, "ident", "{0} must not contain spaces, slashes or control characters")
	return checker{v: v, tr: tr}
})

// Struct validates v
// A value that cannot be validated at all is a programming error and comes back as Unknown
func Struct(v any) error {
	c := shared()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	fes, ok := err.(validator.ValidationErrors)
	if !ok || len(fes) == 0 {
		logger.Named("bind").Error().Err(err).Type("input", v).Msg("input not validatable")
		return perr.Internalf("validation error")
	}
	fe := fes[0]
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(c.tr)), fe.Field())
}

// jsonName reports fields by their json name, the name clients send
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// ident accepts query and site identifiers, which end up in paths and log lines
func ident(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
		return r == '/' || unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

func override(v *validator.Validate, tr ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, tr,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
