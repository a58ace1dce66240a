// Package validator checks request DTOs against their `validate` tags.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	weightKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	supportedLocales = map[string]struct{}{"en": {}, "fr": {}, "de": {}}
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the service's custom tags registered:
//
//	locale     one of en, fr, de
//	weightkey  lower snake case identifier
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		_, ok := supportedLocales[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("weightkey", func(fl validator.FieldLevel) bool {
		return weightKeyPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
