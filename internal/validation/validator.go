// Package validation validates club records and issue-form input with
// go-playground/validator, reporting failures as domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/readingroom/bookclub/internal/errors"
)

// workKeyPattern matches OpenLibrary work keys such as "/works/OL45804W".
var workKeyPattern = regexp.MustCompile(`^/works/OL\d+W$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the bookclub custom tags registered:
//
//	workkey   OpenLibrary work key ("/works/OL…W")
//	isodate   calendar date in YYYY-MM-DD form
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("workkey", func(fl validator.FieldLevel) bool {
		return workKeyPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// IsWorkKey reports whether s is a full OpenLibrary work key.
func IsWorkKey(s string) bool {
	return workKeyPattern.MatchString(s)
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "workkey":
		return "must be an OpenLibrary work key like /works/OL45804W"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "dive":
		return "contains an invalid entry"
	default:
		return "is invalid"
	}
}
