package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates structs using their `validate` tags. Field names in
// errors are the json names.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate validates a struct
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return &Error{fields: verrs}
}

// Error lists the fields that failed validation
type Error struct {
	fields validator.ValidationErrors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, fe := range e.fields {
		parts = append(parts, describe(fe))
	}
	return strings.Join(parts, "; ")
}

// Missing returns the fields that failed the required rule, in declaration order
func (e *Error) Missing() []string {
	var out []string
	for _, fe := range e.fields {
		if fe.Tag() == "required" {
			out = append(out, fe.Field())
		}
	}
	return out
}

// MissingFields extracts the missing required fields from err, if any
func MissingFields(err error) []string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Missing()
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
