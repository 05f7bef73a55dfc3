package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	satbrowse "github.com/psagers/sat-browse"
)

// Validator implements echo.Validator on top of go-playground/validator,
// turning tag violations into domain EINVALID errors.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator instance with the standard tag set.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a struct using its validation tags. Called by Echo
// whenever a handler invokes c.Validate().
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return satbrowse.Internal("validate input", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return satbrowse.Invalid("%s", strings.Join(msgs, "; "))
}

// Var validates a single value against a tag expression, e.g. "required,email".
func (v *Validator) Var(value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return satbrowse.Invalid("value failed validation: %s", tag)
		}
		return satbrowse.Internal("validate input", err)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}
