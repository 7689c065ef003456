// Package validator adapts go-playground/validator to echo.
package validator

import (
	"tiffin/internal/errors"

	playground "github.com/go-playground/validator/v10"
)

// EchoValidator implements echo.Validator.
type EchoValidator struct {
	validate *playground.Validate
}

// New creates a validator that reports field names by their json tag.
func New() *EchoValidator {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &EchoValidator{validate: v}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}

// FieldErrors flattens validation errors into field -> failed rule.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	fieldErrs, ok := errors.AsType[playground.ValidationErrors](err)
	if !ok {
		return nil
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Tag()
	}

	return out
}
