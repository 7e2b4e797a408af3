// Package validator wraps go-playground/validator so callers can validate
// struct tags (e.g. `validate:"required"`) and get one readable error per
// failing field.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error in the chain returned by Validate
// when any field fails its rules.
var ErrValidationFailed = errors.New("struct validation failed")

var validate = gvalidator.New(gvalidator.WithRequiredStructEnabled())

// errStringFormat describes a single failing field.
//
// Example: "'Address': value '' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its validation tags.
//
// It returns nil when every field passes. Otherwise the returned error
// matches ErrValidationFailed with errors.Is and names each failing field.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatError(err)
	}
	return nil
}
