package internal

import (
	"errors"
	"fmt"
)

// ValidationError marks bad caller input, as opposed to a provider failure.
// The HTTP layer maps it to a 400 instead of a 502.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func Validationf(format string, a ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, a...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
