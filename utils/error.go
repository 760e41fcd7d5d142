package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError marks a failure that was caught before any remote call.
// It is always recoverable by the user editing the form, so handlers render
// it as-is with a 422 instead of a generic failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
