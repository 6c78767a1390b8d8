package habit

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrSubHabitNotFound = errors.New("sub-habit not found")
	ErrUnauthorized     = errors.New("unauthorized")

	// ErrNotScheduled rejects completion toggles on days the habit does not apply to.
	ErrNotScheduled = &ValidationError{Field: "date", Message: "habit is not scheduled on this date"}
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
