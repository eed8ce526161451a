package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the requesting user exists but may not act on
// the resource (not a participant of the trip, not the creator, not the vote owner).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned by repo functions when an insert or update violates
// a unique constraint. The service layer decides whether the conflict is
// retryable (trip codes) or a client error.
var ErrConflict = errors.New("conflict")

// ValidationError collects per-field messages so a single response can
// enumerate every offending field.
// errors.Is(err, ErrValidation) reports true for any *ValidationError.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty collector.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError is shorthand for a ValidationError carrying a single message.
func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// Add records message against field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge copies every message from other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, m := range msgs {
			e.Add(field, m)
		}
	}
}

// Empty reports whether no field has a message.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Err returns e as an error, or nil when nothing was recorded.
// Use it as the last line of a validate function.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Error renders the fields in sorted order,
// e.g. "validation error: end_date: This field is required.; name: This field is required."
func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Summary()
}

// Summary renders the field messages without the sentinel prefix.
func (e *ValidationError) Summary() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], " "))
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
