package models

import "fmt"

// ErrorValidation is returned for missing or malformed input.
type ErrorValidation struct {
	Message string
	Fields  map[string][]string
}

func (e *ErrorValidation) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ErrorValidation {
	return &ErrorValidation{Message: fmt.Sprintf(format, args...)}
}

// ErrorNotFound is returned when a referenced record does not exist.
type ErrorNotFound struct {
	Resource string
	ID       string
}

func (e *ErrorNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrorConflict is returned when a write would violate a uniqueness rule.
type ErrorConflict struct {
	Message string
}

func (e *ErrorConflict) Error() string {
	return e.Message
}

// ErrorStorage wraps blob store failures.
type ErrorStorage struct {
	Op  string
	Err error
}

func (e *ErrorStorage) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *ErrorStorage) Unwrap() error {
	return e.Err
}

// ErrorPersistence wraps document store failures.
type ErrorPersistence struct {
	Op  string
	Err error
}

func (e *ErrorPersistence) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *ErrorPersistence) Unwrap() error {
	return e.Err
}
