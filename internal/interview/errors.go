package interview

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion is returned when the question text is blank.
	ErrEmptyQuestion = errors.New("question text is empty")

	// ErrSessionNotFound is returned for unknown or evicted session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned when a closed session is mutated.
	ErrSessionClosed = errors.New("session is closed")

	// ErrCaseNotFound is returned when Start names an unknown case.
	ErrCaseNotFound = errors.New("case not found")
)

// ValidationError reports bad caller input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
