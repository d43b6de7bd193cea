package service

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes, matched with errors.Is by the HTTP layer.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// ValidationError rejects a request with a field-specific reason.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError rejects a request for a record that does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TaskNotFoundError reports a fuzzy-match miss, listing the user's
// current task titles as a hint.
type TaskNotFoundError struct {
	Search string
	Titles []string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("Task not found: %q. Available: %s", e.Search, strings.Join(e.Titles, ", "))
}

func (e *TaskNotFoundError) Is(target error) bool { return target == ErrNotFound }
