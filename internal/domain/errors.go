package domain

import (
	"errors"
	"fmt"
)

// Failure kinds the API layer maps to status codes. Everything not tagged
// with one of these is treated as an internal persistence failure.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFoundf tags a formatted message as a not-found failure.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf tags a formatted message as a conflict failure.
func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
