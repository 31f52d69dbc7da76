package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a conversion failure by who is at fault.
type ErrorKind string

const (
	// KindInput is a caller fault: missing or invalid input. No remote call was made.
	KindInput ErrorKind = "input"
	// KindRemote is a failure of the remote API during page creation or submission.
	KindRemote ErrorKind = "remote"
)

// Error is returned by Converter operations.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status class.
func (e *Error) StatusCode() int {
	if e.Kind == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of err, or KindRemote when err is not an *Error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindRemote
}

func inputError(op string, err error) error {
	return &Error{Kind: KindInput, Op: op, Err: err}
}

func remoteError(op string, err error) error {
	return &Error{Kind: KindRemote, Op: op, Err: err}
}
