package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable machine-readable code alongside
// the underlying cause. Handlers unwrap it with errors.As and render the
// code/message pair; everything else becomes a 500.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation reports malformed input (out-of-range coordinates, empty
// keypoint lists, bad payloads).
func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, "validation_error", fmt.Errorf(format, args...))
}

// Precondition reports a missing prerequisite the caller can satisfy first
// (for example a stored position before starting a tour).
func Precondition(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, "precondition_error", fmt.Errorf(format, args...))
}

// Conflict reports a state clash: a second active execution, an abandon on a
// terminal execution, a duplicate follow.
func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, "conflict_error", fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf(format, args...))
}

// Dependency wraps a failure of a collaborating store or service. Nothing is
// committed when one of these is returned.
func Dependency(err error, format string, args ...interface{}) *Error {
	return New(http.StatusBadGateway, "dependency_error", fmt.Errorf(format+": %w", append(args, err)...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, "unauthorized", fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, "forbidden", fmt.Errorf(format, args...))
}

// As extracts an *Error from err, or nil when err is not one.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
