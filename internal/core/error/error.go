package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key in Redis.
	RedisNotFoundMessage = "record not found"
)

// Kind classifies a failure inside one orchestration turn. The kind decides
// whether the turn aborts (user resolution, reasoning) or degrades locally
// (retrieval, tool errors, persistence of the final exchange).
type Kind string

const (
	KindUserResolution Kind = "user_resolution"
	KindRetrieval      Kind = "retrieval"
	KindReasoning      Kind = "reasoning"
	KindToolNotFound   Kind = "tool_not_found"
	KindToolArgument   Kind = "tool_argument"
	KindToolExecution  Kind = "tool_execution"
	KindPersistence    Kind = "persistence"
)

// Error wraps an underlying error with a kind, an HTTP status and a safe message.
type Error struct {
	Err     error
	Kind    Kind
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, status int, message string) *Error {
	return &Error{Err: err, Status: status, Message: message}
}

// Wrap creates a new Error of the given kind around err.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Err: err, Kind: kind, Status: statusFor(kind), Message: message}
}

// Newf creates a new Error of the given kind from a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Status: statusFor(kind), Message: fmt.Sprintf(format, args...)}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindToolArgument, KindToolNotFound:
		return http.StatusBadRequest
	case KindUserResolution, KindRetrieval, KindPersistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindOf reports the kind carried by err, or the empty Kind when none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}
