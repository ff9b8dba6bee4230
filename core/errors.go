package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the machine-readable category of a failed request.
type ErrorKind string

// Error kinds reported by the forecasting pipeline.
const (
	KindInsufficientHistory ErrorKind = "insufficient_history"
	KindModelUnavailable    ErrorKind = "model_unavailable"
	KindMissingFeatures     ErrorKind = "missing_features"
	KindInvalidRange        ErrorKind = "invalid_range"
	KindProfileUnavailable  ErrorKind = "profile_unavailable"
)

// Sentinels for matching with errors.Is.
var (
	ErrInsufficientHistory = &Error{Kind: KindInsufficientHistory}
	ErrModelUnavailable    = &Error{Kind: KindModelUnavailable}
	ErrMissingFeatures     = &Error{Kind: KindMissingFeatures}
	ErrInvalidRange        = &Error{Kind: KindInvalidRange}
	ErrProfileUnavailable  = &Error{Kind: KindProfileUnavailable}
)

// Error is a user-visible failure carrying a kind and a message.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds an Error with a formatted message.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapError builds an Error around a cause.
func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Describe returns the kind and message of err without its cause chain.
// Errors that carry no kind return empty strings.
func Describe(err error) (ErrorKind, string) {
	var e *Error
	if !errors.As(err, &e) {
		return "", ""
	}
	if e.Msg == "" {
		return e.Kind, strings.ReplaceAll(string(e.Kind), "_", " ")
	}
	return e.Kind, e.Msg
}
