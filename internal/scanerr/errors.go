// Package scanerr defines the error taxonomy shared by the scan pipeline and
// its host.
package scanerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a pipeline failure.
type Kind string

const (
	// KindValidation marks bad input: non-positive dimensions, an empty
	// pixel buffer, out-of-range corners. Not retried.
	KindValidation Kind = "validation"
	// KindDegenerate marks corners that enclose no area. The caller should
	// let the user re-adjust and retry.
	KindDegenerate Kind = "degenerate"
	// KindResampling marks a failure producing the output raster.
	KindResampling Kind = "resampling"
	// KindNotFound marks a missing session or image.
	KindNotFound Kind = "not_found"
	// KindInternal marks anything else.
	KindInternal Kind = "internal"
)

// Error is a categorized failure with an optional cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error.
func Validation(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Cause: cause}
}

// Degenerate creates a degenerate-geometry error.
func Degenerate(message string, cause error) *Error {
	return &Error{Kind: KindDegenerate, Message: message, Cause: cause}
}

// Resampling creates a resampling error.
func Resampling(message string, cause error) *Error {
	return &Error{Kind: KindResampling, Message: message, Cause: cause}
}

// NotFound creates a not-found error.
func NotFound(message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Cause: cause}
}

// Internal creates an internal error.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
