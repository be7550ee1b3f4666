// Package apperrors carries coded errors across service boundaries so
// the HTTP adapter can map failures to responses without string matching.
package apperrors

import "fmt"

type Code string

const (
	// CodeValidation rejects bad input before any persistence call.
	CodeValidation Code = "validation"
	// CodeDuplicate aborts an operation that would violate a uniqueness
	// rule (one deal per lead, one ledger entry per deal).
	CodeDuplicate Code = "duplicate"
	// CodeNotFound reports a missing entity within the company scope.
	CodeNotFound Code = "not_found"
	// CodeGateway wraps persistence failures (network/auth/constraint).
	CodeGateway Code = "gateway"
	// CodePartialWorkflow marks a multi-step workflow that failed after
	// an earlier step had already committed. The committed step stands.
	CodePartialWorkflow Code = "partial_workflow"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code so callers can use errors.Is with a bare coded error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from an error chain, defaulting to CodeGateway
// for raw persistence errors that were not wrapped.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return CodeGateway
}
