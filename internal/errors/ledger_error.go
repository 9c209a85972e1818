package errors

import (
	stderrors "errors"
	"fmt"
)

// Error couples a ledger code with a human-readable message and an optional
// underlying cause. Business-rule failures travel through the services as
// *Error values so callers always receive both the code and the message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option configures an Error beyond its code.
type Option func(*Error)

// WithMessage overrides the default message for the code.
func WithMessage(format string, args ...any) Option {
	return func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	}
}

// WithCause attaches the underlying error for %w-style unwrapping.
func WithCause(err error) Option {
	return func(e *Error) {
		e.Err = err
	}
}

// New creates an Error for the given code, carrying the code's default
// message unless overridden.
func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: MessageFor(code),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CodeOf extracts the ledger code from an error chain. Unclassified errors
// report PersistenceError so raw store failures never leak to callers.
func CodeOf(err error) Code {
	var ledgerErr *Error
	if stderrors.As(err, &ledgerErr) {
		return ledgerErr.Code
	}
	return PersistenceError
}

// MessageOf extracts the human-readable message from an error chain, falling
// back to the default message for the resolved code.
func MessageOf(err error) string {
	var ledgerErr *Error
	if stderrors.As(err, &ledgerErr) {
		return ledgerErr.Message
	}
	return MessageFor(CodeOf(err))
}
