package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeUpstream   ErrorCode = "UPSTREAM_ERROR"
	CodeDecode     ErrorCode = "DECODE_ERROR"
	CodeTimeout    ErrorCode = "TIMEOUT"
	CodeCancelled  ErrorCode = "CANCELLED"
	CodeConfig     ErrorCode = "CONFIG_ERROR"
)

// Error is the classified failure that crosses every request boundary.
// Message is safe to show to users; Err keeps the underlying cause for logs.
type Error struct {
	Code    ErrorCode
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

// Is matches any *Error with the same code, so sentinels compare by code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewUpstreamError(msg string, err error) *Error {
	return &Error{Code: CodeUpstream, Message: msg, Err: err}
}

func NewDecodeError(msg string, err error) *Error {
	return &Error{Code: CodeDecode, Message: msg, Err: err}
}

func NewTimeoutError(msg string, err error) *Error {
	return &Error{Code: CodeTimeout, Message: msg, Err: err}
}

func NewCancelledError(err error) *Error {
	return &Error{Code: CodeCancelled, Message: "request cancelled", Err: err}
}

func NewConfigError(msg string, err error) *Error {
	return &Error{Code: CodeConfig, Message: msg, Err: err}
}

// CodeOf returns the taxonomy code of err, or UPSTREAM_ERROR for anything unclassified.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUpstream
}

var (
	ErrTextRequired              = NewValidationError("text is required")
	ErrTextTooLong               = NewValidationError("text is too long")
	ErrQueryRequired             = NewValidationError("query is required")
	ErrQueryTooLong              = NewValidationError("query is too long")
	ErrInvalidClaim              = NewValidationError("claim text is empty")
	ErrAISourceRequired          = NewValidationError("aiSource is required and must be a string")
	ErrNegativeTallies           = NewValidationError("tallies must not be negative")
	ErrCollaboratorNotConfigured = NewConfigError("verification service is not configured", nil)
)
