// Package result provides the success/failure envelope returned by the API
// client. A Result holds either a value or a *domain.Error, never both.
package result

import "github.com/Harshitk-cp/veritas/internal/domain"

type Result[T any] struct {
	value T
	err   *domain.Error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps err. A nil err is turned into an UPSTREAM_ERROR so that a failed
// Result always carries a cause.
func Fail[T any](err *domain.Error) Result[T] {
	if err == nil {
		err = domain.NewUpstreamError("unknown failure", nil)
	}
	return Result[T]{err: err}
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

func (r Result[T]) Err() *domain.Error {
	return r.err
}

// Code returns the error code, or "" for a success.
func (r Result[T]) Code() domain.ErrorCode {
	if r.err == nil {
		return ""
	}
	return r.err.Code
}

// Unwrap converts the Result back into Go's (value, error) form.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Map applies fn to a successful value and passes failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(fn(r.value))
}
