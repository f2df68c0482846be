// Package ragerr defines the abstract error kinds shared across the engine's
// subsystems so that callers can classify a failure with errors.As instead of
// matching on message text.
package ragerr

import "fmt"

// Kind classifies an error into one of the abstract categories the engine's
// subsystems agree on at their boundaries.
type Kind string

const (
	KindNoAdapter         Kind = "no_adapter"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindNotFound          Kind = "not_found"
	KindRateLimited       Kind = "rate_limited"
	KindTimeout           Kind = "timeout"
	KindParseError        Kind = "parse_error"
	KindProviderError     Kind = "provider_error"
	KindValidationError   Kind = "validation_error"
	KindTaskExit          Kind = "task_exit"
	KindHalted            Kind = "halted"
)

// Error is the concrete type carried across adapter boundaries. It is never
// panicked; it is always returned.
type Error struct {
	Kind    Kind
	Detail  string
	Field   string // set for KindValidationError
	Wrapped error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Kind, e.Detail, e.Field)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is lets errors.Is(err, ragerr.NoAdapter("x")) match any error of the same Kind
// regardless of detail: only the Kinds are compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func new(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func NoAdapter(capability string) *Error {
	return new(KindNoAdapter, fmt.Sprintf("no adapter registered for capability %q", capability))
}

func DimensionMismatch(want, got int) *Error {
	return new(KindDimensionMismatch, fmt.Sprintf("expected dimensions %d, got %d", want, got))
}

func NotFound(what string) *Error {
	return new(KindNotFound, what)
}

func RateLimited(retryAfterMS int64) *Error {
	return new(KindRateLimited, fmt.Sprintf("retry after %dms", retryAfterMS))
}

func Timeout(op string) *Error {
	return new(KindTimeout, op)
}

func ParseError(detail string) *Error {
	return new(KindParseError, detail)
}

func ProviderError(detail string, wrapped error) *Error {
	return &Error{Kind: KindProviderError, Detail: detail, Wrapped: wrapped}
}

func ValidationError(field, reason string) *Error {
	return &Error{Kind: KindValidationError, Detail: reason, Field: field}
}

func TaskExit(detail string) *Error {
	return new(KindTaskExit, detail)
}

func Halted(prev error) *Error {
	return &Error{Kind: KindHalted, Detail: "context previously halted", Wrapped: prev}
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
