// Package errors defines the closed error taxonomy surfaced by the write
// path. Every failure that crosses the manager boundary carries exactly one
// Kind; raw backend errors are wrapped before they leave an adapter.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/c360/writeflow/pkg/retry"
)

// Kind classifies a write-path failure. The set is closed: layers above the
// adapters branch on Kind, never on error strings.
type Kind int

const (
	// KindInvalidRequest marks malformed input (empty target or type, nil
	// payload, schema violation). Never retried.
	KindInvalidRequest Kind = iota
	// KindWriterNotFound marks a target no registered adapter claims.
	// Never retried.
	KindWriterNotFound
	// KindTypeNotSupported marks a type the selected adapter has no
	// handler for. Never retried.
	KindTypeNotSupported
	// KindTimeout marks a deadline or cancellation observed during the
	// write. Retryable.
	KindTimeout
	// KindRetryExhausted marks a consumed retry budget. Terminal; the
	// cause carries the last attempt's error.
	KindRetryExhausted
	// KindBackend marks an opaque underlying storage failure. Retryable
	// unless the cause is marked non-retryable.
	KindBackend
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindWriterNotFound:
		return "writer_not_found"
	case KindTypeNotSupported:
		return "type_not_supported"
	case KindTimeout:
		return "timeout"
	case KindRetryExhausted:
		return "retry_exhausted"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is a tagged failure: a taxonomy Kind, a human-readable message, and
// an optional wrapped cause. Values are immutable once constructed.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a taxonomy error with no underlying cause
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a taxonomy error with a formatted message and no cause
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause. A nil cause is
// allowed and equivalent to New.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf attaches a kind and a formatted message to an underlying cause
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the taxonomy kind carried by err. Context deadline and
// cancellation errors classify as KindTimeout even when unwrapped, so a
// backend that returns ctx.Err() directly still lands in the taxonomy.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsRetryable reports whether the retry middleware may re-attempt after err.
// Timeout and backend failures are retryable; routing and validation
// failures never are. A retry.NonRetryable marker anywhere in the chain
// downgrades an otherwise retryable error to terminal, which is how a
// backend signals a non-transient storage failure through the cause.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if retry.IsNonRetryable(err) {
		return false
	}
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindTimeout || k == KindBackend
}

// Normalize returns err unchanged when it already carries a taxonomy kind,
// and otherwise wraps it as KindBackend with the given message. It is the
// seam through which backend-native errors enter the caller-visible
// vocabulary.
func Normalize(err error, message string) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(KindTimeout, message, err)
	}
	return Wrap(KindBackend, message, err)
}
