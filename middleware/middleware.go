// Package middleware provides the composable wrappers applied around every
// write: timeout, retry, logging, and metrics. Wrappers compose over a
// WriteFunc and are independent; the manager declares the order
// (outermost first): Logging → Metrics → Timeout → Retry.
//
// Logging and Metrics are observational only — they never alter the result
// or error, and they record the outcome on every exit path, including
// panics. Because they sit outside Timeout and Retry they always see the
// final normalized error of the whole request, while retry attempt
// accounting flows separately through the retry observer.
package middleware

import (
	"context"

	"github.com/c360/writeflow/errors"
	"github.com/c360/writeflow/writer"
)

// WriteFunc is the inner call a middleware wraps
type WriteFunc func(ctx context.Context, req writer.Request) (writer.Result, error)

// Middleware wraps a WriteFunc with additional behavior
type Middleware func(next WriteFunc) WriteFunc

// Chain composes middlewares into one, applying the first argument
// outermost
func Chain(mws ...Middleware) Middleware {
	return func(next WriteFunc) WriteFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// kindLabel renders an error's taxonomy kind as a log/metric label
func kindLabel(err error) string {
	if k, ok := errors.KindOf(err); ok {
		return k.String()
	}
	return "unclassified"
}
