package middleware

import (
	"context"
	stderrors "errors"

	"github.com/c360/writeflow/errors"
	"github.com/c360/writeflow/pkg/retry"
	"github.com/c360/writeflow/writer"
)

// Retry re-attempts the inner call for retryable failures, bounded by the
// configured attempt budget and backoff curve. Only timeout and backend
// kinds are retried; validation and routing kinds fail on the first
// attempt. Exhausting the budget yields a retry_exhausted error wrapping
// the last observed failure. The observer, when non-nil, is invoked once
// per attempt. MaxAttempts <= 1 disables the wrapper.
func Retry(cfg retry.Config, obs retry.Observer) Middleware {
	return func(next WriteFunc) WriteFunc {
		if cfg.MaxAttempts <= 1 {
			return next
		}
		return func(ctx context.Context, req writer.Request) (writer.Result, error) {
			res, err := retry.DoWithResult(ctx, cfg, obs, func(ctx context.Context) (writer.Result, error) {
				r, e := next(ctx, req)
				if e != nil && !errors.IsRetryable(e) {
					return r, retry.NonRetryable(e)
				}
				return r, e
			})
			if err == nil {
				return res, nil
			}

			var nre *retry.NonRetryableError
			if stderrors.As(err, &nre) {
				return writer.Result{}, nre.Err
			}

			var ex *retry.ExhaustedError
			if stderrors.As(err, &ex) {
				return writer.Result{}, errors.Wrapf(errors.KindRetryExhausted, ex.Last,
					"retry budget exhausted after %d attempts", ex.Attempts)
			}

			// Caller cancellation between attempts: surface the last
			// attempt's error when there is one, a timeout otherwise.
			var ce *retry.CanceledError
			if stderrors.As(err, &ce) {
				if ce.Last != nil {
					return writer.Result{}, errors.Normalize(ce.Last, "write aborted by cancellation")
				}
				return writer.Result{}, errors.Wrap(errors.KindTimeout,
					"write canceled before completion", ce.Cause)
			}

			return writer.Result{}, errors.Normalize(err, "retry loop failed")
		}
	}
}
