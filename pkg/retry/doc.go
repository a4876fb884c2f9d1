// Package retry provides bounded exponential backoff retry logic for
// transient write failures.
//
// # Overview
//
// The package offers a minimal retry loop with exponential backoff and
// jitter. It deliberately carries no error classification of its own: the
// caller decides what to retry, either by marking terminal failures with
// NonRetryable or by not invoking the loop at all.
//
// # Core Functions
//
//   - Do: execute a function with retry and exponential backoff
//   - DoWithResult: same, returning the successful attempt's result
//
// # Usage
//
// Basic retry with defaults:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), nil, func(ctx context.Context) error {
//	    return client.Put(ctx, key, value)
//	})
//
// Retry with result and per-attempt accounting:
//
//	res, err := retry.DoWithResult(ctx, cfg, func(attempt int, err error) {
//	    attempts.Inc()
//	}, func(ctx context.Context) (writer.Result, error) {
//	    return w.Write(ctx, req)
//	})
//
// # Failure Modes
//
// The loop distinguishes its terminal outcomes by type so callers can map
// them into their own vocabulary: *ExhaustedError when the attempt budget
// is consumed, *CanceledError when the context is done between attempts or
// during a backoff sleep, and the wrapped error itself when it was marked
// NonRetryable.
//
// # Context Cancellation
//
// Cancellation is observed before every attempt and during every backoff
// sleep; a canceled loop returns promptly rather than completing its
// remaining attempts.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package retry
