// Package retry provides bounded exponential backoff for transient write
// failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// NonRetryableError wraps errors that must not be retried
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable marks an error so the retry loop fails immediately instead
// of consuming further attempts
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable checks whether an error carries the non-retryable marker
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// ExhaustedError reports a retry budget consumed without success. Last is
// the error from the final attempt.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// CanceledError reports a retry loop aborted by context cancellation
// between attempts. Last is the most recent attempt error, nil when the
// context was already done before the first attempt.
type CanceledError struct {
	Last  error
	Cause error
}

func (e *CanceledError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("retry canceled (%v), last attempt: %v", e.Cause, e.Last)
	}
	return fmt.Sprintf("retry canceled: %v", e.Cause)
}

func (e *CanceledError) Unwrap() error {
	return e.Cause
}

// Observer is invoked after every attempt with the 1-based attempt number
// and its outcome. Used by the metrics middleware to account inner attempts
// separately from outer requests.
type Observer func(attempt int, err error)

// Config provides retry configuration. The backoff curve and attempt budget
// are caller-supplied values, not constants.
type Config struct {
	MaxAttempts  int           // Total attempts including the first (<=0 means run once)
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Cap on the backoff delay
	Multiplier   float64       // Backoff multiplier (typically 2.0)
	AddJitter    bool          // Add up to 25% randomness to each delay
}

// DefaultConfig returns sensible defaults for write operations
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Validate checks the configuration for nonsensical values
func (cfg Config) Validate() error {
	if cfg.InitialDelay < 0 {
		return errors.New("retry: InitialDelay cannot be negative")
	}
	if cfg.MaxDelay < 0 {
		return errors.New("retry: MaxDelay cannot be negative")
	}
	if cfg.Multiplier < 0 {
		return errors.New("retry: Multiplier cannot be negative")
	}
	if cfg.MaxDelay > 0 && cfg.InitialDelay > 0 && cfg.MaxDelay < cfg.InitialDelay {
		return errors.New("retry: MaxDelay must be >= InitialDelay")
	}
	return nil
}

// normalize applies defaults and clamps extreme values
func (cfg Config) normalize() Config {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay == 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.Multiplier > 1000 {
		cfg.Multiplier = 1000
	}
	return cfg
}

// Do executes fn with exponential backoff retry
func Do(ctx context.Context, cfg Config, obs Observer, fn func(context.Context) error) error {
	_, err := DoWithResult(ctx, cfg, obs, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoWithResult executes fn with exponential backoff retry, returning the
// result of the first successful attempt. Failure modes:
//
//   - fn returns a NonRetryableError: that error is returned immediately
//   - the attempt budget runs out: *ExhaustedError wrapping the last error
//   - ctx is done between attempts or during backoff: *CanceledError
//
// The zero value of T is returned alongside any error.
func DoWithResult[T any](ctx context.Context, cfg Config, obs Observer, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := cfg.Validate(); err != nil {
		return zero, err
	}
	cfg = cfg.normalize()

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, &CanceledError{Last: lastErr, Cause: ctx.Err()}
		}

		result, err := fn(ctx)
		if obs != nil {
			obs(attempt, err)
		}
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsNonRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		sleep := delay
		if cfg.AddJitter && delay >= 4 {
			sleep = delay + time.Duration(rand.Int63n(int64(delay/4)))
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &CanceledError{Last: lastErr, Cause: ctx.Err()}
		case <-timer.C:
		}

		next := float64(delay) * cfg.Multiplier
		if next > float64(cfg.MaxDelay) {
			delay = cfg.MaxDelay
		} else {
			delay = time.Duration(next)
		}
	}

	return zero, &ExhaustedError{Attempts: cfg.MaxAttempts, Last: lastErr}
}
