package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/c360/writeflow/errors"
	"github.com/c360/writeflow/writer"
)

// Timeout bounds the inner call with a deadline covering all retry
// attempts. Cancellation is cooperative: the derived context is canceled
// and the inner call must observe it to actually stop. A write that misses
// the deadline fails with a timeout kind carrying the inner error, if any,
// as cause. Zero duration disables the wrapper.
func Timeout(d time.Duration) Middleware {
	return func(next WriteFunc) WriteFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req writer.Request) (writer.Result, error) {
			tctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			res, err := next(tctx, req)
			if err == nil {
				return res, nil
			}

			// Deadline expiry is reported as a timeout kind unless the
			// caller's own context was canceled first or the inner error
			// already carries it.
			if tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
				var te *errors.Error
				if stderrors.As(err, &te) && te.Kind == errors.KindTimeout {
					return writer.Result{}, err
				}
				return writer.Result{}, errors.Wrap(errors.KindTimeout,
					fmt.Sprintf("write exceeded %s deadline", d), err)
			}
			return writer.Result{}, err
		}
	}
}
