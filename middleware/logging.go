package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/c360/writeflow/writer"
)

// Logging records the start, outcome, and duration of every write against
// the given structured logger. Outcomes are recorded on every exit path:
// the deferred log entry fires for success, failure, and panics, with
// panics re-raised after logging. A nil logger disables the wrapper.
func Logging(logger *slog.Logger, writerName string) Middleware {
	return func(next WriteFunc) WriteFunc {
		if logger == nil {
			return next
		}
		return func(ctx context.Context, req writer.Request) (res writer.Result, err error) {
			start := time.Now()
			logger.DebugContext(ctx, "write started",
				"writer", writerName,
				"target", req.Target,
				"type", req.Type,
				"request_id", req.MetaValue("request_id"),
			)

			defer func() {
				duration := time.Since(start)
				if p := recover(); p != nil {
					logger.ErrorContext(ctx, "write panicked",
						"writer", writerName,
						"type", req.Type,
						"duration", duration,
						"panic", p,
					)
					panic(p)
				}
				if err != nil {
					logger.ErrorContext(ctx, "write failed",
						"writer", writerName,
						"type", req.Type,
						"kind", kindLabel(err),
						"duration", duration,
						"error", err,
					)
					return
				}
				logger.InfoContext(ctx, "write completed",
					"writer", writerName,
					"type", req.Type,
					"duration", duration,
				)
			}()

			res, err = next(ctx, req)
			return res, err
		}
	}
}
