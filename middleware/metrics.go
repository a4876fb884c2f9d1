package middleware

import (
	"context"
	"time"

	"github.com/c360/writeflow/metric"
	"github.com/c360/writeflow/writer"
)

// Metrics records request count, duration, and in-flight gauge for every
// write, tagged by writer name and request type. The counter's status label
// is "success", the failure's taxonomy kind, or "panic"; recording happens
// on every exit path and panics are re-raised afterwards. Nil metrics
// disable the wrapper.
func Metrics(m *metric.Metrics, writerName string) Middleware {
	return func(next WriteFunc) WriteFunc {
		if m == nil {
			return next
		}
		return func(ctx context.Context, req writer.Request) (res writer.Result, err error) {
			start := time.Now()
			m.WritesInFlight.WithLabelValues(writerName).Inc()

			defer func() {
				m.WritesInFlight.WithLabelValues(writerName).Dec()
				m.WriteDuration.WithLabelValues(writerName, req.Type).Observe(time.Since(start).Seconds())
				if p := recover(); p != nil {
					m.WritesTotal.WithLabelValues(writerName, req.Type, "panic").Inc()
					panic(p)
				}
				status := "success"
				if err != nil {
					status = kindLabel(err)
				}
				m.WritesTotal.WithLabelValues(writerName, req.Type, status).Inc()
			}()

			res, err = next(ctx, req)
			return res, err
		}
	}
}
