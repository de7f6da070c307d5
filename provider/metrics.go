package provider

import (
	"context"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
)

// WithMetrics returns a Middleware that records a task.total/task.duration
// sample per Execute call, plus error.total on failure.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		m.metrics.RecordError(ctx, code, m.inner.Name())
	}
	m.metrics.RecordTask(ctx, m.inner.Name(), status, time.Since(start))

	return output, err
}
