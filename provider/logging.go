package provider

import (
	"context"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

// WithLogging returns a Middleware that logs each Execute call with its
// provider name and duration. Failures are logged at error level with the
// AppError code when there is one.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := logger.DurationFields(l.inner.Name(), time.Since(start))
	fields[logger.FieldProvider] = l.inner.Name()

	log := l.log.WithContext(ctx)
	if err != nil {
		fields = logger.MergeWithError(fields, err)
		if appErr, ok := errors.AsAppError(err); ok {
			fields["code"] = string(appErr.Code)
		}
		log.Error("provider execute failed", fields)
	} else {
		log.Info("provider execute ok", fields)
	}

	return output, err
}
