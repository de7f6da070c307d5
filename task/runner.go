package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
)

// Runner looks up tasks by name and executes them wrapped in logging,
// metrics and tracing.
type Runner struct {
	registry    *Registry
	log         *logger.Logger
	metrics     *observability.Metrics
	serviceName string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for task outcome events.
func WithLogger(l *logger.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithMetrics records task.total and task.duration per run.
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithServiceName sets the span name prefix ("{service}.{task}").
func WithServiceName(name string) RunnerOption {
	return func(r *Runner) { r.serviceName = name }
}

// NewRunner creates a Runner over reg.
func NewRunner(reg *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry:    reg,
		log:         logger.Named("task"),
		serviceName: "speechkit",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the runner resolves tasks from.
func (r *Runner) Registry() *Registry { return r.registry }

// Run executes the named task. A request ID is taken from ctx or generated.
// An unknown name is NOT_FOUND.
func (r *Runner) Run(ctx context.Context, name string, tctx Context, params map[string]any) (map[string]any, error) {
	if logger.RequestIDFromContext(ctx) == "" {
		ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	}
	ctx = logger.ContextWithTask(ctx, name)

	h, err := r.registry.Get(name)
	if err != nil {
		r.log.WithContext(ctx).Warn("unknown task", logger.Fields(logger.FieldTask, name))
		return nil, err
	}

	wrapped := provider.Chain(
		provider.WithLogging[Invocation, map[string]any](r.log),
		provider.WithMetrics[Invocation, map[string]any](r.metrics),
		provider.WithTracing[Invocation, map[string]any](r.serviceName),
	)(h)
	return run(ctx, wrapped, tctx, params)
}
