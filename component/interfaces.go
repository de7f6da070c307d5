package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the process with a start/stop lifecycle.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop releases resources. It is only called after a successful Start.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Overall folds component healths into one status: any unhealthy component
// makes the whole unhealthy, otherwise any degraded one makes it degraded.
func Overall(healths []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range healths {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Func adapts plain functions into a Component. Nil hooks are no-ops and a
// nil HealthFunc reports healthy.
type Func struct {
	ComponentName string
	StartFunc     func(ctx context.Context) error
	StopFunc      func(ctx context.Context) error
	HealthFunc    func(ctx context.Context) Health
}

func (f *Func) Name() string { return f.ComponentName }

func (f *Func) Start(ctx context.Context) error {
	if f.StartFunc == nil {
		return nil
	}
	return f.StartFunc(ctx)
}

func (f *Func) Stop(ctx context.Context) error {
	if f.StopFunc == nil {
		return nil
	}
	return f.StopFunc(ctx)
}

func (f *Func) Health(ctx context.Context) Health {
	if f.HealthFunc == nil {
		return Health{Name: f.ComponentName, Status: StatusHealthy}
	}
	return f.HealthFunc(ctx)
}
