package server

import (
	"context"

	"github.com/kbukum/speechkit/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component runs a Server under a component.Registry.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (sc *Component) Name() string { return componentName }

func (sc *Component) Start(ctx context.Context) error { return sc.server.Start(ctx) }

func (sc *Component) Stop(ctx context.Context) error { return sc.server.Stop(ctx) }

// Health is healthy while the listener is bound.
func (sc *Component) Health(_ context.Context) component.Health {
	if sc.server.running() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not listening",
	}
}
