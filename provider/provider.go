package provider

import "context"

// Provider is the base interface every speechkit backend implements.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider is configured to handle requests.
	// It never performs network I/O.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a loose config map (usually a config file
// section decoded with mapstructure).
type Factory[T Provider] func(cfg map[string]any) (T, error)
