package httpclient

import (
	"time"

	"github.com/kbukum/speechkit/validation"
)

const defaultTimeout = 30 * time.Second

// Config configures an Adapter.
type Config struct {
	// Name identifies the remote service in errors, logs and metrics.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole non-streaming request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth is applied when a request carries no auth of its own.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	v := validation.New().
		URL("base_url", c.BaseURL).
		Positive("timeout", c.Timeout)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
