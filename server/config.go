package server

import (
	"fmt"
	"time"

	"github.com/kbukum/speechkit/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// MaxBodyBytes caps request bodies; parameter maps are small.
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ApplyDefaults sets default values for unset fields. WriteTimeout stays
// generous because a task blocks on a remote inference call.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New().
		Range("server.port", c.Port, 0, 65535).
		Positive("server.read_timeout", c.ReadTimeout).
		Positive("server.write_timeout", c.WriteTimeout).
		Positive("server.idle_timeout", c.IdleTimeout).
		Custom(c.MaxBodyBytes > 0, "server.max_body_bytes", "must be positive")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
