package main

import (
	"fmt"
	"time"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/version"
)

const serviceName = "speechkit"

// AppConfig is the speechkit binary configuration. API keys are task
// parameters and never live here.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	SiliconFlow          SiliconFlowConfig    `yaml:"siliconflow" mapstructure:"siliconflow"`
	Server               server.Config        `yaml:"server" mapstructure:"server"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

// SiliconFlowConfig points every provider at one OpenAI-compatible API root.
type SiliconFlowConfig struct {
	BaseURL            string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	TranscriptionModel string        `yaml:"transcription_model" mapstructure:"transcription_model"`
	SynthesisModel     string        `yaml:"synthesis_model" mapstructure:"synthesis_model"`
}

func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	return nil
}

// providerConfig is the generic factory map shared by every SiliconFlow-backed provider.
func (c SiliconFlowConfig) providerConfig(model string) map[string]any {
	m := map[string]any{}
	if c.BaseURL != "" {
		m["base_url"] = c.BaseURL
	}
	if c.Timeout > 0 {
		m["timeout"] = c.Timeout
	}
	if model != "" {
		m["model"] = model
	}
	return m
}

func loadConfig(configFile, envFile string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
