package config

import (
	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/validation"
)

var validEnvironments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every binary needs. Embed it with
// `mapstructure:",squash"` to extend it.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Workers int          `yaml:"workers" mapstructure:"workers"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded, this method is promoted to the embedding struct.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Embedding structs should call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, validEnvironments)
	if err := c.Logging.Validate(); err != nil {
		v.AddError("logging", err.Error())
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
