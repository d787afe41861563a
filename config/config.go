// Package config loads and validates the identity service configuration
// from an optional YAML file, a .env file, and the process environment.
package config

import (
	"fmt"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/logger"
	"github.com/skillsenselab/identity-service/server"
	"github.com/skillsenselab/identity-service/telemetry"
)

// Config is the full service configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Server    server.Config    `yaml:"server" mapstructure:"server"`
	Logging   logger.Config    `yaml:"logging" mapstructure:"logging"`
	Auth      auth.Config      `yaml:"auth" mapstructure:"auth"`
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "identity-service"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}

	c.Server.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Auth.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks the configuration. Missing token secrets surface here,
// at startup, never at request time.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.auth: %w", err)
	}
	return nil
}
