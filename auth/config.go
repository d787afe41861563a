package auth

import (
	"fmt"

	"github.com/skillsenselab/identity-service/auth/token"
)

// Config holds all authentication configuration.
type Config struct {
	// Token configures signing secrets and lifetimes.
	Token token.Config `mapstructure:"token"`

	// BcryptCost is the password hashing work factor (default: 10).
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Token.ApplyDefaults()
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
}

// Validate checks the configuration. Missing signing secrets are a
// startup error, never a per-request one.
func (c *Config) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("auth: bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	return nil
}
