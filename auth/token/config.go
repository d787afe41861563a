package token

import (
	"errors"
	"time"
)

// Config configures the token service.
//
// Access and refresh tokens are signed with distinct secrets so neither
// kind can ever be verified as the other, regardless of claim contents.
type Config struct {
	// AccessSecret is the HMAC key for access tokens (required).
	AccessSecret string `mapstructure:"access_secret"`

	// RefreshSecret is the HMAC key for refresh tokens (required, must
	// differ from AccessSecret).
	RefreshSecret string `mapstructure:"refresh_secret"`

	// Issuer is the "iss" claim (optional).
	Issuer string `mapstructure:"issuer"`

	// AccessTTL is the lifetime of access tokens (default: 15m).
	AccessTTL time.Duration `mapstructure:"access_ttl"`

	// RefreshTTL is the lifetime of refresh tokens (default: 168h).
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("token: access secret is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("token: refresh secret is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("token: access and refresh secrets must differ")
	}
	if c.AccessTTL < 0 || c.RefreshTTL < 0 {
		return errors.New("token: ttl must be non-negative")
	}
	return nil
}
