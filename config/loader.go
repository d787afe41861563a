package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix scopes environment variables to this service,
// e.g. IDENTITY_SERVER_PORT overrides server.port.
const envPrefix = "IDENTITY"

// envKeys lists every configuration key bound to the environment.
// Viper only unmarshals env-provided values for keys it knows about,
// so each one is bound explicitly.
var envKeys = []string{
	"name",
	"environment",
	"debug",
	"server.host",
	"server.port",
	"server.read_timeout",
	"server.write_timeout",
	"server.idle_timeout",
	"logging.level",
	"logging.format",
	"logging.output",
	"logging.no_color",
	"logging.caller",
	"auth.bcrypt_cost",
	"auth.token.access_secret",
	"auth.token.refresh_secret",
	"auth.token.issuer",
	"auth.token.access_ttl",
	"auth.token.refresh_ttl",
	"telemetry.enabled",
	"telemetry.endpoint",
	"telemetry.insecure",
	"telemetry.sample_rate",
	"telemetry.metric_interval",
}

// LoaderOptions holds optional file overrides for Load.
type LoaderOptions struct {
	ConfigFile string // explicit config.yml path
	EnvFile    string // explicit .env path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderOptions)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lo *LoaderOptions) { lo.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lo *LoaderOptions) { lo.EnvFile = path }
}

// Load reads configuration in precedence order: environment variables,
// then a .env file, then a YAML config file, then built-in defaults.
// The returned config has defaults applied and has been validated.
func Load(opts ...LoaderOption) (*Config, error) {
	var lo LoaderOptions
	for _, opt := range opts {
		opt(&lo)
	}
	if lo.ConfigFile == "" {
		lo.ConfigFile = findFile("./config.yml", "./config/config.yml")
	}
	if lo.EnvFile == "" {
		lo.EnvFile = findFile("./.env")
	}

	if lo.EnvFile != "" {
		if err := godotenv.Load(lo.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", lo.EnvFile, err)
		}
	}

	v := viper.New()
	if lo.ConfigFile != "" {
		v.SetConfigFile(lo.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lo.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyLegacyEnv(&cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyLegacyEnv honors the unprefixed variable names this service has
// always been deployed with. Explicit IDENTITY_* values win.
func applyLegacyEnv(cfg *Config) {
	if cfg.Auth.Token.AccessSecret == "" {
		cfg.Auth.Token.AccessSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.Auth.Token.RefreshSecret == "" {
		cfg.Auth.Token.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	}
	if cfg.Server.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			cfg.Server.Port = port
		}
	}
}

func findFile(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
