package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Server  ServerConfig  `mapstructure:"server"`
}

// SolverConfig holds the search settings for one blueprint
type SolverConfig struct {
	// Minutes simulated per blueprint
	Horizon int `mapstructure:"horizon" validate:"min=0,max=64"`

	// Branching policy: exhaustive or greedy
	Policy string `mapstructure:"policy" validate:"required,oneof=exhaustive greedy"`

	// Keep duplicate states (debugging only)
	DisableDedup bool `mapstructure:"disable_dedup"`

	// Deadline for a whole run, 0 for none
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig holds settings for evaluating many blueprints
type BatchConfig struct {
	// Maximum number of searches running at once
	Workers int `mapstructure:"workers" validate:"min=1"`

	// Number of leading blueprints multiplied together, 0 to skip
	Top int `mapstructure:"top" validate:"min=0"`

	// Horizon used for the product of the leading blueprints
	TopHorizon int `mapstructure:"top_horizon" validate:"min=0,max=64"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" validate:"required,startswith=/"`
}

// ServerConfig holds HTTP service configuration
type ServerConfig struct {
	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// Largest accepted request body
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"min=1"`

	// Gin mode: debug, release, test
	Mode string `mapstructure:"mode" validate:"required,oneof=debug release test"`

	// gRPC listen address, empty to disable the gRPC service
	GRPCAddress string `mapstructure:"grpc_address"`

	// Accepted solve requests per second, 0 for no limit
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`

	// Requests allowed in a burst above the rate
	RateBurst int `mapstructure:"rate_burst" validate:"min=0"`

	// Longest a network solve may run, 0 for no limit
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (geodes.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("geodes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// GEODES_SOLVER_HORIZON overrides solver.horizon
	v.SetEnvPrefix("GEODES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{
		Solver: SolverConfig{Horizon: DefaultHorizon},
		Batch:  BatchConfig{Top: DefaultTop, TopHorizon: DefaultTopHorizon},
		Server: ServerConfig{
			GRPCAddress:    DefaultGRPCAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
	SetDefaults(cfg)
	return cfg
}

// registerDefaults makes every key known to viper so environment variables
// are picked up even when no config file sets them
func registerDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("solver.horizon", d.Solver.Horizon)
	v.SetDefault("solver.policy", d.Solver.Policy)
	v.SetDefault("solver.disable_dedup", d.Solver.DisableDedup)
	v.SetDefault("solver.timeout", d.Solver.Timeout)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.top", d.Batch.Top)
	v.SetDefault("batch.top_horizon", d.Batch.TopHorizon)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.grpc_address", d.Server.GRPCAddress)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
}

// RequestTimeout returns the deadline for a solve received over the network.
// requested overrides solver.timeout when positive, and the result never
// exceeds server.request_timeout.
func (c *Config) RequestTimeout(requested time.Duration) time.Duration {
	timeout := c.Solver.Timeout
	if requested > 0 {
		timeout = requested
	}
	if limit := c.Server.RequestTimeout; limit > 0 && (timeout <= 0 || timeout > limit) {
		timeout = limit
	}
	return timeout
}
