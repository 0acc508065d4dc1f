package config

import (
	"runtime"
	"time"
)

// DefaultHorizon is the number of minutes simulated per blueprint
const DefaultHorizon = 24

// DefaultTopHorizon is the horizon used for the product of the leading blueprints
const DefaultTopHorizon = 32

// DefaultRequestTimeout bounds a solve received over the network
const DefaultRequestTimeout = 2 * time.Minute

// DefaultTop is the number of leading blueprints multiplied together
const DefaultTop = 3

// DefaultGRPCAddress is where the gRPC service listens unless configured
const DefaultGRPCAddress = ":50051"

// SetDefaults fills fields whose zero value is never valid.
// Fields where zero is meaningful (horizons, top, timeouts) get their
// defaults from Default instead.
func SetDefaults(cfg *Config) {
	// Solver defaults
	if cfg.Solver.Policy == "" {
		cfg.Solver.Policy = "exhaustive"
	}

	// Batch defaults
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = runtime.NumCPU()
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
}
