package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultHorizon, cfg.Solver.Horizon)
	assert.Equal(t, "exhaustive", cfg.Solver.Policy)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.Equal(t, DefaultTop, cfg.Batch.Top)
	assert.Equal(t, DefaultTopHorizon, cfg.Batch.TopHorizon)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DefaultGRPCAddress, cfg.Server.GRPCAddress)
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodes.yaml")
	content := `
solver:
  horizon: 32
  policy: greedy
  timeout: 30s
batch:
  workers: 2
  top: 0
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Solver.Horizon)
	assert.Equal(t, "greedy", cfg.Solver.Policy)
	assert.Equal(t, 30*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 0, cfg.Batch.Top, "an explicit zero must disable the product")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  horizon: 20\n"), 0o644))

	t.Setenv("GEODES_SOLVER_HORIZON", "28")
	t.Setenv("GEODES_SERVER_ADDRESS", "127.0.0.1:9000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 28, cfg.Solver.Horizon)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown policy", "solver:\n  policy: random\n"},
		{"horizon too large", "solver:\n  horizon: 100\n"},
		{"negative timeout", "solver:\n  timeout: -5s\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"relative metrics path", "metrics:\n  path: metrics\n"},
		{"negative rate limit", "server:\n  rate_limit: -1\n"},
		{"negative request timeout", "server:\n  request_timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "geodes.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfigZeroHorizons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  top_horizon: 0\n"), 0o644))
	t.Setenv("GEODES_SOLVER_HORIZON", "0")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Solver.Horizon)
	assert.Equal(t, 0, cfg.Batch.TopHorizon)
}

func TestLoadConfigDefaultsForUnsetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultHorizon, cfg.Solver.Horizon)
	assert.Equal(t, DefaultTopHorizon, cfg.Batch.TopHorizon)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name      string
		solver    time.Duration
		limit     time.Duration
		requested time.Duration
		want      time.Duration
	}{
		{"limit applies when nothing else is set", 0, time.Minute, 0, time.Minute},
		{"solver timeout below limit", 10 * time.Second, time.Minute, 0, 10 * time.Second},
		{"solver timeout above limit", time.Hour, time.Minute, 0, time.Minute},
		{"request overrides solver timeout", 10 * time.Second, time.Minute, 2 * time.Second, 2 * time.Second},
		{"request capped by limit", 0, time.Minute, time.Hour, time.Minute},
		{"no limit keeps request", 0, 0, time.Hour, time.Hour},
		{"nothing set", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Solver.Timeout = tt.solver
			cfg.Server.RequestTimeout = tt.limit

			assert.Equal(t, tt.want, cfg.RequestTimeout(tt.requested))
		})
	}
}
