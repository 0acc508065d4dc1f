package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/solver/batch"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

func sampleReport() batch.Report {
	return batch.Report{
		Horizon: 24,
		Results: []geode.Result{
			{BlueprintID: 1, Horizon: 24, Geodes: 9},
			{BlueprintID: 2, Horizon: 24, Geodes: 12, Policy: geode.PolicyGreedy},
		},
		QualitySum: 33,
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Set("horizon", "32"))
	require.NoError(t, cmd.Flags().Set("policy", "greedy"))
	require.NoError(t, cmd.Flags().Set("top", "0"))
	require.NoError(t, cmd.Flags().Set("verbose", "true"))

	cfg := config.Default()
	applyFlags(cmd, cfg)

	assert.Equal(t, 32, cfg.Solver.Horizon)
	assert.Equal(t, "greedy", cfg.Solver.Policy)
	assert.Equal(t, 0, cfg.Batch.Top)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.Default().Batch.Workers, cfg.Batch.Workers, "unset flags keep the config value")
	assert.Equal(t, 32, cfg.Batch.TopHorizon)

	verbose = false
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleReport()))

	var decoded struct {
		QualitySum int `json:"quality_sum"`
		Results    []struct {
			Blueprint int    `json:"blueprint"`
			Policy    string `json:"policy"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 33, decoded.QualitySum)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "exhaustive", decoded.Results[0].Policy)
	assert.Equal(t, "greedy", decoded.Results[1].Policy)
	assert.NotContains(t, buf.String(), "product", "product omitted without top")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 33, decoded["quality_sum"])
	assert.Equal(t, 24, decoded["horizon"])
	assert.Contains(t, buf.String(), "policy: greedy")
}
