package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/itosim/internal/config"
	"github.com/san-kum/itosim/internal/store"
)

// execute runs the CLI with args. Flag variables are package globals, so
// each call starts from a fresh command tree with defaults restored.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile, preset, jsonOut = "", "", false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunPrintsSummary(t *testing.T) {
	out, err := execute(t, "run", "--samples", "20", "--trajectories", "3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean final value:")
	assert.Contains(t, out, "Distribution of Final Integral Values")
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--json", "--samples", "10", "--trajectories", "2", "--seed", "5", "--preset", "drift")
	require.NoError(t, err)

	var doc store.Export
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, uint64(5), doc.Seed)
	assert.Equal(t, "0", doc.Function)
	assert.Equal(t, "1", doc.FunctionG)
	assert.Len(t, doc.Snapshot.Times, 11)
	assert.Len(t, doc.Terminal, 2)
	// I_t = t for the drift preset.
	assert.InDelta(t, 1.0, doc.Mean, 1e-9)
	assert.InDelta(t, 0.0, doc.StdDev, 1e-9)
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, err := execute(t, "run", "--samples", "0")
	assert.Error(t, err)

	_, err = execute(t, "run", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestRunReportsOverflow(t *testing.T) {
	out, err := execute(t, "run", "--t-max", "10", "--samples", "1", "--trajectories", "2", "--f", "0", "--g", "1e308", "--seed", "1")
	require.Error(t, err)
	assert.Contains(t, out, "non-finite result")
}

func TestConfigInitAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itosim.yaml")
	_, err := execute(t, "config", "init", path, "--preset", "ito-square", "--bins", "7")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2*B_t", cfg.Function)
	assert.Equal(t, 7, cfg.NumBins)

	out, err := execute(t, "run", "--json", "--config", path, "--samples", "5", "--seed", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"function": "2*B_t"`)
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range config.ListPresets() {
		assert.Contains(t, out, name)
	}
}

func TestRenderSVG(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "--out", dir, "--format", "svg", "--samples", "20", "--trajectories", "2", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "trajectories.svg")

	data, err := os.ReadFile(filepath.Join(dir, "histogram.svg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))

	_, err = execute(t, "render", "--out", dir, "--format", "bmp")
	assert.Error(t, err)
}

func TestCheckNoise(t *testing.T) {
	out, err := execute(t, "check-noise", "--draws", "5000", "--dt", "0.04", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "variance")
	assert.Contains(t, out, "0.040000")
}

func TestAnimateStopsAfter(t *testing.T) {
	out, err := execute(t, "animate", "--samples", "100000", "--speed", "100", "--stop-after", "30ms", "--fps", "0", "--trajectories", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean final value:")
}

func TestAnimateCompletesBeforeStopAfter(t *testing.T) {
	start := time.Now()
	out, err := execute(t, "animate", "--samples", "5", "--speed", "100", "--stop-after", "1m", "--fps", "0", "--trajectories", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean final value:")
	assert.Less(t, time.Since(start), 10*time.Second)
}
