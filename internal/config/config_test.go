package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "sim.yaml", `
store:
  max_dispatch_depth: 8
snapshot:
  codec: yaml
simulation:
  tick_rate: 250ms
  ticks: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Store.MaxDispatchDepth)
	assert.Equal(t, 256, cfg.Store.PendingWarnThreshold)
	assert.Equal(t, "yaml", cfg.Snapshot.Codec)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 4, cfg.Simulation.Ticks)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "sim.toml", `
[logging]
level = "debug"
encoding = "json"

[simulation]
tick_rate = "1s"
throttle = 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Encoding)
	assert.Equal(t, time.Second, cfg.Simulation.TickRate)
	assert.Equal(t, 0.5, cfg.Simulation.Throttle)
	assert.Equal(t, 64, cfg.Store.MaxDispatchDepth)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := write(t, "bad.yaml", `
store:
  max_dispatch_depth: 0
snapshot:
  codec: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_dispatch_depth")
	assert.ErrorContains(t, err, "unknown codec")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
