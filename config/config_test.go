package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.World.Width)
	assert.Equal(t, 150, cfg.World.Height)
	assert.InDelta(t, 0.47, cfg.Generator.FillRatio, 1e-9)
	assert.InDelta(t, 0.0005, cfg.Pheromone.EvaporateAmount, 1e-9)
	assert.Equal(t, 100, cfg.Food.MaxPerCell)
	assert.Equal(t, 250, cfg.Colony.MaxAnts)

	// Threshold 0 derives from the grid size.
	assert.Equal(t, (200+150)/2, cfg.Derived.Threshold)
	assert.InDelta(t, 200*16, cfg.Derived.WorldW32, 1e-3)
	assert.InDelta(t, float32(cfg.Physics.DT), cfg.Derived.DT32, 1e-9)
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  width: 50\ngenerator:\n  threshold: 12\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.World.Width)
	// Untouched keys keep their defaults.
	assert.Equal(t, 150, cfg.World.Height)
	assert.Equal(t, 12, cfg.Derived.Threshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Colony.MaxAnts = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, back.Colony.MaxAnts)
}
