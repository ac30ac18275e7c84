package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	require.Len(t, def, pv.Dim())

	norm := pv.Normalize(def)
	for i, v := range norm {
		assert.GreaterOrEqual(t, v, 0.0, pv.Specs[i].Name)
		assert.LessOrEqual(t, v, 1.0, pv.Specs[i].Name)
	}
	assert.InDeltaSlice(t, def, pv.Denormalize(norm), 1e-9)
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		if i%2 == 0 {
			v[i] = spec.Min - 1
		} else {
			v[i] = spec.Max + 1
		}
	}
	for i, c := range pv.Clamp(v) {
		if i%2 == 0 {
			assert.Equal(t, pv.Specs[i].Min, c)
		} else {
			assert.Equal(t, pv.Specs[i].Max, c)
		}
	}
}

func TestApplyAndExtractConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pv := NewParamVector()
	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = (spec.Min + spec.Max) / 2
	}
	pv.ApplyToConfig(cfg, values)
	assert.InDeltaSlice(t, values, pv.ExtractFromConfig(cfg), 1e-12)
	assert.Equal(t, values[0], cfg.Ant.Speed)
	assert.Equal(t, values[7], cfg.Pheromone.EvaporateAmount)
}

func TestDefaultsWithinBounds(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pv := NewParamVector()
	for i, v := range pv.ExtractFromConfig(cfg) {
		spec := pv.Specs[i]
		assert.GreaterOrEqual(t, v, spec.Min, spec.Path)
		assert.LessOrEqual(t, v, spec.Max, spec.Path)
	}
}

func TestComputeQuality(t *testing.T) {
	assert.Zero(t, computeQuality(nil))

	windows := []telemetry.WindowStats{
		{}, {},
		{Deliveries: 3, TotalAnts: 10},
		{Deliveries: 0, Starved: 5, TotalAnts: 10},
	}
	// Half the windows deliver, half the ants starve.
	assert.InDelta(t, 0.5, computeQuality(windows), 1e-9)

	assert.Less(t, computeFitness(100, 1), computeFitness(100, 0))
	assert.Less(t, computeFitness(200, 0), computeFitness(100, 1))
}

func TestMapSeeds(t *testing.T) {
	seeds := mapSeeds(3)
	assert.Equal(t, []string{"tune42", "tune1042", "tune2042"}, seeds)
}
