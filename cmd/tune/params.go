// Package main provides CMA-ES tuning of ant behaviour parameters.
package main

import (
	"github.com/pthm-cable/anthill/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement and steering
			{Name: "speed", Path: "ant.speed", Min: 60, Max: 200, Default: 120},
			{Name: "rotation_speed", Path: "ant.rotation_speed", Min: 2, Max: 15, Default: 7.5},
			{Name: "noise", Path: "ant.noise", Min: 0, Max: 1, Default: 0.25},
			// Perception
			{Name: "direction_period", Path: "ant.direction_period", Min: 0.02, Max: 0.5, Default: 0.1},
			{Name: "perception_spread", Path: "ant.perception_spread", Min: 0.2, Max: 2.0, Default: 1.0471976},
			// Trail laying
			{Name: "marker_period", Path: "ant.marker_period", Min: 0.05, Max: 0.5, Default: 0.15},
			{Name: "marker_decay", Path: "ant.marker_decay", Min: 0.005, Max: 0.3, Default: 0.05},
			// Trail evaporation
			{Name: "evaporate_amount", Path: "pheromone.evaporate_amount", Min: 0.0001, Max: 0.005, Default: 0.0005},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Ant.Speed = clamped[0]
	cfg.Ant.RotationSpeed = clamped[1]
	cfg.Ant.Noise = clamped[2]
	cfg.Ant.DirectionPeriod = clamped[3]
	cfg.Ant.PerceptionSpread = clamped[4]
	cfg.Ant.MarkerPeriod = clamped[5]
	cfg.Ant.MarkerDecay = clamped[6]
	cfg.Pheromone.EvaporateAmount = clamped[7]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Ant.Speed,
		cfg.Ant.RotationSpeed,
		cfg.Ant.Noise,
		cfg.Ant.DirectionPeriod,
		cfg.Ant.PerceptionSpread,
		cfg.Ant.MarkerPeriod,
		cfg.Ant.MarkerDecay,
		cfg.Pheromone.EvaporateAmount,
	}
}
