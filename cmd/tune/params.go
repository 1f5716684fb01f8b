package main

import (
	"github.com/pthm-cable/fluid/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. Defaults are
// taken from cfg so a run starts from the base config.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "pressure", Path: "physics.pressure_multiplier", Min: 10, Max: 500, Default: cfg.Physics.PressureMultiplier},
			{Name: "near_pressure", Path: "physics.near_pressure_multiplier", Min: 0, Max: 50, Default: cfg.Physics.NearPressureMultiplier},
			{Name: "viscosity", Path: "physics.viscosity_multiplier", Min: 0, Max: 20000, Default: cfg.Physics.ViscosityMultiplier},
			{Name: "rest_density", Path: "physics.rest_density", Min: 20, Max: 300, Default: cfg.Physics.RestDensity},
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
	cfg.Physics.PressureMultiplier = clamped[0]
	cfg.Physics.NearPressureMultiplier = clamped[1]
	cfg.Physics.ViscosityMultiplier = clamped[2]
	cfg.Physics.RestDensity = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.PressureMultiplier,
		cfg.Physics.NearPressureMultiplier,
		cfg.Physics.ViscosityMultiplier,
		cfg.Physics.RestDensity,
	}
}
