package ui

import (
	"math"
	"testing"
)

func TestMappingsMatchSliderFormulas(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		pos     float64
		want    float64
	}{
		{"gravity", GravityMapping, 60, 12},
		{"pressure", PressureMapping, 10, math.E - 1},
		{"near pressure", NearPressureMapping, 0, 0},
		{"viscosity", ViscosityMapping, 10, (math.E - 1) * 10},
		{"influence", InfluenceMapping, 5, 0.25},
		{"density", DensityMapping, 20, math.Exp(2) - 1},
		{"damping", DampingMapping, 15, 0.15},
		{"radius", RadiusMapping, 15, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mapping.Forward(tt.pos); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Forward(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestMappingsRoundTrip(t *testing.T) {
	mappings := map[string]Mapping{
		"gravity":   GravityMapping,
		"pressure":  PressureMapping,
		"viscosity": ViscosityMapping,
		"influence": InfluenceMapping,
		"density":   DensityMapping,
		"damping":   DampingMapping,
		"radius":    RadiusMapping,
		"identity":  Identity,
	}
	// Default parameter values survive value -> position -> value.
	values := []float64{0, 0.03, 0.25, 8, 12, 120, 135, 8100}

	for name, m := range mappings {
		for _, v := range values {
			got := m.Forward(m.Inverse(v))
			if math.Abs(got-v) > 1e-9*math.Max(1, v) {
				t.Errorf("%s: Forward(Inverse(%v)) = %v", name, v, got)
			}
		}
	}
}

func TestSliderPositionClamps(t *testing.T) {
	value := 1000.0
	s := Slider{
		Min: 0, Max: 100,
		Mapping: GravityMapping,
		Get:     func() float64 { return value },
		Set:     func(v float64) error { value = v; return nil },
	}

	if pos := s.Position(); pos != 100 {
		t.Errorf("Position() = %v, want clamped 100", pos)
	}
	if err := s.Apply(60); err != nil {
		t.Fatal(err)
	}
	if value != 12 {
		t.Errorf("Apply(60) set %v, want 12", value)
	}
}
