package ui

import "math"

// Mapping converts between a slider position and the parameter it drives.
type Mapping struct {
	Forward func(pos float64) float64   // Slider position to value
	Inverse func(value float64) float64 // Value to slider position
}

// Linear maps position p to p/div.
func Linear(div float64) Mapping {
	return Mapping{
		Forward: func(p float64) float64 { return p / div },
		Inverse: func(v float64) float64 { return v * div },
	}
}

// Exponential maps position p to (e^(p/10) - 1) * scale, giving fine control
// near zero and a wide range at the top of the slider.
func Exponential(scale float64) Mapping {
	return Mapping{
		Forward: func(p float64) float64 { return (math.Exp(p/10) - 1) * scale },
		Inverse: func(v float64) float64 { return 10 * math.Log(v/scale+1) },
	}
}

// Identity maps positions straight through.
var Identity = Linear(1)

// Slider mappings for the fluid parameters.
var (
	GravityMapping      = Linear(5)
	PressureMapping     = Exponential(1)
	NearPressureMapping = Exponential(1)
	ViscosityMapping    = Exponential(10)
	InfluenceMapping    = Linear(20)
	DensityMapping      = Exponential(1)
	DampingMapping      = Linear(100)
	RadiusMapping       = Linear(500)
)
