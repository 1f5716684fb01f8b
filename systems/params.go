package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/fluid/components"
)

// Params holds the tunable physics scalars. The owning simulation may edit them
// between frames; the grid copies them once at the start of every frame.
type Params struct {
	Gravity                float64 `json:"gravity"`
	CollisionDamping       float64 `json:"collision_damping"`
	RestDensity            float64 `json:"rest_density"`
	PressureMultiplier     float64 `json:"pressure_multiplier"`
	NearPressureMultiplier float64 `json:"near_pressure_multiplier"`
	ViscosityMultiplier    float64 `json:"viscosity_multiplier"`
	InfluenceRadius        float64 `json:"influence_radius"`
	ParticleRadius         float64 `json:"particle_radius"`
}

// Validate reports every out-of-range parameter.
func (p Params) Validate() error {
	var errs []error

	values := []struct {
		name string
		v    float64
	}{
		{"gravity", p.Gravity},
		{"collision_damping", p.CollisionDamping},
		{"rest_density", p.RestDensity},
		{"pressure_multiplier", p.PressureMultiplier},
		{"near_pressure_multiplier", p.NearPressureMultiplier},
		{"viscosity_multiplier", p.ViscosityMultiplier},
		{"influence_radius", p.InfluenceRadius},
		{"particle_radius", p.ParticleRadius},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite, got %v", f.name, f.v))
		}
	}

	if p.InfluenceRadius <= 0 {
		errs = append(errs, fmt.Errorf("influence_radius must be positive, got %v", p.InfluenceRadius))
	}
	if p.ParticleRadius < 0 {
		errs = append(errs, fmt.Errorf("particle_radius must not be negative, got %v", p.ParticleRadius))
	}
	if p.CollisionDamping < 0 || p.CollisionDamping > 1 {
		errs = append(errs, fmt.Errorf("collision_damping must be in [0, 1], got %v", p.CollisionDamping))
	}

	return errors.Join(errs...)
}

// DensityToPressure converts a density pair to pressures. Near pressure has no
// rest offset, so it is always repulsive.
func (p Params) DensityToPressure(density, nearDensity float64) (pressure, nearPressure float64) {
	pressure = (density - p.RestDensity) * p.PressureMultiplier
	nearPressure = nearDensity * p.NearPressureMultiplier
	return pressure, nearPressure
}

// World is the simulated rectangle. Cell (0,0) sits at the bottom-left corner.
type World struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects empty or non-finite worlds.
func (w World) Validate() error {
	if !(w.Width > 0) || math.IsInf(w.Width, 0) {
		return fmt.Errorf("world width must be positive and finite, got %v", w.Width)
	}
	if !(w.Height > 0) || math.IsInf(w.Height, 0) {
		return fmt.Errorf("world height must be positive and finite, got %v", w.Height)
	}
	return nil
}

// Bounds returns the collision rectangle for particles of the given radius.
func (w World) Bounds(radius float64) components.Bounds {
	return components.Bounds{Width: w.Width, Height: w.Height, Radius: radius}
}

// CellCounts returns the grid size for an influence radius: each cell is at
// least one influence radius wide, so a 3x3 block covers every interaction.
func (w World) CellCounts(influenceRadius float64) (cols, rows int) {
	cols = int(w.Width / influenceRadius)
	rows = int(w.Height / influenceRadius)
	return max(cols, 1), max(rows, 1)
}
