// Package components defines the per-particle state of the fluid simulation.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds describes the world rectangle a particle must stay inside.
// Radius is the particle's draw radius; a particle's edge never crosses a wall.
type Bounds struct {
	Width  float64
	Height float64
	Radius float64
}

// Forces is the per-step force accumulator of a particle.
// Integration applies the terms in field order.
type Forces struct {
	Gravity     r2.Vec
	Pressure    r2.Vec
	Viscosity   r2.Vec
	Interaction r2.Vec
}

// Sum returns the total force.
func (f Forces) Sum() r2.Vec {
	return r2.Add(r2.Add(f.Gravity, f.Pressure), r2.Add(f.Viscosity, f.Interaction))
}

// Particle is a single piece of fluid.
type Particle struct {
	ID int // Dense arena index, assigned on insertion

	Pos       r2.Vec // Current position (world units, y up)
	Predicted r2.Vec // One-step-ahead estimate used for densities and pressure
	Vel       r2.Vec

	Density     float64 // Strictly positive after a density pass
	NearDensity float64

	Forces Forces // Accumulated during the current step

	Color color.RGBA // Presentation tag, not used by the physics
}

// PredictPosition sets the predicted position one step ahead and clamps it
// inside the world. The actual position is left untouched.
func (p *Particle) PredictPosition(dt float64, b Bounds) {
	p.Predicted = r2.Add(p.Pos, r2.Scale(dt, p.Vel))

	if p.Predicted.X-b.Radius < 0 {
		p.Predicted.X = b.Radius
	} else if p.Predicted.X+b.Radius >= b.Width {
		p.Predicted.X = b.Width - b.Radius
	}

	if p.Predicted.Y-b.Radius < 0 {
		p.Predicted.Y = b.Radius
	} else if p.Predicted.Y+b.Radius >= b.Height {
		p.Predicted.Y = b.Height - b.Radius
	}
}

// SetDensity stores the density pair computed for this step.
func (p *Particle) SetDensity(density, nearDensity float64) {
	p.Density = density
	p.NearDensity = nearDensity
}

// SetForces replaces the force accumulator for this step.
func (p *Particle) SetForces(f Forces) {
	p.Forces = f
}

// Integrate applies the accumulated forces, advances the position and resolves
// wall collisions. It reports whether the particle bounced off a wall.
func (p *Particle) Integrate(dt float64, b Bounds, damping float64) bool {
	p.Vel = r2.Add(p.Vel, r2.Scale(dt, p.Forces.Gravity))
	p.Vel = r2.Add(p.Vel, r2.Scale(dt, p.Forces.Pressure))
	p.Vel = r2.Add(p.Vel, r2.Scale(dt, p.Forces.Viscosity))
	p.Vel = r2.Add(p.Vel, r2.Scale(dt, p.Forces.Interaction))

	p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))

	return p.resolveBorderCollision(b, damping)
}

// resolveBorderCollision clamps the position so the particle's edge touches the
// wall, reflects the colliding axis and damps the whole velocity vector.
func (p *Particle) resolveBorderCollision(b Bounds, damping float64) bool {
	bounced := false

	if p.Pos.X-b.Radius < 0 {
		p.Pos.X = b.Radius
		p.Vel.X = -p.Vel.X
		p.Vel = r2.Scale(damping, p.Vel)
		bounced = true
	} else if p.Pos.X+b.Radius >= b.Width {
		p.Pos.X = b.Width - b.Radius
		p.Vel.X = -p.Vel.X
		p.Vel = r2.Scale(damping, p.Vel)
		bounced = true
	}

	if p.Pos.Y-b.Radius < 0 {
		p.Pos.Y = b.Radius
		p.Vel.Y = -p.Vel.Y
		p.Vel = r2.Scale(damping, p.Vel)
		bounced = true
	} else if p.Pos.Y+b.Radius >= b.Height {
		p.Pos.Y = b.Height - b.Radius
		p.Vel.Y = -p.Vel.Y
		p.Vel = r2.Scale(damping, p.Vel)
		bounced = true
	}

	return bounced
}

// Speed returns the magnitude of the velocity.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
