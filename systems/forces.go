package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

// coincidentEpsilon is the separation below which two particles share a
// position and a random direction is substituted.
const coincidentEpsilon = 1e-4

// density sums both kernels over the 3x3 block around the particle's predicted
// cell, self included. A zero sum is floored to the kernel at distance 0.
func (g *Grid) density(p *components.Particle, scratch *workerScratch) (density, nearDensity float64) {
	r := g.frameParams.InfluenceRadius
	pos := p.Predicted

	scratch.Cells = g.neighborCells(scratch.Cells[:0], g.CellID(pos))
	for _, cell := range scratch.Cells {
		for _, j := range g.cells[cell] {
			d := r2.Norm(r2.Sub(g.particles[j].Predicted, pos))
			density += DensityKernel(r, d)
			nearDensity += NearDensityKernel(r, d)
		}
	}

	if density == 0 {
		density = DensityKernel(r, 0)
	}
	if nearDensity == 0 {
		nearDensity = NearDensityKernel(r, 0)
	}
	return density, nearDensity
}

// pressureForce returns the pressure plus near-pressure force on p, not yet
// divided by p's density.
func (g *Grid) pressureForce(p *components.Particle, scratch *workerScratch) r2.Vec {
	params := &g.frameParams
	r := params.InfluenceRadius
	pos := p.Predicted
	pressure, nearPressure := params.DensityToPressure(p.Density, p.NearDensity)

	var force r2.Vec
	scratch.Cells = g.neighborCells(scratch.Cells[:0], g.CellID(pos))
	for _, cell := range scratch.Cells {
		for _, j := range g.cells[cell] {
			other := &g.particles[j]
			if other.ID == p.ID {
				continue
			}

			offset := r2.Sub(other.Predicted, pos)
			dist := r2.Norm(offset)
			slope := DensityKernelDerivative(r, dist)
			if slope == 0 {
				continue
			}

			dir := g.direction(offset, dist, p.ID, other.ID, scratch)
			otherPressure, otherNear := params.DensityToPressure(other.Density, other.NearDensity)

			shared := 0.5 * (pressure + otherPressure) * slope / p.Density
			sharedNear := 0.5 * (nearPressure + otherNear) * slope / p.NearDensity
			force = r2.Add(force, r2.Scale(shared+sharedNear, dir))
		}
	}
	return force
}

// direction normalizes offset, or draws a random unit vector when the two
// particles coincide. The draw depends only on the grid seed, the frame and
// the ordered pair of IDs, so it is the same whichever worker evaluates it.
func (g *Grid) direction(offset r2.Vec, dist float64, a, b int, scratch *workerScratch) r2.Vec {
	if dist > coincidentEpsilon {
		return r2.Scale(1/dist, offset)
	}

	scratch.Src.Seed(g.seed^g.frame, uint64(a)<<32|uint64(uint32(b)))
	for {
		v := r2.Vec{
			X: scratch.Rand.Float64()*2 - 1,
			Y: scratch.Rand.Float64()*2 - 1,
		}
		if n := r2.Norm(v); n > coincidentEpsilon {
			return r2.Scale(1/n, v)
		}
	}
}

// viscosityForce averages relative velocity over neighbours at their actual
// positions, weighted by the viscosity kernel.
func (g *Grid) viscosityForce(p *components.Particle, scratch *workerScratch) r2.Vec {
	r := g.frameParams.InfluenceRadius

	var force r2.Vec
	scratch.Cells = g.neighborCells(scratch.Cells[:0], g.CellID(p.Predicted))
	for _, cell := range scratch.Cells {
		for _, j := range g.cells[cell] {
			other := &g.particles[j]
			if other.ID == p.ID {
				continue
			}
			w := ViscosityKernel(r, r2.Norm(r2.Sub(other.Pos, p.Pos)))
			if w == 0 {
				continue
			}
			force = r2.Add(force, r2.Scale(w, r2.Sub(other.Vel, p.Vel)))
		}
	}
	return r2.Scale(g.frameParams.ViscosityMultiplier, force)
}

// InteractionForce is the mouse push/pull acting on p. Inside the radius it
// steers the velocity toward dir*strength with a linear falloff to the rim.
func InteractionForce(p *components.Particle, in components.Interaction) r2.Vec {
	if !in.Active() {
		return r2.Vec{}
	}

	offset := r2.Sub(in.Pos, p.Pos)
	dist := r2.Norm(offset)
	if dist >= in.Radius {
		return r2.Vec{}
	}

	var dir r2.Vec
	if dist > 0 {
		dir = r2.Scale(1/dist, offset)
	}
	falloff := 1 - dist/in.Radius
	return r2.Scale(falloff, r2.Sub(r2.Scale(in.Strength, dir), p.Vel))
}

// computeForces fills p's force accumulator for this frame.
func (g *Grid) computeForces(p *components.Particle, scratch *workerScratch) {
	p.SetForces(components.Forces{
		Gravity:     r2.Vec{Y: -g.frameParams.Gravity},
		Pressure:    r2.Scale(1/p.Density, g.pressureForce(p, scratch)),
		Viscosity:   g.viscosityForce(p, scratch),
		Interaction: InteractionForce(p, g.interaction),
	})
}
