package systems

import (
	"github.com/pthm-cable/fluid/components"
)

// Pipeline phase names reported to the PhaseRecorder.
const (
	PhasePredict   = "predict"
	PhaseDensities = "densities"
	PhaseForces    = "forces"
	PhaseIntegrate = "integrate"
	PhaseRebucket  = "rebucket"
)

// UpdateParticles advances the simulation by one step of dt seconds.
//
// Phases run in order with a full barrier between them:
//  1. predict positions (parallel over cell ids)
//  2. densities at predicted positions (parallel over columns)
//  3. forces, then integration and wall collisions (parallel over columns)
//  4. move particles whose cell changed (single goroutine)
//
// Parameters are read once at the start; edits made during the call are
// picked up next frame.
func (g *Grid) UpdateParticles(dt float64, in components.Interaction) {
	g.frameParams = *g.params
	g.dt = dt
	g.interaction = in

	inline := len(g.particles) < g.threshold

	// Phase 1: Predict
	g.startPhase(PhasePredict)
	g.pool.run(len(g.cells), inline, g.predictCells)

	// Phase 2: Densities
	g.startPhase(PhaseDensities)
	g.pool.run(g.cols, inline, g.densityColumns)

	// Phase 3: Forces read neighbour velocities, so integration waits for
	// every accumulator to be filled. Keep the two passes separate: integrating
	// in place while neighbours are still being read makes results depend on
	// the worker count.
	g.startPhase(PhaseForces)
	g.pool.run(g.cols, inline, g.forceColumns)

	g.startPhase(PhaseIntegrate)
	g.pool.resetBounces()
	g.pool.run(g.cols, inline, g.integrateColumns)
	g.bounces = g.pool.bounces()

	// Phase 4: Rebucket (single-threaded, preserves determinism)
	g.startPhase(PhaseRebucket)
	g.rebucket()

	g.frame++
}

func (g *Grid) startPhase(phase string) {
	if g.recorder != nil {
		g.recorder.StartPhase(phase)
	}
}

// forEachInColumns calls fn for every particle bucketed in columns [c0, c1),
// column-major, bottom row first.
func (g *Grid) forEachInColumns(c0, c1 int, fn func(p *components.Particle)) {
	for col := c0; col < c1; col++ {
		for row := 0; row < g.rows; row++ {
			for _, pi := range g.cells[row*g.cols+col] {
				fn(&g.particles[pi])
			}
		}
	}
}

func (g *Grid) predictCells(start, end int, _ *workerScratch) {
	bounds := g.world.Bounds(g.frameParams.ParticleRadius)
	for cell := start; cell < end; cell++ {
		for _, pi := range g.cells[cell] {
			g.particles[pi].PredictPosition(g.dt, bounds)
		}
	}
}

func (g *Grid) densityColumns(start, end int, scratch *workerScratch) {
	g.forEachInColumns(start, end, func(p *components.Particle) {
		p.SetDensity(g.density(p, scratch))
	})
}

func (g *Grid) forceColumns(start, end int, scratch *workerScratch) {
	g.forEachInColumns(start, end, func(p *components.Particle) {
		g.computeForces(p, scratch)
	})
}

func (g *Grid) integrateColumns(start, end int, scratch *workerScratch) {
	bounds := g.world.Bounds(g.frameParams.ParticleRadius)
	damping := g.frameParams.CollisionDamping
	g.forEachInColumns(start, end, func(p *components.Particle) {
		if p.Integrate(g.dt, bounds, damping) {
			scratch.Bounces++
		}
	})
}

// rebucket moves every particle whose position left its cell into the bucket
// that now contains it. Cells are visited in id order and moved particles are
// appended, so bucket order is a pure function of the previous frame.
func (g *Grid) rebucket() {
	for cell := range g.cells {
		bucket := g.cells[cell]
		i := 0
		for i < len(bucket) {
			pi := bucket[i]
			target := g.CellID(g.particles[pi].Pos)
			if target == cell {
				i++
				continue
			}

			// Swap-remove; the swapped-in particle is examined next.
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket = bucket[:last]
			g.cells[target] = append(g.cells[target], pi)
		}
		g.cells[cell] = bucket
	}
}
