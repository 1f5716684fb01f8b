// Package systems implements the SPH fluid engine: smoothing kernels, the
// uniform spatial grid and the per-frame update pipeline.
package systems

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"runtime"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

// DefaultParallelThreshold is the particle count below which phases run on the
// calling goroutine. Dispatch overhead dominates for tiny rosters.
const DefaultParallelThreshold = 64

// PhaseRecorder receives the name of each pipeline phase as it starts.
type PhaseRecorder interface {
	StartPhase(phase string)
}

// GridOptions configures the worker pool and tie-breaking randomness.
type GridOptions struct {
	Workers           int    // Fixed pool size (0 = GOMAXPROCS)
	ParallelThreshold int    // Minimum particle count for parallel phases (0 = default)
	Seed              uint64 // Seeds the coincident-particle direction stream
	Recorder          PhaseRecorder
}

// Grid owns the live particles, buckets them into uniform square cells and runs
// the per-frame update. Cells are indexed row*cols+col with (0,0) at the bottom
// left; buckets store arena indices, never particle copies.
type Grid struct {
	cols, rows   int
	world        World
	cellW, cellH float64

	params      *Params // Owned by the simulation, edited between frames
	frameParams Params  // Immutable copy for the running frame

	particles []components.Particle // Arena, index == particle ID
	cells     [][]int32

	seed  uint64
	frame uint64

	// Per-frame inputs shared read-only with workers
	dt          float64
	interaction components.Interaction
	bounces     int

	pool      *workerPool
	threshold int
	recorder  PhaseRecorder
}

// NewGrid creates an empty grid of cols x rows cells covering world.
// params must stay valid for the lifetime of the grid.
func NewGrid(cols, rows int, world World, params *Params, opts GridOptions) (*Grid, error) {
	if params == nil {
		return nil, errors.New("grid: nil params")
	}
	if err := world.Validate(); err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("grid: invalid params: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	threshold := opts.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}

	g := &Grid{
		world:     world,
		params:    params,
		seed:      opts.Seed,
		threshold: threshold,
		recorder:  opts.Recorder,
		particles: make([]components.Particle, 0, 1024),
		pool:      newWorkerPool(workers),
	}
	if err := g.resize(cols, rows); err != nil {
		return nil, err
	}
	g.cells = newCells(cols * rows)

	return g, nil
}

func newCells(n int) [][]int32 {
	cells := make([][]int32, n)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}
	return cells
}

// resize updates the cell counts and derived cell size.
func (g *Grid) resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("grid: cell counts must be positive, got %dx%d", cols, rows)
	}
	g.cols = cols
	g.rows = rows
	g.cellW = g.world.Width / float64(cols)
	g.cellH = g.world.Height / float64(rows)
	return nil
}

// AddParticle inserts a new particle at pos and returns its ID.
// pos must lie inside the world rectangle.
func (g *Grid) AddParticle(pos, vel r2.Vec, tint color.RGBA) (int, error) {
	return g.Insert(components.Particle{Pos: pos, Vel: vel, Color: tint})
}

// Insert adds a fully specified particle (e.g. restored from a snapshot).
// The particle's ID is overwritten with the next arena index.
func (g *Grid) Insert(p components.Particle) (int, error) {
	if err := g.checkState(&p); err != nil {
		return 0, err
	}
	if len(g.particles) >= math.MaxInt32 {
		return 0, errors.New("grid: particle arena full")
	}

	p.ID = len(g.particles)
	if p.Predicted == (r2.Vec{}) {
		p.Predicted = p.Pos
	}
	g.particles = append(g.particles, p)

	cell := g.CellID(p.Pos)
	g.cells[cell] = append(g.cells[cell], int32(p.ID))
	return p.ID, nil
}

// checkState rejects particles the pipeline cannot place.
func (g *Grid) checkState(p *components.Particle) error {
	if !isFinite(p.Pos.X) || !isFinite(p.Pos.Y) || !isFinite(p.Vel.X) || !isFinite(p.Vel.Y) {
		return fmt.Errorf("grid: non-finite particle state pos=%v vel=%v", p.Pos, p.Vel)
	}
	if p.Pos.X < 0 || p.Pos.X > g.world.Width || p.Pos.Y < 0 || p.Pos.Y > g.world.Height {
		return fmt.Errorf("grid: position %v outside world %vx%v", p.Pos, g.world.Width, g.world.Height)
	}
	return nil
}

// CellID returns the id of the cell containing pos.
// Positions on or past the far walls map to the last row/column.
func (g *Grid) CellID(pos r2.Vec) int {
	col := clampInt(int(math.Floor(pos.X/g.cellW)), 0, g.cols-1)
	row := clampInt(int(math.Floor(pos.Y/g.cellH)), 0, g.rows-1)
	return row*g.cols + col
}

// cellPos returns the (col, row) of a cell id.
func (g *Grid) cellPos(id int) (col, row int) {
	return id % g.cols, id / g.cols
}

// neighborCells appends the ids of the up-to-3x3 block around cell id to dst.
func (g *Grid) neighborCells(dst []int, id int) []int {
	col, row := g.cellPos(id)
	dst = append(dst, id)

	if col > 0 {
		dst = append(dst, id-1)
		if row > 0 {
			dst = append(dst, id-1-g.cols)
		}
		if row < g.rows-1 {
			dst = append(dst, id-1+g.cols)
		}
	}
	if col < g.cols-1 {
		dst = append(dst, id+1)
		if row > 0 {
			dst = append(dst, id+1-g.cols)
		}
		if row < g.rows-1 {
			dst = append(dst, id+1+g.cols)
		}
	}
	if row > 0 {
		dst = append(dst, id-g.cols)
	}
	if row < g.rows-1 {
		dst = append(dst, id+g.cols)
	}

	return dst
}

// ChangeGrid re-buckets every particle into a cols x rows layout. Particle
// state is not modified.
func (g *Grid) ChangeGrid(cols, rows int) error {
	old := g.cells
	if err := g.resize(cols, rows); err != nil {
		return err
	}

	g.cells = newCells(cols * rows)
	for _, bucket := range old {
		for _, pi := range bucket {
			cell := g.CellID(g.particles[pi].Pos)
			g.cells[cell] = append(g.cells[cell], pi)
		}
	}

	slog.Debug("grid topology changed", "cols", cols, "rows", rows, "particles", len(g.particles))
	return nil
}

// Buckets returns a copy of the cell membership lists in id order.
func (g *Grid) Buckets() [][]int32 {
	out := make([][]int32, len(g.cells))
	for i, bucket := range g.cells {
		out[i] = append([]int32(nil), bucket...)
	}
	return out
}

// Restore replaces the grid contents with a previously captured state. The
// particle slice must be in ID order and buckets must hold every ID exactly
// once, in the cell its position maps to. Bucket order and frame are kept so
// a restored grid continues bit-identically.
func (g *Grid) Restore(particles []components.Particle, buckets [][]int32, frame uint64) error {
	if len(buckets) != g.cols*g.rows {
		return fmt.Errorf("grid: restore has %d buckets, want %d", len(buckets), g.cols*g.rows)
	}

	seen := make([]bool, len(particles))
	for i := range particles {
		if particles[i].ID != i {
			return fmt.Errorf("grid: restore particle %d has id %d", i, particles[i].ID)
		}
		if err := g.checkState(&particles[i]); err != nil {
			return fmt.Errorf("restore particle %d: %w", i, err)
		}
	}
	for cell, bucket := range buckets {
		for _, pi := range bucket {
			if pi < 0 || int(pi) >= len(particles) {
				return fmt.Errorf("grid: restore bucket %d references unknown particle %d", cell, pi)
			}
			if seen[pi] {
				return fmt.Errorf("grid: restore particle %d bucketed twice", pi)
			}
			if want := g.CellID(particles[pi].Pos); want != cell {
				return fmt.Errorf("grid: restore particle %d in cell %d, want %d", pi, cell, want)
			}
			seen[pi] = true
		}
	}
	for id, ok := range seen {
		if !ok {
			return fmt.Errorf("grid: restore particle %d not bucketed", id)
		}
	}

	g.particles = append(g.particles[:0], particles...)
	g.cells = make([][]int32, len(buckets))
	for i, bucket := range buckets {
		g.cells[i] = append(make([]int32, 0, max(len(bucket), 8)), bucket...)
	}
	g.frame = frame
	return nil
}

// Particles returns the arena. Callers must not modify it while a frame runs.
func (g *Grid) Particles() []components.Particle {
	return g.particles
}

// Particle returns a pointer to the particle with the given ID.
func (g *Grid) Particle(id int) *components.Particle {
	return &g.particles[id]
}

// Len returns the number of live particles.
func (g *Grid) Len() int {
	return len(g.particles)
}

// Cols returns the number of cell columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of cell rows.
func (g *Grid) Rows() int { return g.rows }

// World returns the simulated rectangle.
func (g *Grid) World() World { return g.world }

// Frame returns the number of completed updates.
func (g *Grid) Frame() uint64 { return g.frame }

// Seed returns the seed of the coincident-particle direction stream.
func (g *Grid) Seed() uint64 { return g.seed }

// Bounces returns the number of wall collisions in the last frame.
func (g *Grid) Bounces() int { return g.bounces }

// Gravity returns the current gravity magnitude.
func (g *Grid) Gravity() float64 { return g.params.Gravity }

// CollisionDamping returns the current wall damping coefficient.
func (g *Grid) CollisionDamping() float64 { return g.params.CollisionDamping }

// Close stops the worker pool. The grid must not be updated afterwards.
func (g *Grid) Close() {
	g.pool.stop()
}
