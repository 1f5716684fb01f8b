package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

const testDT = 0.01

// TestTwoParticleScenario runs one frame on a resting pair with every force
// disabled.
func TestTwoParticleScenario(t *testing.T) {
	params := &Params{
		CollisionDamping: 0.15,
		InfluenceRadius:  0.25,
		ParticleRadius:   0.03,
	}
	g := newTestGrid(t, params, GridOptions{Workers: 2})

	a := mustAdd(t, g, r2.Vec{X: 1.0, Y: 1.0}, r2.Vec{})
	b := mustAdd(t, g, r2.Vec{X: 1.0, Y: 1.2}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	// Distance between the stored positions, not the exact decimal 0.2.
	dist := r2.Norm(r2.Sub(r2.Vec{X: 1.0, Y: 1.2}, r2.Vec{X: 1.0, Y: 1.0}))
	wantDensity := DensityKernel(0.25, 0) + DensityKernel(0.25, dist)
	wantNear := NearDensityKernel(0.25, 0) + NearDensityKernel(0.25, dist)

	for _, tc := range []struct {
		id  int
		pos r2.Vec
	}{
		{a, r2.Vec{X: 1.0, Y: 1.0}},
		{b, r2.Vec{X: 1.0, Y: 1.2}},
	} {
		p := g.Particle(tc.id)
		if p.Pos != tc.pos {
			t.Errorf("particle %d moved to %v, want %v", tc.id, p.Pos, tc.pos)
		}
		if p.Vel != (r2.Vec{}) {
			t.Errorf("particle %d velocity = %v, want zero", tc.id, p.Vel)
		}
		if p.Density != wantDensity {
			t.Errorf("particle %d density = %v, want %v", tc.id, p.Density, wantDensity)
		}
		if p.NearDensity != wantNear {
			t.Errorf("particle %d near density = %v, want %v", tc.id, p.NearDensity, wantNear)
		}
	}
}

// TestDensityFloor checks an isolated particle reports the self kernel.
func TestDensityFloor(t *testing.T) {
	g := newTestGrid(t, quietParams(), GridOptions{Workers: 1})
	id := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	p := g.Particle(id)
	if p.Density != DensityKernel(0.25, 0) || p.Density <= 0 {
		t.Errorf("density = %v, want %v", p.Density, DensityKernel(0.25, 0))
	}
	if p.NearDensity != NearDensityKernel(0.25, 0) || p.NearDensity <= 0 {
		t.Errorf("near density = %v, want %v", p.NearDensity, NearDensityKernel(0.25, 0))
	}
}

// TestRestingParticlesStayPut runs many frames with every force off.
func TestRestingParticlesStayPut(t *testing.T) {
	g := newTestGrid(t, quietParams(), GridOptions{Workers: 4, ParallelThreshold: 1})

	rng := rand.New(rand.NewPCG(1, 2))
	start := make([]r2.Vec, 500)
	for i := range start {
		start[i] = r2.Vec{X: 0.1 + rng.Float64()*9.8, Y: 0.1 + rng.Float64()*7.8}
		mustAdd(t, g, start[i], r2.Vec{})
	}

	for frame := 0; frame < 50; frame++ {
		g.UpdateParticles(testDT, components.Interaction{})
	}

	for i, p := range g.Particles() {
		if p.Pos != start[i] || p.Vel != (r2.Vec{}) {
			t.Fatalf("particle %d: pos=%v vel=%v, want pos=%v at rest", i, p.Pos, p.Vel, start[i])
		}
	}
	if g.Frame() != 50 {
		t.Errorf("Frame() = %d, want 50", g.Frame())
	}
}

func TestBorderBounce(t *testing.T) {
	tests := []struct {
		name    string
		pos     r2.Vec
		vel     r2.Vec
		wantPos r2.Vec
		wantVel r2.Vec
	}{
		{
			name:    "left wall",
			pos:     r2.Vec{X: 0.05, Y: 4},
			vel:     r2.Vec{X: -10},
			wantPos: r2.Vec{X: 0.03, Y: 4},
			wantVel: r2.Vec{X: 5},
		},
		{
			name:    "right wall",
			pos:     r2.Vec{X: 9.95, Y: 4},
			vel:     r2.Vec{X: 10},
			wantPos: r2.Vec{X: 9.97, Y: 4},
			wantVel: r2.Vec{X: -5},
		},
		{
			name:    "floor",
			pos:     r2.Vec{X: 5, Y: 0.05},
			vel:     r2.Vec{Y: -8},
			wantPos: r2.Vec{X: 5, Y: 0.03},
			wantVel: r2.Vec{Y: 4},
		},
		{
			name:    "corner damps twice",
			pos:     r2.Vec{X: 0.05, Y: 0.05},
			vel:     r2.Vec{X: -8, Y: -8},
			wantPos: r2.Vec{X: 0.03, Y: 0.03},
			wantVel: r2.Vec{X: 2, Y: 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := quietParams()
			params.CollisionDamping = 0.5
			g := newTestGrid(t, params, GridOptions{Workers: 1})
			id := mustAdd(t, g, tc.pos, tc.vel)

			g.UpdateParticles(testDT, components.Interaction{})

			p := g.Particle(id)
			if math.Abs(p.Pos.X-tc.wantPos.X) > 1e-12 || math.Abs(p.Pos.Y-tc.wantPos.Y) > 1e-12 {
				t.Errorf("pos = %v, want %v", p.Pos, tc.wantPos)
			}
			if math.Abs(p.Vel.X-tc.wantVel.X) > 1e-12 || math.Abs(p.Vel.Y-tc.wantVel.Y) > 1e-12 {
				t.Errorf("vel = %v, want %v", p.Vel, tc.wantVel)
			}
			if g.Bounces() != 1 {
				t.Errorf("Bounces() = %d, want 1", g.Bounces())
			}
		})
	}
}

// TestGravityFall checks a lone particle accelerates downward.
func TestGravityFall(t *testing.T) {
	params := quietParams()
	params.Gravity = 10
	g := newTestGrid(t, params, GridOptions{Workers: 1})
	id := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	p := g.Particle(id)
	if math.Abs(p.Vel.Y+0.1) > 1e-12 || p.Vel.X != 0 {
		t.Errorf("vel = %v, want (0, -0.1)", p.Vel)
	}
	if math.Abs(p.Pos.Y-(4-0.001)) > 1e-12 {
		t.Errorf("pos.y = %v, want %v", p.Pos.Y, 4-0.001)
	}
}

// seedFluid fills g with a deterministic block of moving particles.
func seedFluid(t testing.TB, g *Grid, n int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < n; i++ {
		pos := r2.Vec{X: 1 + rng.Float64()*4, Y: 1 + rng.Float64()*5}
		vel := r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
		mustAdd(t, g, pos, vel)
	}
}

func TestRebucketKeepsCellsConsistent(t *testing.T) {
	g := newTestGrid(t, fluidParams(), GridOptions{Workers: 4, ParallelThreshold: 1})
	seedFluid(t, g, 800)

	pull := components.Interaction{Pos: r2.Vec{X: 6, Y: 3}, Radius: 1, Strength: 50}
	for frame := 0; frame < 60; frame++ {
		in := components.Interaction{}
		if frame%3 == 0 {
			in = pull
		}
		g.UpdateParticles(testDT, in)
		checkBuckets(t, g)
	}
}

func TestParticlesStayInWorld(t *testing.T) {
	params := fluidParams()
	g := newTestGrid(t, params, GridOptions{Workers: 3, ParallelThreshold: 1})
	seedFluid(t, g, 600)

	r := params.ParticleRadius
	for frame := 0; frame < 100; frame++ {
		g.UpdateParticles(testDT, components.Interaction{})
	}
	for _, p := range g.Particles() {
		if p.Pos.X < r || p.Pos.X > testWorld.Width-r || p.Pos.Y < r || p.Pos.Y > testWorld.Height-r {
			t.Fatalf("particle %d escaped to %v", p.ID, p.Pos)
		}
		if p.Density <= 0 || p.NearDensity <= 0 {
			t.Fatalf("particle %d has non-positive density (%v, %v)", p.ID, p.Density, p.NearDensity)
		}
		if math.IsNaN(p.Vel.X) || math.IsNaN(p.Vel.Y) {
			t.Fatalf("particle %d has NaN velocity", p.ID)
		}
	}
}

// runFluid steps a fresh grid and returns the final arena.
func runFluid(t *testing.T, opts GridOptions, frames int) []components.Particle {
	t.Helper()
	g := newTestGrid(t, fluidParams(), opts)
	seedFluid(t, g, 700)

	// Stacked particles exercise the random separation path.
	for i := 0; i < 4; i++ {
		mustAdd(t, g, r2.Vec{X: 7, Y: 2}, r2.Vec{})
	}

	in := components.Interaction{Pos: r2.Vec{X: 3, Y: 3}, Radius: 1, Strength: -50}
	for frame := 0; frame < frames; frame++ {
		g.UpdateParticles(testDT, in)
	}
	out := make([]components.Particle, g.Len())
	copy(out, g.Particles())
	return out
}

func TestUpdateDeterministic(t *testing.T) {
	tests := []struct {
		name string
		a, b GridOptions
	}{
		{
			name: "repeat run",
			a:    GridOptions{Workers: 4, ParallelThreshold: 1, Seed: 9},
			b:    GridOptions{Workers: 4, ParallelThreshold: 1, Seed: 9},
		},
		{
			name: "worker count independent",
			a:    GridOptions{Workers: 1, Seed: 9},
			b:    GridOptions{Workers: 7, ParallelThreshold: 1, Seed: 9},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := runFluid(t, tc.a, 40)
			b := runFluid(t, tc.b, 40)
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("particle %d diverged:\n  %+v\n  %+v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestCoincidentParticlesSeparate(t *testing.T) {
	g := newTestGrid(t, fluidParams(), GridOptions{Workers: 1})
	a := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})
	b := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	pa, pb := g.Particle(a), g.Particle(b)
	if pa.Pos == pb.Pos {
		t.Fatalf("coincident particles did not separate: %v", pa.Pos)
	}
	for _, p := range []*components.Particle{pa, pb} {
		if math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y) {
			t.Fatalf("particle %d has NaN position", p.ID)
		}
	}
}

type phaseLog []string

func (l *phaseLog) StartPhase(phase string) { *l = append(*l, phase) }

func TestPhaseOrder(t *testing.T) {
	var log phaseLog
	g := newTestGrid(t, quietParams(), GridOptions{Workers: 1, Recorder: &log})
	mustAdd(t, g, r2.Vec{X: 1, Y: 1}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	want := []string{PhasePredict, PhaseDensities, PhaseForces, PhaseIntegrate, PhaseRebucket}
	if len(log) != len(want) {
		t.Fatalf("phases = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestParamsReadOncePerFrame(t *testing.T) {
	params := quietParams()
	g := newTestGrid(t, params, GridOptions{Workers: 1})
	id := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})
	if g.Particle(id).Vel != (r2.Vec{}) {
		t.Fatal("particle moved with gravity off")
	}

	params.Gravity = 5
	g.UpdateParticles(testDT, components.Interaction{})
	if v := g.Particle(id).Vel.Y; math.Abs(v+0.05) > 1e-12 {
		t.Errorf("vel.y = %v after enabling gravity, want -0.05", v)
	}
}
