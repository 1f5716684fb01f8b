package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

func TestInteractionForce(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		vel  r2.Vec
		in   components.Interaction
		want r2.Vec
	}{
		{
			name: "zero radius is inactive",
			pos:  r2.Vec{X: 1, Y: 1},
			in:   components.Interaction{Pos: r2.Vec{X: 1, Y: 1.5}, Radius: 0, Strength: 50},
		},
		{
			name: "zero strength is inactive",
			pos:  r2.Vec{X: 1, Y: 1},
			vel:  r2.Vec{X: 3},
			in:   components.Interaction{Pos: r2.Vec{X: 1, Y: 1.5}, Radius: 1},
		},
		{
			name: "outside radius",
			pos:  r2.Vec{X: 1, Y: 1},
			in:   components.Interaction{Pos: r2.Vec{X: 3, Y: 1}, Radius: 1, Strength: 50},
		},
		{
			name: "pull at half radius",
			pos:  r2.Vec{X: 1, Y: 1},
			in:   components.Interaction{Pos: r2.Vec{X: 1.5, Y: 1}, Radius: 1, Strength: 50},
			want: r2.Vec{X: 25},
		},
		{
			name: "push at half radius",
			pos:  r2.Vec{X: 1, Y: 1},
			in:   components.Interaction{Pos: r2.Vec{X: 1.5, Y: 1}, Radius: 1, Strength: -50},
			want: r2.Vec{X: -25},
		},
		{
			name: "velocity is damped",
			pos:  r2.Vec{X: 1, Y: 1},
			vel:  r2.Vec{X: 2, Y: 4},
			in:   components.Interaction{Pos: r2.Vec{X: 1, Y: 1.25}, Radius: 1, Strength: 10},
			want: r2.Vec{X: -1.5, Y: 4.5},
		},
		{
			name: "at the centre only drag remains",
			pos:  r2.Vec{X: 2, Y: 2},
			vel:  r2.Vec{X: 1, Y: -1},
			in:   components.Interaction{Pos: r2.Vec{X: 2, Y: 2}, Radius: 1, Strength: 50},
			want: r2.Vec{X: -1, Y: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &components.Particle{Pos: tc.pos, Vel: tc.vel}
			got := InteractionForce(p, tc.in)
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("InteractionForce = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	g := newTestGrid(t, quietParams(), GridOptions{Workers: 1, Seed: 5})
	scratch := &g.pool.scratches[0]

	dir := g.direction(r2.Vec{X: 3, Y: 4}, 5, 0, 1, scratch)
	if math.Abs(dir.X-0.6) > 1e-12 || math.Abs(dir.Y-0.8) > 1e-12 {
		t.Errorf("direction = %v, want (0.6, 0.8)", dir)
	}

	first := g.direction(r2.Vec{}, 0, 3, 8, scratch)
	if n := r2.Norm(first); math.Abs(n-1) > 1e-12 {
		t.Errorf("random direction has length %v, want 1", n)
	}
	// An unrelated draw in between must not change the result for the pair.
	g.direction(r2.Vec{}, 0, 8, 3, scratch)
	if again := g.direction(r2.Vec{}, 0, 3, 8, scratch); again != first {
		t.Errorf("direction for pair (3, 8) changed: %v then %v", first, again)
	}
}

func TestPressureSymmetricPair(t *testing.T) {
	params := fluidParams()
	params.Gravity = 0
	params.ViscosityMultiplier = 0
	g := newTestGrid(t, params, GridOptions{Workers: 1})
	a := mustAdd(t, g, r2.Vec{X: 5, Y: 4}, r2.Vec{})
	b := mustAdd(t, g, r2.Vec{X: 5.1, Y: 4}, r2.Vec{})

	g.UpdateParticles(testDT, components.Interaction{})

	fa := g.Particle(a).Forces.Pressure
	fb := g.Particle(b).Forces.Pressure
	if math.Abs(fa.X+fb.X) > 1e-9 || fa.Y != 0 || fb.Y != 0 {
		t.Errorf("pair forces not opposite: %v and %v", fa, fb)
	}
	// Below rest density pressure is negative, so the pair attracts.
	if fa.X <= 0 {
		t.Errorf("pressure on left particle = %v, want pull to the right", fa)
	}
}
