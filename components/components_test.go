package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var testBounds = Bounds{Width: 10, Height: 8, Radius: 0.05}

func TestPredictPositionClamps(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		vel  r2.Vec
		want r2.Vec
	}{
		{"free flight", r2.Vec{X: 5, Y: 4}, r2.Vec{X: 10, Y: -10}, r2.Vec{X: 5.1, Y: 3.9}},
		{"left", r2.Vec{X: 0.06, Y: 4}, r2.Vec{X: -5}, r2.Vec{X: 0.05, Y: 4}},
		{"right", r2.Vec{X: 9.94, Y: 4}, r2.Vec{X: 5}, r2.Vec{X: 9.95, Y: 4}},
		{"bottom", r2.Vec{X: 5, Y: 0.06}, r2.Vec{Y: -5}, r2.Vec{X: 5, Y: 0.05}},
		{"top", r2.Vec{X: 5, Y: 7.94}, r2.Vec{Y: 5}, r2.Vec{X: 5, Y: 7.95}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Particle{Pos: tc.pos, Vel: tc.vel}
			p.PredictPosition(0.01, testBounds)

			if math.Abs(p.Predicted.X-tc.want.X) > 1e-12 || math.Abs(p.Predicted.Y-tc.want.Y) > 1e-12 {
				t.Errorf("Predicted = %v, want %v", p.Predicted, tc.want)
			}
			if p.Pos != tc.pos || p.Vel != tc.vel {
				t.Errorf("prediction changed state: pos=%v vel=%v", p.Pos, p.Vel)
			}
		})
	}
}

func TestIntegrateAppliesForces(t *testing.T) {
	p := Particle{Pos: r2.Vec{X: 5, Y: 4}, Vel: r2.Vec{X: 1}}
	p.SetForces(Forces{
		Gravity:     r2.Vec{Y: -10},
		Pressure:    r2.Vec{X: 2},
		Viscosity:   r2.Vec{X: -1, Y: 1},
		Interaction: r2.Vec{Y: 3},
	})

	if bounced := p.Integrate(0.1, testBounds, 0.5); bounced {
		t.Error("unexpected bounce")
	}

	wantVel := r2.Vec{X: 1.1, Y: -0.6}
	if math.Abs(p.Vel.X-wantVel.X) > 1e-12 || math.Abs(p.Vel.Y-wantVel.Y) > 1e-12 {
		t.Errorf("Vel = %v, want %v", p.Vel, wantVel)
	}
	wantPos := r2.Vec{X: 5.11, Y: 3.94}
	if math.Abs(p.Pos.X-wantPos.X) > 1e-12 || math.Abs(p.Pos.Y-wantPos.Y) > 1e-12 {
		t.Errorf("Pos = %v, want %v", p.Pos, wantPos)
	}
}

func TestIntegrateBounce(t *testing.T) {
	p := Particle{Pos: r2.Vec{X: 9.9, Y: 4}, Vel: r2.Vec{X: 20, Y: 2}}

	if bounced := p.Integrate(0.01, testBounds, 0.25); !bounced {
		t.Fatal("expected bounce")
	}
	if p.Pos.X != 9.95 {
		t.Errorf("Pos.X = %v, want 9.95", p.Pos.X)
	}
	// Both components are damped even though only x collided.
	if math.Abs(p.Vel.X+5) > 1e-12 || math.Abs(p.Vel.Y-0.5) > 1e-12 {
		t.Errorf("Vel = %v, want (-5, 0.5)", p.Vel)
	}
}

func TestForcesSum(t *testing.T) {
	f := Forces{
		Gravity:     r2.Vec{Y: -1},
		Pressure:    r2.Vec{X: 2, Y: 2},
		Viscosity:   r2.Vec{X: -0.5},
		Interaction: r2.Vec{X: 1, Y: 1},
	}
	if got, want := f.Sum(), (r2.Vec{X: 2.5, Y: 2}); got != want {
		t.Errorf("Sum() = %v, want %v", got, want)
	}
}

func TestInteractionActive(t *testing.T) {
	tests := []struct {
		in   Interaction
		want bool
	}{
		{Interaction{}, false},
		{Interaction{Radius: 1}, false},
		{Interaction{Strength: 50}, false},
		{Interaction{Radius: -1, Strength: 50}, false},
		{Interaction{Radius: 1, Strength: -50}, true},
	}
	for _, tc := range tests {
		if got := tc.in.Active(); got != tc.want {
			t.Errorf("%+v.Active() = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSpeed(t *testing.T) {
	p := Particle{Vel: r2.Vec{X: 3, Y: -4}}
	if p.Speed() != 5 {
		t.Errorf("Speed() = %v, want 5", p.Speed())
	}
}
