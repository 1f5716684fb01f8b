package systems

import (
	"math"
	"testing"
)

var allKernels = []struct {
	name string
	fn   func(r, d float64) float64
}{
	{"density", DensityKernel},
	{"density_derivative", DensityKernelDerivative},
	{"near_density", NearDensityKernel},
	{"near_density_derivative", NearDensityKernelDerivative},
	{"viscosity", ViscosityKernel},
}

// TestKernelSupport verifies every kernel vanishes at and beyond the radius.
func TestKernelSupport(t *testing.T) {
	radii := []float64{0.1, 0.25, 1, 3.5}
	for _, k := range allKernels {
		t.Run(k.name, func(t *testing.T) {
			for _, r := range radii {
				for _, d := range []float64{r, r * 1.0001, r + 1, 100} {
					if got := k.fn(r, d); got != 0 {
						t.Errorf("%s(%v, %v) = %v, want 0", k.name, r, d, got)
					}
				}
			}
		})
	}
}

// TestDensityKernelsPositiveAndMonotone checks strict positivity and
// non-increasing values inside the support.
func TestDensityKernelsPositiveAndMonotone(t *testing.T) {
	kernels := allKernels[:0:0]
	for _, k := range allKernels {
		if k.name == "density" || k.name == "near_density" || k.name == "viscosity" {
			kernels = append(kernels, k)
		}
	}

	const r = 0.25
	const steps = 1000
	for _, k := range kernels {
		t.Run(k.name, func(t *testing.T) {
			prev := math.Inf(1)
			for i := 0; i < steps; i++ {
				d := r * float64(i) / steps
				v := k.fn(r, d)
				if v <= 0 {
					t.Fatalf("%s(%v, %v) = %v, want > 0", k.name, r, d, v)
				}
				if v > prev {
					t.Fatalf("%s increases at d=%v: %v > %v", k.name, d, v, prev)
				}
				prev = v
			}
		})
	}
}

// TestKernelValues pins the closed forms at a few points.
func TestKernelValues(t *testing.T) {
	const r = 0.25
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"density at 0", DensityKernel(r, 0), r * r / (math.Pi * math.Pow(r, 4) / 6)},
		{"density at 0.1", DensityKernel(r, 0.1), 0.15 * 0.15 / (math.Pi * math.Pow(r, 4) / 6)},
		{"derivative at 0.1", DensityKernelDerivative(r, 0.1), -12 / (math.Pi * math.Pow(r, 4)) * 0.15},
		{"near at 0", NearDensityKernel(r, 0), math.Pow(r, 3) / (math.Pi * math.Pow(r, 5) / 10)},
		{"near derivative at 0.1", NearDensityKernelDerivative(r, 0.1), -30 / (math.Pi * math.Pow(r, 5)) * 0.15 * 0.15},
		{"viscosity at 0.1", ViscosityKernel(r, 0.1), math.Pow(r*r-0.01, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if math.Abs(tc.got-tc.want) > 1e-9*math.Abs(tc.want) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

// TestKernelDerivativesNonPositive verifies slopes never point outward.
func TestKernelDerivativesNonPositive(t *testing.T) {
	const r = 0.5
	for i := 0; i <= 100; i++ {
		d := r * float64(i) / 100
		if v := DensityKernelDerivative(r, d); v > 0 {
			t.Errorf("DensityKernelDerivative(%v, %v) = %v, want <= 0", r, d, v)
		}
		if v := NearDensityKernelDerivative(r, d); v > 0 {
			t.Errorf("NearDensityKernelDerivative(%v, %v) = %v, want <= 0", r, d, v)
		}
	}
}
