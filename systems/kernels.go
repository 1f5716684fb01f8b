package systems

import "math"

// Smoothing kernels. Each takes the influence radius r and a distance d and is
// zero outside the support (d >= r).

// DensityKernel weights a neighbour's contribution to the density field.
func DensityKernel(r, d float64) float64 {
	if d >= r {
		return 0
	}
	volume := math.Pi * r * r * r * r / 6
	return (r - d) * (r - d) / volume
}

// DensityKernelDerivative is the slope of DensityKernel at distance d.
// It is never positive; callers supply the direction.
func DensityKernelDerivative(r, d float64) float64 {
	if d >= r {
		return 0
	}
	scale := 12 / (math.Pi * r * r * r * r)
	return -scale * (r - d)
}

// NearDensityKernel is a steeper kernel used for the short-range repulsion term.
func NearDensityKernel(r, d float64) float64 {
	if d >= r {
		return 0
	}
	volume := math.Pi * r * r * r * r * r / 10
	return (r - d) * (r - d) * (r - d) / volume
}

// NearDensityKernelDerivative is the slope of NearDensityKernel at distance d.
func NearDensityKernelDerivative(r, d float64) float64 {
	if d >= r {
		return 0
	}
	scale := 30 / (math.Pi * r * r * r * r * r)
	return -scale * (r - d) * (r - d)
}

// ViscosityKernel is an unnormalized weight for velocity averaging.
func ViscosityKernel(r, d float64) float64 {
	if d >= r {
		return 0
	}
	v := r*r - d*d
	return v * v * v
}
