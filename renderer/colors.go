// Package renderer draws the fluid and its overlays with raylib.
package renderer

import "image/color"

// SpeedScale is the five-stop palette particles are tinted with, slowest first.
var SpeedScale = [5]color.RGBA{
	{R: 0, G: 0, B: 255, A: 255},
	{R: 0, G: 200, B: 255, A: 255},
	{R: 0, G: 190, B: 0, A: 255},
	{R: 230, G: 230, B: 0, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
}

// SpeedToColor maps a speed in [0, maxSpeed] onto SpeedScale with linear
// blending between stops. Faster particles get the last stop.
func SpeedToColor(speed, maxSpeed float64) color.RGBA {
	if !(speed > 0) || maxSpeed <= 0 {
		return SpeedScale[0]
	}
	if speed >= maxSpeed {
		return SpeedScale[len(SpeedScale)-1]
	}

	d := speed / (maxSpeed / float64(len(SpeedScale)-1))
	q := int(d)
	if q >= len(SpeedScale)-1 {
		return SpeedScale[len(SpeedScale)-1]
	}
	return BlendColors(SpeedScale[q], SpeedScale[q+1], d-float64(q))
}

// BlendColors linearly interpolates from c1 (a=0) to c2 (a=1).
// a outside [0, 1] returns the nearer endpoint.
func BlendColors(c1, c2 color.RGBA, a float64) color.RGBA {
	if a <= 0 {
		return c1
	}
	if a >= 1 {
		return c2
	}
	return color.RGBA{
		R: lerp8(c1.R, c2.R, a),
		G: lerp8(c1.G, c2.G, a),
		B: lerp8(c1.B, c2.B, a),
		A: lerp8(c1.A, c2.A, a),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8((1-t)*float64(a) + t*float64(b))
}
