package renderer

import (
	"image/color"
	"math"
	"testing"
)

func TestSpeedToColorStops(t *testing.T) {
	const maxSpeed = 4.0

	tests := []struct {
		speed float64
		want  color.RGBA
	}{
		{0, SpeedScale[0]},
		{1, SpeedScale[1]},
		{2, SpeedScale[2]},
		{3, SpeedScale[3]},
		{4, SpeedScale[4]},
		{40, SpeedScale[4]},
		{-1, SpeedScale[0]},
		{math.NaN(), SpeedScale[0]},
	}
	for _, tt := range tests {
		if got := SpeedToColor(tt.speed, maxSpeed); got != tt.want {
			t.Errorf("SpeedToColor(%v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}

func TestSpeedToColorBlendsBetweenStops(t *testing.T) {
	got := SpeedToColor(0.5, 4)
	// Halfway from blue (0,0,255) to cyan (0,200,255).
	if got.R != 0 || got.G != 100 || got.B != 255 {
		t.Errorf("SpeedToColor(0.5) = %v, want (0,100,255)", got)
	}
}

func TestBlendColorsClamps(t *testing.T) {
	c1 := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	c2 := color.RGBA{R: 210, G: 220, B: 230, A: 255}

	if got := BlendColors(c1, c2, -0.5); got != c1 {
		t.Errorf("BlendColors(a<0) = %v, want %v", got, c1)
	}
	if got := BlendColors(c1, c2, 1.5); got != c2 {
		t.Errorf("BlendColors(a>1) = %v, want %v", got, c2)
	}
	if got := BlendColors(c1, c2, 0.25); got.R != 60 || got.G != 70 || got.B != 80 {
		t.Errorf("BlendColors(0.25) = %v", got)
	}
}
