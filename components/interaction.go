package components

import "gonum.org/v1/gonum/spatial/r2"

// Interaction is a user push/pull applied for a single frame.
// Positive strength pulls particles toward Pos, negative strength pushes them away.
type Interaction struct {
	Pos      r2.Vec // World position
	Radius   float64
	Strength float64
}

// Active reports whether the interaction exerts any force.
func (in Interaction) Active() bool {
	return in.Radius > 0 && in.Strength != 0
}
