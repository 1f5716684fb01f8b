package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

// SetInteraction applies the mouse tool at pos for subsequent frames. pull
// attracts particles toward pos, otherwise they are pushed away.
func (g *Game) SetInteraction(pos r2.Vec, pull bool) {
	strength := g.cfg.Interaction.Strength
	if !pull {
		strength = -strength
	}
	g.interaction = components.Interaction{
		Pos:      pos,
		Radius:   g.cfg.Interaction.Radius,
		Strength: strength,
	}
}

// ClearInteraction releases the mouse tool.
func (g *Game) ClearInteraction() {
	g.interaction = components.Interaction{}
}

// Interaction returns the tool applied to the next frame.
func (g *Game) Interaction() components.Interaction {
	return g.interaction
}
