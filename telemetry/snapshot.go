package telemetry

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
	"github.com/pthm-cable/fluid/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay. Restoring it into a
// simulation with the same config continues bit-identically.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`

	World  systems.World  `json:"world"`
	Params systems.Params `json:"params"`
	Cols   int            `json:"cols"`
	Rows   int            `json:"rows"`

	Tick  int32  `json:"tick"`
	Frame uint64 `json:"frame"`

	Particles []ParticleState `json:"particles"`
	Buckets   [][]int32       `json:"buckets"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's persistent state. Densities and forces
// are recomputed every frame and are not stored.
type ParticleState struct {
	ID    int      `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	VelX  float64  `json:"vel_x"`
	VelY  float64  `json:"vel_y"`
	Color [4]uint8 `json:"color"`
}

// NewParticleState captures a particle.
func NewParticleState(p *components.Particle) ParticleState {
	return ParticleState{
		ID:    p.ID,
		X:     p.Pos.X,
		Y:     p.Pos.Y,
		VelX:  p.Vel.X,
		VelY:  p.Vel.Y,
		Color: [4]uint8{p.Color.R, p.Color.G, p.Color.B, p.Color.A},
	}
}

// Particle rebuilds the particle. Its predicted position starts at Pos.
func (ps ParticleState) Particle() components.Particle {
	pos := r2.Vec{X: ps.X, Y: ps.Y}
	return components.Particle{
		ID:        ps.ID,
		Pos:       pos,
		Predicted: pos,
		Vel:       r2.Vec{X: ps.VelX, Y: ps.VelY},
		Color:     color.RGBA{R: ps.Color[0], G: ps.Color[1], B: ps.Color[2], A: ps.Color[3]},
	}
}

// CaptureGrid fills the grid-owned fields of a snapshot.
func (s *Snapshot) CaptureGrid(g *systems.Grid) {
	s.Seed = g.Seed()
	s.World = g.World()
	s.Cols = g.Cols()
	s.Rows = g.Rows()
	s.Frame = g.Frame()
	s.Buckets = g.Buckets()

	particles := g.Particles()
	s.Particles = make([]ParticleState, len(particles))
	for i := range particles {
		s.Particles[i] = NewParticleState(&particles[i])
	}
}

// RestoredParticles returns the particle arena in ID order.
func (s *Snapshot) RestoredParticles() []components.Particle {
	out := make([]components.Particle, len(s.Particles))
	for i, ps := range s.Particles {
		out[i] = ps.Particle()
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name += "_" + sanitized
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
