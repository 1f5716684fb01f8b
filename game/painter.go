package game

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

// imageScale is the share of the world the longer image side covers when an
// image is first placed.
const imageScale = 0.75

// PainterMode is the stage of the paint-then-replay workflow.
type PainterMode int

const (
	PainterOff      PainterMode = iota // Plain simulation, speed coloring
	PainterPreview                     // Running from empty, end frame open
	PainterEditing                     // Stopped at the end frame, image may be placed
	PainterPlayback                    // Replaying to the end frame with painted colors
)

func (m PainterMode) String() string {
	switch m {
	case PainterPreview:
		return "preview"
	case PainterEditing:
		return "editing"
	case PainterPlayback:
		return "playback"
	default:
		return "off"
	}
}

// ErrPainterState is returned when a painter action does not fit the current mode.
var ErrPainterState = errors.New("painter: action not valid in current mode")

// ImageRect is the world-space rectangle an image is stretched over.
type ImageRect struct {
	Min, Max r2.Vec
}

// Contains reports whether p lies strictly inside the rectangle.
func (r ImageRect) Contains(p r2.Vec) bool {
	return p.X > r.Min.X && p.X < r.Max.X && p.Y > r.Min.Y && p.Y < r.Max.Y
}

// painter holds the per-ID colors chosen on the final frame of a preview. A
// replay from the same seed reaches the same frame with the same particle
// IDs at the same places, so spawning with these colors draws the image.
type painter struct {
	mode     PainterMode
	endFrame uint64
	colors   []color.RGBA // Indexed by particle ID
	image    image.Image
	rect     ImageRect
}

// reset clears colors and image. The mode is left unchanged.
func (p *painter) reset(n int, def color.RGBA) {
	p.resizeColors(n, def)
	p.image = nil
}

// resizeColors replaces the color table with n default entries.
func (p *painter) resizeColors(n int, def color.RGBA) {
	p.colors = make([]color.RGBA, n)
	for i := range p.colors {
		p.colors[i] = def
	}
}

// painting reports whether particle colors are owned by the painter.
func (p *painter) painting() bool {
	return p.mode != PainterOff
}

// colorFor returns the painted color for a particle ID.
func (p *painter) colorFor(id int) (color.RGBA, bool) {
	if !p.painting() || id < 0 || id >= len(p.colors) {
		return color.RGBA{}, false
	}
	return p.colors[id], true
}

// reachedEnd reports whether a replay has arrived at the recorded end frame.
func (p *painter) reachedEnd(frame uint64) bool {
	return p.mode == PainterPlayback && frame >= p.endFrame
}

// sample returns the image pixel under a world position inside the rectangle.
func (p *painter) sample(pos r2.Vec) color.RGBA {
	b := p.image.Bounds()
	w := p.rect.Max.X - p.rect.Min.X
	h := p.rect.Max.Y - p.rect.Min.Y

	px := int((pos.X - p.rect.Min.X) / w * float64(b.Dx()))
	py := int((p.rect.Max.Y - pos.Y) / h * float64(b.Dy()))
	px = min(max(px, 0), b.Dx()-1)
	py = min(max(py, 0), b.Dy()-1)

	c := color.NRGBAModel.Convert(p.image.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// PainterMode returns the current workflow stage.
func (g *Game) PainterMode() PainterMode {
	return g.painter.mode
}

// EndFrame returns the frame a preview was stopped at.
func (g *Game) EndFrame() uint64 {
	return g.painter.endFrame
}

// ImageRect returns the placed image rectangle and whether an image is loaded.
func (g *Game) ImageRect() (ImageRect, bool) {
	return g.painter.rect, g.painter.image != nil
}

// StartPreview restarts from an empty grid with default colors and runs until
// StopPreview.
func (g *Game) StartPreview() error {
	if g.painter.mode == PainterPreview {
		return ErrPainterState
	}
	if err := g.Reset(); err != nil {
		return err
	}
	g.painter.reset(g.cfg.Particles.Count, g.defaultColor())
	g.painter.mode = PainterPreview
	g.painter.endFrame = 0
	g.paused = false

	slog.Info("preview started")
	return nil
}

// StopPreview pauses and records the current frame as the animation end.
func (g *Game) StopPreview() error {
	if g.painter.mode != PainterPreview {
		return ErrPainterState
	}
	g.painter.mode = PainterEditing
	g.painter.endFrame = g.grid.Frame()
	g.paused = true

	slog.Info("preview stopped", "end_frame", g.painter.endFrame, "particles", g.grid.Len())
	return nil
}

// LoadImage decodes a PNG or JPEG file and places it over the stopped preview.
func (g *Game) LoadImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding image %s: %w", path, err)
	}
	return g.SetImage(img)
}

// SetImage centers img over the world at imageScale, keeping its aspect
// ratio, and paints the particles it covers.
func (g *Game) SetImage(img image.Image) error {
	if g.painter.mode != PainterEditing {
		return ErrPainterState
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.New("painter: empty image")
	}

	var w, h float64
	aspect := float64(b.Dy()) / float64(b.Dx())
	if b.Dx() > b.Dy() {
		w = imageScale * g.world.Width
		h = w * aspect
	} else {
		h = imageScale * g.world.Height
		w = h / aspect
	}
	center := r2.Vec{X: g.world.Width / 2, Y: g.world.Height / 2}
	half := r2.Vec{X: w / 2, Y: h / 2}

	g.painter.image = img
	g.painter.rect = ImageRect{Min: r2.Sub(center, half), Max: r2.Add(center, half)}
	g.applyImage()
	return nil
}

// MoveImage shifts the placed image by delta world units and repaints.
func (g *Game) MoveImage(delta r2.Vec) error {
	if g.painter.mode != PainterEditing || g.painter.image == nil {
		return ErrPainterState
	}
	g.painter.rect.Min = r2.Add(g.painter.rect.Min, delta)
	g.painter.rect.Max = r2.Add(g.painter.rect.Max, delta)
	g.applyImage()
	return nil
}

// applyImage colors every particle under the image with the pixel beneath it
// and every other particle with the default color, recording both by ID.
func (g *Game) applyImage() {
	def := g.defaultColor()
	particles := g.grid.Particles()
	if len(particles) > len(g.painter.colors) {
		grown := make([]color.RGBA, len(particles))
		copy(grown, g.painter.colors)
		g.painter.colors = grown
	}

	for i := range particles {
		p := &particles[i]
		c := def
		if g.painter.image != nil && g.painter.rect.Contains(p.Pos) {
			c = g.painter.sample(p.Pos)
		}
		p.Color = c
		g.painter.colors[p.ID] = c
	}
}

// StartAnimation replays the preview from an empty grid, spawning every
// particle with its painted color, and pauses at the end frame.
func (g *Game) StartAnimation() error {
	if g.painter.mode != PainterEditing || g.painter.endFrame == 0 {
		return ErrPainterState
	}
	if err := g.Reset(); err != nil {
		return err
	}
	g.painter.mode = PainterPlayback
	g.recording = g.recordDir != ""
	g.recordedFrames = 0
	g.paused = false

	slog.Info("animation started", "end_frame", g.painter.endFrame)
	return nil
}

// finishPlayback stops a replay at its end frame.
func (g *Game) finishPlayback() {
	g.painter.mode = PainterEditing
	g.paused = true
	slog.Info("animation done", "frame", g.grid.Frame(), "recorded_frames", g.recordedFrames)
}

// StopPainter returns to plain simulation without resetting.
func (g *Game) StopPainter() {
	g.painter.mode = PainterOff
	g.painter.image = nil
}
