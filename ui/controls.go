package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Slider binds a raygui slider to a parameter.
type Slider struct {
	Label    string
	Min, Max float32 // Slider position range
	Mapping  Mapping
	Format   string // Printf format for the mapped value
	Get      func() float64
	Set      func(float64) error
}

// Position returns the slider position for the parameter's current value.
func (s *Slider) Position() float32 {
	pos := float32(s.Mapping.Inverse(s.Get()))
	return min(max(pos, s.Min), s.Max)
}

// Apply sets the parameter from a slider position.
func (s *Slider) Apply(pos float32) error {
	return s.Set(s.Mapping.Forward(float64(pos)))
}

// Button is a raygui push button. Enabled may be nil.
type Button struct {
	Label   string
	Enabled func() bool
	OnClick func() error
}

func (b *Button) enabled() bool {
	return b.Enabled == nil || b.Enabled()
}

// ControlsPanel renders the right-side panel of parameter sliders and action
// buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	visible  bool

	sliders []Slider
	buttons []Button
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width, height int32, sliders []Slider, buttons []Button) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		visible:  true,
		sliders:  sliders,
		buttons:  buttons,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Resize moves the panel.
func (c *ControlsPanel) Resize(x, y, width, height int32) {
	c.x, c.y, c.width, c.height = x, y, width, height
}

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(px, py float32) bool {
	return c.visible &&
		px >= float32(c.x) && px < float32(c.x+c.width) &&
		py >= float32(c.y) && py < float32(c.y+c.height)
}

// Draw renders the panel and applies any slider or button the user touched.
// It returns the Y below the last control.
func (c *ControlsPanel) Draw() int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	th := r.Theme
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := c.x + th.Padding
	y := r.DrawSectionHeader(x, c.y+th.Padding, "Parameters")
	inner := c.width - 2*th.Padding

	for i := range c.sliders {
		y = c.drawSlider(&c.sliders[i], x, y, inner)
	}

	y += th.Padding
	y = r.DrawSectionHeader(x, y, "Actions")

	cols := int32(2)
	buttonW := (inner - th.Padding*(cols-1)) / cols
	for i := range c.buttons {
		col := int32(i) % cols
		bx := x + col*(buttonW+th.Padding)
		c.drawButton(&c.buttons[i], bx, y, buttonW)
		if col == cols-1 || i == len(c.buttons)-1 {
			y += th.ButtonHeight + 6
		}
	}
	return y
}

func (c *ControlsPanel) drawSlider(s *Slider, x, y, width int32) int32 {
	th := c.renderer.Theme

	rl.DrawText(s.Label, x, y, th.FontSize, th.LabelColor)
	value := fmt.Sprintf(s.Format, s.Get())
	valueW := rl.MeasureText(value, th.FontSize)
	rl.DrawText(value, x+width-valueW, y, th.FontSize, th.ValueColor)
	y += th.LineHeight

	pos := s.Position()
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(th.SliderHeight)}
	next := gui.SliderBar(bounds, "", "", pos, s.Min, s.Max)
	if next != pos && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		if err := s.Apply(next); err != nil {
			slog.Warn("parameter rejected", "param", s.Label, "error", err)
		}
	}
	return y + th.SliderHeight + 8
}

func (c *ControlsPanel) drawButton(b *Button, x, y, width int32) {
	th := c.renderer.Theme
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(th.ButtonHeight)}

	if !b.enabled() {
		rl.DrawRectangleLinesEx(bounds, 1, th.DisabledColor)
		textW := rl.MeasureText(b.Label, th.FontSize)
		rl.DrawText(b.Label, x+(width-textW)/2, y+(th.ButtonHeight-th.FontSize)/2, th.FontSize, th.DisabledColor)
		return
	}
	if gui.Button(bounds, b.Label) {
		if err := b.OnClick(); err != nil {
			slog.Warn("action failed", "action", b.Label, "error", err)
		}
	}
}
