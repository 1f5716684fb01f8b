// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Particles   ParticlesConfig   `yaml:"particles"`
	Interaction InteractionConfig `yaml:"interaction"`
	Parallel    ParallelConfig    `yaml:"parallel"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Render      RenderConfig      `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // Slider panel on the right of the fluid view
}

// WorldConfig holds the simulated rectangle in world units (metres, y up).
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds the SPH parameters.
type PhysicsConfig struct {
	DT                     float64 `yaml:"dt"`
	Gravity                float64 `yaml:"gravity"`
	CollisionDamping       float64 `yaml:"collision_damping"`
	RestDensity            float64 `yaml:"rest_density"`
	PressureMultiplier     float64 `yaml:"pressure_multiplier"`
	NearPressureMultiplier float64 `yaml:"near_pressure_multiplier"`
	ViscosityMultiplier    float64 `yaml:"viscosity_multiplier"`
	InfluenceRadius        float64 `yaml:"influence_radius"` // Also the grid cell size
}

// ParticlesConfig holds roster and spawning parameters.
type ParticlesConfig struct {
	Count        int      `yaml:"count"`         // Target roster size
	Radius       float64  `yaml:"radius"`        // Draw and wall-collision radius
	SpawnSpacing float64  `yaml:"spawn_spacing"` // Vertical gap between spawn rows, in radii
	SpawnSpeed   float64  `yaml:"spawn_speed"`   // Horizontal launch speed of spawned particles
	Color        [4]uint8 `yaml:"color"`         // RGBA tag for new particles
}

// InteractionConfig holds the mouse push/pull tool.
type InteractionConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"` // Magnitude; sign comes from the mouse button
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Particle count below which frames run single-threaded
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of sim time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	MaxSpeed     float64 `yaml:"max_speed"`      // Speed mapped to the last color stop
	ColorBySpeed bool    `yaml:"color_by_speed"` // Otherwise particles keep their spawn color
	ShowGrid     bool    `yaml:"show_grid"`      // Draw cell boundaries
	ShowPanel    bool    `yaml:"show_panel"`     // Draw slider panel
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SpawnInterval int     // Frames between spawn waves
	SpawnRows     int     // Particle pairs per spawn wave
	PixelsPerUnit float64 // Fluid view scale
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Compute derived values
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports every setting the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error

	positive := []struct {
		name string
		v    float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"physics.dt", c.Physics.DT},
		{"physics.influence_radius", c.Physics.InfluenceRadius},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive and finite, got %v", f.name, f.v))
		}
	}

	if c.Physics.CollisionDamping < 0 || c.Physics.CollisionDamping > 1 {
		errs = append(errs, fmt.Errorf("physics.collision_damping must be in [0, 1], got %v", c.Physics.CollisionDamping))
	}
	if c.Particles.Count < 0 {
		errs = append(errs, fmt.Errorf("particles.count must not be negative, got %d", c.Particles.Count))
	}
	if c.Particles.Radius < 0 {
		errs = append(errs, fmt.Errorf("particles.radius must not be negative, got %v", c.Particles.Radius))
	}
	if c.Particles.SpawnSpacing <= 0 {
		errs = append(errs, fmt.Errorf("particles.spawn_spacing must be positive, got %v", c.Particles.SpawnSpacing))
	}
	if c.Interaction.Radius < 0 {
		errs = append(errs, fmt.Errorf("interaction.radius must not be negative, got %v", c.Interaction.Radius))
	}
	if c.Parallel.Workers < 0 {
		errs = append(errs, fmt.Errorf("parallel.workers must not be negative, got %d", c.Parallel.Workers))
	}
	if c.Render.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("render.max_speed must be positive, got %v", c.Render.MaxSpeed))
	}

	return errors.Join(errs...)
}

// ComputeDerived calculates values derived from loaded config. Call it again
// after editing the influence radius, particle radius or world size.
func (c *Config) ComputeDerived() {
	c.Derived.SpawnInterval = max(1, int(c.Particles.SpawnSpeed*c.Physics.InfluenceRadius))

	rows := 0
	if step := c.Particles.SpawnSpacing * c.Particles.Radius; step > 0 {
		rows = int((c.World.Height / 10) / step)
	}
	c.Derived.SpawnRows = rows

	viewW := c.Screen.Width
	if c.Render.ShowPanel {
		viewW -= c.Screen.PanelWidth
	}
	c.Derived.PixelsPerUnit = math.Min(float64(viewW)/c.World.Width, float64(c.Screen.Height)/c.World.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
